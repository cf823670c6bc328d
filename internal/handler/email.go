package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/design-crm/internal/service"
)

// EmailHandler exposes the two outbound-email endpoints: an ad-hoc send of
// selected contacts and a whole-list send.
type EmailHandler struct {
	emails *service.EmailService
	logger *slog.Logger
}

// NewEmailHandler creates an EmailHandler.
func NewEmailHandler(emails *service.EmailService, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{emails: emails, logger: logger}
}

// HandleSendContacts emails an ad-hoc selection of contacts.
//
// HTTP: POST /api/send-email
// BODY: {"to":"r@x.com","subject":"Talent","message":"...","contactIds":[1,2],"from":"me@x.com"}
//
// The send is synchronous: the handler blocks on the single outbound call
// and maps its boolean outcome to 200 or 500. No queue, no retry.
func (h *EmailHandler) HandleSendContacts(w http.ResponseWriter, r *http.Request) {
	var in service.SendContactsInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid send-email JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if err := h.emails.SendContacts(r.Context(), in); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Email sent successfully"})
}

// HandleSendList emails all contacts of a curated list.
//
// HTTP: POST /api/lists/{id}/send
// BODY: {"to":"r@x.com","from":"me@x.com","subject":"Talent","message":"optional"}
func (h *EmailHandler) HandleSendList(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in service.SendListInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid list-send JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if err := h.emails.SendList(r.Context(), id, in); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "List sent successfully"})
}
