package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/design-crm/internal/service"
)

// ContactHandler manages CRUD and search for designer contacts.
//
// Handlers only parse requests and write responses; validation and rules
// live in the service, SQL lives in the repository.
type ContactHandler struct {
	contacts *service.ContactService
	logger   *slog.Logger
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(contacts *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// HandleList returns all contacts.
//
// HTTP: GET /api/contacts
func (h *ContactHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// HandleSearch returns contacts matching the q query parameter.
//
// HTTP: GET /api/contacts/search?q=ada
func (h *ContactHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.contacts.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// HandleGetByID returns a single contact.
//
// HTTP: GET /api/contacts/{id}
func (h *ContactHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	contact, err := h.contacts.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// HandleCreate saves a new contact.
//
// HTTP: POST /api/contacts
// BODY: {"firstName":"Ada","lastName":"Lin","role":"Product Designer","company":"Acme", ...}
func (h *ContactHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid contact JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	contact, err := h.contacts.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

// HandleUpdate applies a partial update to a contact. Absent fields are left
// unchanged — the request struct uses pointers to tell "omitted" apart from
// "set to empty".
//
// HTTP: PUT /api/contacts/{id}
func (h *ContactHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch service.ContactPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("invalid contact JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	contact, err := h.contacts.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

// HandleDelete removes a contact (and, via the store's cascade, its list
// memberships).
//
// HTTP: DELETE /api/contacts/{id}
func (h *ContactHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.contacts.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses an integer id from the named URL parameter, writing a 400
// response and returning ok=false when it's malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}
