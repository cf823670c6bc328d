package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/design-crm/internal/service"
)

// ListHandler manages CRUD for lists and their contact memberships.
type ListHandler struct {
	lists  *service.ListService
	logger *slog.Logger
}

// NewListHandler creates a ListHandler.
func NewListHandler(lists *service.ListService, logger *slog.Logger) *ListHandler {
	return &ListHandler{lists: lists, logger: logger}
}

// HandleList returns all lists.
//
// HTTP: GET /api/lists
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	lists, err := h.lists.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, lists)
}

// HandleGetByID returns a single list.
//
// HTTP: GET /api/lists/{id}
func (h *ListHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	list, err := h.lists.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleCreate saves a new list.
//
// HTTP: POST /api/lists
// BODY: {"name":"Top Picks","description":"..."}
func (h *ListHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in service.ListInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid list JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	list, err := h.lists.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, list)
}

// HandleUpdate replaces a list's name and description.
//
// HTTP: PUT /api/lists/{id}
func (h *ListHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var in service.ListInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.Warn("invalid list JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	list, err := h.lists.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// HandleDelete removes a list. Its contacts survive; only the membership
// rows are cascaded away.
//
// HTTP: DELETE /api/lists/{id}
func (h *ListHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.lists.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleContacts returns the contacts joined to a list.
//
// HTTP: GET /api/lists/{id}/contacts
func (h *ListHandler) HandleContacts(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	contacts, err := h.lists.Contacts(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

// HandleAddContact joins a contact to a list. Adding an existing member
// returns the existing row — the endpoint is idempotent.
//
// HTTP: POST /api/lists/{id}/contacts
// BODY: {"contactId": 7}
func (h *ListHandler) HandleAddContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		ContactID int64 `json:"contactId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("invalid membership JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	membership, err := h.lists.AddContact(r.Context(), id, body.ContactID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, membership)
}

// HandleRemoveContact removes a contact from a list.
//
// HTTP: DELETE /api/lists/{listId}/contacts/{contactId}
func (h *ListHandler) HandleRemoveContact(w http.ResponseWriter, r *http.Request) {
	listID, ok := pathID(w, r, "listId")
	if !ok {
		return
	}
	contactID, ok := pathID(w, r, "contactId")
	if !ok {
		return
	}

	if err := h.lists.RemoveContact(r.Context(), listID, contactID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
