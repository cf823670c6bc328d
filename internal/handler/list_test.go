package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sakif/design-crm/internal/handler"
	"github.com/sakif/design-crm/internal/model"
	"github.com/sakif/design-crm/internal/repository/sqlite"
	"github.com/sakif/design-crm/internal/service"
	"github.com/stretchr/testify/assert"
)

func newListHandler(t *testing.T) (*handler.ListHandler, *sqlite.DB) {
	t.Helper()
	db := newTestStore(t)
	svc := service.NewListService(db, quietLogger())
	return handler.NewListHandler(svc, quietLogger()), db
}

func seedHandlerList(t *testing.T, db *sqlite.DB, name string) *model.List {
	t.Helper()
	list := &model.List{Name: name, Description: "curated picks"}
	if err := db.CreateList(context.Background(), list); err != nil {
		t.Fatalf("failed to seed list: %v", err)
	}
	return list
}

func TestListHandler_HandleCreate(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		h, _ := newListHandler(t)

		reqBody := `{"name":"Top Picks","description":"for the recruiter"}`
		req := httptest.NewRequest(http.MethodPost, "/api/lists", bytes.NewBufferString(reqBody))
		rr := httptest.NewRecorder()

		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var list model.List
		err := json.NewDecoder(rr.Body).Decode(&list)
		assert.NoError(t, err)
		assert.NotZero(t, list.ID)
		assert.Equal(t, "Top Picks", list.Name)
	})

	t.Run("missing name", func(t *testing.T) {
		h, _ := newListHandler(t)

		req := httptest.NewRequest(http.MethodPost, "/api/lists", bytes.NewBufferString(`{"description":"x"}`))
		rr := httptest.NewRecorder()

		h.HandleCreate(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestListHandler_HandleContacts(t *testing.T) {
	t.Run("members in added order", func(t *testing.T) {
		h, db := newListHandler(t)
		ctx := context.Background()

		list := seedHandlerList(t, db, "Top Picks")
		ada := seedHandlerContact(t, db, "Ada", "Lin")
		ben := seedHandlerContact(t, db, "Ben", "Okafor")
		for _, c := range []*model.Contact{ben, ada} {
			if _, err := db.AddContactToList(ctx, list.ID, c.ID); err != nil {
				t.Fatalf("failed to seed membership: %v", err)
			}
		}

		req := httptest.NewRequest(http.MethodGet, "/api/lists/1/contacts", nil)
		req.SetPathValue("id", "1")
		rr := httptest.NewRecorder()

		h.HandleContacts(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var contacts []model.Contact
		err := json.NewDecoder(rr.Body).Decode(&contacts)
		assert.NoError(t, err)
		assert.Len(t, contacts, 2)
		assert.Equal(t, ben.ID, contacts[0].ID)
		assert.Equal(t, ada.ID, contacts[1].ID)
	})

	t.Run("missing list", func(t *testing.T) {
		h, _ := newListHandler(t)

		req := httptest.NewRequest(http.MethodGet, "/api/lists/42/contacts", nil)
		req.SetPathValue("id", "42")
		rr := httptest.NewRecorder()

		h.HandleContacts(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListHandler_HandleAddContact(t *testing.T) {
	t.Run("adds member", func(t *testing.T) {
		h, db := newListHandler(t)

		seedHandlerList(t, db, "Top Picks")
		contact := seedHandlerContact(t, db, "Ada", "Lin")

		reqBody := `{"contactId":1}`
		req := httptest.NewRequest(http.MethodPost, "/api/lists/1/contacts", bytes.NewBufferString(reqBody))
		req.SetPathValue("id", "1")
		rr := httptest.NewRecorder()

		h.HandleAddContact(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var lc model.ListContact
		err := json.NewDecoder(rr.Body).Decode(&lc)
		assert.NoError(t, err)
		assert.Equal(t, contact.ID, lc.ContactID)
	})

	t.Run("missing contactId", func(t *testing.T) {
		h, db := newListHandler(t)
		seedHandlerList(t, db, "Top Picks")

		req := httptest.NewRequest(http.MethodPost, "/api/lists/1/contacts", bytes.NewBufferString(`{}`))
		req.SetPathValue("id", "1")
		rr := httptest.NewRecorder()

		h.HandleAddContact(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown contact", func(t *testing.T) {
		h, db := newListHandler(t)
		seedHandlerList(t, db, "Top Picks")

		req := httptest.NewRequest(http.MethodPost, "/api/lists/1/contacts", bytes.NewBufferString(`{"contactId":999}`))
		req.SetPathValue("id", "1")
		rr := httptest.NewRecorder()

		h.HandleAddContact(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestListHandler_HandleRemoveContact(t *testing.T) {
	h, db := newListHandler(t)
	ctx := context.Background()

	list := seedHandlerList(t, db, "Top Picks")
	contact := seedHandlerContact(t, db, "Ada", "Lin")
	if _, err := db.AddContactToList(ctx, list.ID, contact.ID); err != nil {
		t.Fatalf("failed to seed membership: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/api/lists/1/contacts/1", nil)
	req.SetPathValue("listId", "1")
	req.SetPathValue("contactId", "1")
	rr := httptest.NewRecorder()

	h.HandleRemoveContact(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	members, err := db.ListContacts(ctx, list.ID)
	assert.NoError(t, err)
	assert.Empty(t, members)
}

func TestListHandler_HandleDelete(t *testing.T) {
	h, db := newListHandler(t)
	seedHandlerList(t, db, "Top Picks")

	req := httptest.NewRequest(http.MethodDelete, "/api/lists/1", nil)
	req.SetPathValue("id", "1")
	rr := httptest.NewRecorder()

	h.HandleDelete(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	_, err := db.GetListByID(context.Background(), 1)
	assert.Error(t, err)
}
