package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/design-crm/internal/apperror"
	"github.com/sakif/design-crm/internal/model"
)

func createTestList(t *testing.T, db *DB, name string) *model.List {
	t.Helper()
	list := &model.List{Name: name, Description: "curated picks"}
	if err := db.CreateList(context.Background(), list); err != nil {
		t.Fatalf("failed to create test list: %v", err)
	}
	return list
}

func TestCreateList(t *testing.T) {
	db := newTestDB(t)

	list := &model.List{Name: "Top Picks", Description: "for the recruiter"}
	if err := db.CreateList(context.Background(), list); err != nil {
		t.Fatalf("CreateList() error = %v", err)
	}

	if list.ID == 0 {
		t.Error("CreateList() did not set list.ID")
	}
	if list.CreatedAt.IsZero() || list.UpdatedAt.IsZero() {
		t.Error("CreateList() did not set timestamps")
	}

	found, err := db.GetListByID(context.Background(), list.ID)
	if err != nil {
		t.Fatalf("GetListByID() error = %v", err)
	}
	if found.Name != "Top Picks" {
		t.Errorf("Name = %q, want %q", found.Name, "Top Picks")
	}
	if found.Description != "for the recruiter" {
		t.Errorf("Description = %q, want %q", found.Description, "for the recruiter")
	}
}

func TestGetListByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetListByID(context.Background(), 404)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetListByID() error = %v, want ErrNotFound", err)
	}
}

func TestLists(t *testing.T) {
	db := newTestDB(t)

	createTestList(t, db, "First")
	createTestList(t, db, "Second")

	lists, err := db.Lists(context.Background())
	if err != nil {
		t.Fatalf("Lists() error = %v", err)
	}
	if len(lists) != 2 {
		t.Errorf("Lists() returned %d lists, want 2", len(lists))
	}
}

func TestUpdateList(t *testing.T) {
	db := newTestDB(t)
	list := createTestList(t, db, "Old Name")
	before := list.UpdatedAt

	list.Name = "New Name"
	if err := db.UpdateList(context.Background(), list); err != nil {
		t.Fatalf("UpdateList() error = %v", err)
	}

	found, err := db.GetListByID(context.Background(), list.ID)
	if err != nil {
		t.Fatalf("GetListByID() error = %v", err)
	}
	if found.Name != "New Name" {
		t.Errorf("Name = %q, want %q", found.Name, "New Name")
	}
	if found.UpdatedAt.Before(before) {
		t.Error("UpdateList() did not refresh UpdatedAt")
	}
}

func TestUpdateList_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.UpdateList(context.Background(), &model.List{ID: 42, Name: "Ghost"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("UpdateList() error = %v, want ErrNotFound", err)
	}
}

// Deleting a list must not delete its contacts — only the membership rows.
func TestDeleteList_KeepsContacts(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	contact := createTestContact(t, db, "Ada", "Lin")
	list := createTestList(t, db, "Top Picks")
	if _, err := db.AddContactToList(ctx, list.ID, contact.ID); err != nil {
		t.Fatalf("AddContactToList() error = %v", err)
	}

	if err := db.DeleteList(ctx, list.ID); err != nil {
		t.Fatalf("DeleteList() error = %v", err)
	}

	if _, err := db.GetListByID(ctx, list.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetListByID() after delete error = %v, want ErrNotFound", err)
	}

	// The contact survives its list.
	if _, err := db.GetByID(ctx, contact.ID); err != nil {
		t.Errorf("GetByID() after list delete error = %v, want nil", err)
	}
}

func TestListContacts_Ordering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	ada := createTestContact(t, db, "Ada", "Lin")
	ben := createTestContact(t, db, "Ben", "Okafor")
	list := createTestList(t, db, "Top Picks")

	if _, err := db.AddContactToList(ctx, list.ID, ben.ID); err != nil {
		t.Fatalf("AddContactToList() error = %v", err)
	}
	if _, err := db.AddContactToList(ctx, list.ID, ada.ID); err != nil {
		t.Fatalf("AddContactToList() error = %v", err)
	}

	members, err := db.ListContacts(ctx, list.ID)
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("ListContacts() returned %d contacts, want 2", len(members))
	}
	// Oldest membership first: Ben was added before Ada.
	if members[0].ID != ben.ID || members[1].ID != ada.ID {
		t.Errorf("ListContacts() order = [%d %d], want [%d %d]",
			members[0].ID, members[1].ID, ben.ID, ada.ID)
	}
}

// Re-adding an existing member must not create a duplicate row: the add is
// idempotent and returns the original membership.
func TestAddContactToList_Idempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	contact := createTestContact(t, db, "Ada", "Lin")
	list := createTestList(t, db, "Top Picks")

	first, err := db.AddContactToList(ctx, list.ID, contact.ID)
	if err != nil {
		t.Fatalf("AddContactToList() error = %v", err)
	}

	second, err := db.AddContactToList(ctx, list.ID, contact.ID)
	if err != nil {
		t.Fatalf("AddContactToList() second call error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("second AddContactToList() returned row %d, want existing row %d", second.ID, first.ID)
	}

	members, err := db.ListContacts(ctx, list.ID)
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(members) != 1 {
		t.Errorf("ListContacts() returned %d contacts, want exactly 1", len(members))
	}
}

func TestAddContactToList_MissingParents(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	contact := createTestContact(t, db, "Ada", "Lin")
	list := createTestList(t, db, "Top Picks")

	if _, err := db.AddContactToList(ctx, list.ID, 999); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("AddContactToList() with missing contact error = %v, want ErrNotFound", err)
	}
	if _, err := db.AddContactToList(ctx, 999, contact.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("AddContactToList() with missing list error = %v, want ErrNotFound", err)
	}
}

func TestRemoveContactFromList(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	contact := createTestContact(t, db, "Ada", "Lin")
	list := createTestList(t, db, "Top Picks")
	if _, err := db.AddContactToList(ctx, list.ID, contact.ID); err != nil {
		t.Fatalf("AddContactToList() error = %v", err)
	}

	if err := db.RemoveContactFromList(ctx, list.ID, contact.ID); err != nil {
		t.Fatalf("RemoveContactFromList() error = %v", err)
	}

	members, err := db.ListContacts(ctx, list.ID)
	if err != nil {
		t.Fatalf("ListContacts() error = %v", err)
	}
	if len(members) != 0 {
		t.Errorf("ListContacts() returned %d contacts after removal, want 0", len(members))
	}

	// Removing again reports not found.
	err = db.RemoveContactFromList(ctx, list.ID, contact.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("RemoveContactFromList() second call error = %v, want ErrNotFound", err)
	}
}
