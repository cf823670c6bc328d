package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sakif/design-crm/internal/apperror"
	"github.com/sakif/design-crm/internal/model"
	"github.com/sakif/design-crm/internal/repository"
)

// Compile-time check that *DB implements repository.ListRepository.
var _ repository.ListRepository = (*DB)(nil)

// CreateList inserts a new list and sets the assigned id and timestamps on
// the caller's struct.
func (db *DB) CreateList(ctx context.Context, list *model.List) error {
	now := time.Now()
	list.CreatedAt = now
	list.UpdatedAt = now

	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO lists (name, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		list.Name,
		list.Description,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating list: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading list id: %w", err)
	}
	list.ID = id

	return nil
}

// GetListByID retrieves a single list by id.
func (db *DB) GetListByID(ctx context.Context, id int64) (*model.List, error) {
	var l model.List

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM lists WHERE id = ?`,
		id,
	).Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("list", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting list %d: %w", id, err)
	}

	return &l, nil
}

// Lists returns every list, newest first — the mobile home screen shows the
// most recently created lists at the top.
func (db *DB) Lists(ctx context.Context) ([]model.List, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM lists ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing lists: %w", err)
	}
	defer rows.Close()

	lists := []model.List{}
	for rows.Next() {
		var l model.List
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning list row: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating lists: %w", err)
	}

	return lists, nil
}

// UpdateList writes name and description and refreshes updated_at.
func (db *DB) UpdateList(ctx context.Context, list *model.List) error {
	list.UpdatedAt = time.Now()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE lists SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		list.Name,
		list.Description,
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating list %d: %w", list.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("list", strconv.FormatInt(list.ID, 10))
	}

	return nil
}

// DeleteList removes a list. Its membership rows cascade; its contacts stay.
func (db *DB) DeleteList(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting list %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("list", strconv.FormatInt(id, 10))
	}

	return nil
}

// ListContacts returns the contacts joined to a list via list_contacts,
// oldest membership first. The foreign keys guarantee no dangling rows, so a
// plain INNER JOIN is enough.
func (db *DB) ListContacts(ctx context.Context, listID int64) ([]model.Contact, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.first_name, c.last_name, c.role, c.company,
		        c.linkedin, c.portfolio, c.notes, c.profile_photo
		 FROM contacts c
		 JOIN list_contacts lc ON lc.contact_id = c.id
		 WHERE lc.list_id = ?
		 ORDER BY lc.added_at, lc.id`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing contacts for list %d: %w", listID, err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// AddContactToList inserts a membership row.
//
// ON CONFLICT DO NOTHING makes repeated adds idempotent: the UNIQUE
// (list_id, contact_id) constraint swallows the duplicate and we return the
// existing row instead. A missing list or contact trips the foreign key and
// is reported as NotFound.
func (db *DB) AddContactToList(ctx context.Context, listID, contactID int64) (*model.ListContact, error) {
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO list_contacts (list_id, contact_id, added_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(list_id, contact_id) DO NOTHING`,
		listID, contactID, time.Now(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperror.NotFound("list or contact",
				fmt.Sprintf("%d/%d", listID, contactID))
		}
		return nil, fmt.Errorf("sqlite: adding contact %d to list %d: %w", contactID, listID, err)
	}

	// Read the membership back — either the row we just inserted or the
	// pre-existing one the conflict clause kept.
	var lc model.ListContact
	err = db.conn.QueryRowContext(ctx,
		`SELECT id, list_id, contact_id, added_at
		 FROM list_contacts WHERE list_id = ? AND contact_id = ?`,
		listID, contactID,
	).Scan(&lc.ID, &lc.ListID, &lc.ContactID, &lc.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("sqlite: reading membership %d/%d: %w", listID, contactID, err)
	}

	return &lc, nil
}

// RemoveContactFromList deletes the matching membership row.
func (db *DB) RemoveContactFromList(ctx context.Context, listID, contactID int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM list_contacts WHERE list_id = ? AND contact_id = ?`,
		listID, contactID)
	if err != nil {
		return fmt.Errorf("sqlite: removing contact %d from list %d: %w", contactID, listID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("membership",
			fmt.Sprintf("list %d / contact %d", listID, contactID))
	}

	return nil
}

// isForeignKeyViolation reports whether err is a SQLite FK constraint error.
// modernc.org/sqlite surfaces these as generic errors carrying the SQLITE
// message text, so we match on it rather than a typed error.
func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
