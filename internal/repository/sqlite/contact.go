package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/sakif/design-crm/internal/apperror"
	"github.com/sakif/design-crm/internal/model"
	"github.com/sakif/design-crm/internal/repository"
)

// Compile-time check that *DB implements repository.ContactRepository.
var _ repository.ContactRepository = (*DB)(nil)

const contactColumns = `id, first_name, last_name, role, company, linkedin, portfolio, notes, profile_photo`

// scanContact reads one contact row. The column order must match contactColumns.
func scanContact(row interface{ Scan(...any) error }, c *model.Contact) error {
	return row.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.Role,
		&c.Company,
		&c.LinkedIn,
		&c.Portfolio,
		&c.Notes,
		&c.ProfilePhoto,
	)
}

// Create inserts a new contact. The store assigns the integer id; we read it
// back via LastInsertId and set it on the caller's struct.
func (db *DB) Create(ctx context.Context, contact *model.Contact) error {
	res, err := db.conn.ExecContext(ctx,
		`INSERT INTO contacts (first_name, last_name, role, company, linkedin, portfolio, notes, profile_photo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		contact.FirstName,
		contact.LastName,
		contact.Role,
		contact.Company,
		contact.LinkedIn,
		contact.Portfolio,
		contact.Notes,
		contact.ProfilePhoto,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating contact: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading contact id: %w", err)
	}
	contact.ID = id

	return nil
}

// GetByID retrieves a single contact. Returns apperror.ErrNotFound (wrapped)
// if no row matches — never a raw sql.ErrNoRows.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.Contact, error) {
	var c model.Contact

	err := scanContact(db.conn.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id,
	), &c)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("contact", strconv.FormatInt(id, 10))
		}
		return nil, fmt.Errorf("sqlite: getting contact %d: %w", id, err)
	}

	return &c, nil
}

// List returns every contact, oldest first. The contact pool is small and
// shared, so there is no pagination.
func (db *DB) List(ctx context.Context) ([]model.Contact, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// Search returns the contacts where q is a case-insensitive substring of
// first name, last name, role, or company.
//
// The query is escaped before going into the LIKE pattern, so % and _ in q
// match themselves rather than acting as wildcards. Note SQLite's LIKE is
// case-insensitive for ASCII only; non-ASCII letters compare case-sensitively.
func (db *DB) Search(ctx context.Context, q string) ([]model.Contact, error) {
	pattern := "%" + escapeLike(q) + "%"
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts
		 WHERE first_name LIKE ? ESCAPE '\'
		    OR last_name  LIKE ? ESCAPE '\'
		    OR role       LIKE ? ESCAPE '\'
		    OR company    LIKE ? ESCAPE '\'
		 ORDER BY id`,
		pattern, pattern, pattern, pattern,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: searching contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// Update writes the full contact record. Partial-update semantics (apply only
// the supplied fields) live in the service layer, which fetches first.
func (db *DB) Update(ctx context.Context, contact *model.Contact) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE contacts
		 SET first_name = ?, last_name = ?, role = ?, company = ?,
		     linkedin = ?, portfolio = ?, notes = ?, profile_photo = ?
		 WHERE id = ?`,
		contact.FirstName,
		contact.LastName,
		contact.Role,
		contact.Company,
		contact.LinkedIn,
		contact.Portfolio,
		contact.Notes,
		contact.ProfilePhoto,
		contact.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating contact %d: %w", contact.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("contact", strconv.FormatInt(contact.ID, 10))
	}

	return nil
}

// Delete removes a contact. Membership rows in list_contacts go with it via
// the ON DELETE CASCADE foreign key.
func (db *DB) Delete(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting contact %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("contact", strconv.FormatInt(id, 10))
	}

	return nil
}

// escapeLike neutralizes the LIKE metacharacters in a user-supplied query.
// Pairs with ESCAPE '\' on the LIKE clauses.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

// collectContacts drains a contact result set. Shared by List, Search, and
// the list-membership query.
func collectContacts(rows *sql.Rows) ([]model.Contact, error) {
	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := scanContact(rows, &c); err != nil {
			return nil, fmt.Errorf("sqlite: scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating contacts: %w", err)
	}
	return contacts, nil
}
