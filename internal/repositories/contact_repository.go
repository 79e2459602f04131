package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"messenger-service/internal/models"
)

// ContactRepository abstracts the contact graph. The presence broadcaster only
// needs ContactsOf; alternate contact models can substitute behind it.
type ContactRepository interface {
	AddContact(ctx context.Context, contact models.Contact) error
	ContactsOf(ctx context.Context, userID string) ([]string, error)
	GetContact(ctx context.Context, ownerID string, contactID string) (models.Contact, bool, error)
}

// ContactRepo is a sqlx implementation of ContactRepository.
type ContactRepo struct {
	db *sqlx.DB
}

// NewContactRepo constructs a ContactRepo.
func NewContactRepo(db *sqlx.DB) *ContactRepo {
	return &ContactRepo{db: db}
}

// AddContact upserts a named address-book entry.
func (r *ContactRepo) AddContact(ctx context.Context, contact models.Contact) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO contacts (owner_id, contact_id, first_name, last_name)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (owner_id, contact_id) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name`,
		contact.OwnerID, contact.ContactID, contact.FirstName, contact.LastName)
	return err
}

// ContactsOf returns the users who have userID in their contacts. These are
// the presence fan-out targets for that user.
func (r *ContactRepo) ContactsOf(ctx context.Context, userID string) ([]string, error) {
	var owners []string
	err := r.db.SelectContext(ctx, &owners, `SELECT owner_id FROM contacts WHERE contact_id=$1`, userID)
	return owners, err
}

// GetContact fetches one contact entry if present.
func (r *ContactRepo) GetContact(ctx context.Context, ownerID string, contactID string) (models.Contact, bool, error) {
	var contact models.Contact
	err := r.db.GetContext(ctx, &contact, `SELECT owner_id, contact_id, first_name, last_name FROM contacts
        WHERE owner_id=$1 AND contact_id=$2`, ownerID, contactID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Contact{}, false, nil
	}
	if err != nil {
		return models.Contact{}, false, err
	}
	return contact, true, nil
}
