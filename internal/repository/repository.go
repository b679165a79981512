package repository

import (
	"context"
	"errors"

	"portfolio-api/internal/model"
)

// ErrContactNotFound is returned when no contact message has the requested id
var ErrContactNotFound = errors.New("contact message not found")

// ContactRepository persists contact messages. Implementations rely on the
// backing store for atomicity of single-record operations.
type ContactRepository interface {
	// Create stores a new contact message. The caller sets every field.
	Create(ctx context.Context, contact *model.ContactMessage) error

	// List returns every contact message, newest first.
	List(ctx context.Context) ([]model.ContactMessage, error)

	// GetByID returns the contact message with the given public id.
	GetByID(ctx context.Context, id string) (*model.ContactMessage, error)

	// UpdateStatus replaces the status of an existing contact message.
	UpdateStatus(ctx context.Context, id, status string) error

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
