package notifier

import (
	"context"

	"portfolio-api/internal/model"
)

// Notifier tells the site owner about a newly stored contact message
type Notifier interface {
	NotifyNewContact(ctx context.Context, contact model.ContactMessage) error
	Close() error
}

// Noop discards notifications. Used when notifications are disabled.
type Noop struct{}

func (Noop) NotifyNewContact(context.Context, model.ContactMessage) error { return nil }
func (Noop) Close() error                                                { return nil }
