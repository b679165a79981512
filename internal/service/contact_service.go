package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"portfolio-api/internal/config"
	metricsPkg "portfolio-api/internal/metrics"
	"portfolio-api/internal/model"
	"portfolio-api/internal/notifier"
	"portfolio-api/internal/repository"
)

// notifyTimeout bounds a single new-contact notification
const notifyTimeout = 30 * time.Second

// ContactService implements the contact form business rules on top of a repository
type ContactService struct {
	repo      repository.ContactRepository
	notifier  notifier.Notifier
	metrics   *metricsPkg.Metrics
	portfolio config.PortfolioConfig
	now       func() time.Time
	notifies  sync.WaitGroup
}

// NewContactService creates a contact service. A nil notifier disables notifications.
func NewContactService(repo repository.ContactRepository, n notifier.Notifier, m *metricsPkg.Metrics, portfolio config.PortfolioConfig) *ContactService {
	if n == nil {
		n = notifier.Noop{}
	}
	return &ContactService{
		repo:      repo,
		notifier:  n,
		metrics:   m,
		portfolio: portfolio,
		now:       time.Now,
	}
}

// Submit stores a new contact message and returns it with the generated id,
// creation time and initial status filled in
func (s *ContactService) Submit(ctx context.Context, name, email, message string) (*model.ContactMessage, error) {
	// Millisecond precision is what the document store keeps.
	contact := &model.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		Status:    model.StatusNew,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		s.metrics.StoreErrors.WithLabelValues("create").Inc()
		return nil, fmt.Errorf("failed to save contact message: %w", err)
	}
	s.metrics.ContactsSubmitted.Inc()

	s.notifyAsync(ctx, *contact)

	return contact, nil
}

// notifyAsync sends the notification off the request path. The request
// context only contributes values; its cancellation does not stop the send.
func (s *ContactService) notifyAsync(ctx context.Context, contact model.ContactMessage) {
	s.notifies.Add(1)
	go func() {
		defer s.notifies.Done()

		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()

		if err := s.notifier.NotifyNewContact(notifyCtx, contact); err != nil {
			s.metrics.NotificationFailures.Inc()
			logrus.WithError(err).WithField("contact_id", contact.ID).Warn("Failed to send new contact notification")
		}
	}()
}

// Wait blocks until every pending notification has finished
func (s *ContactService) Wait() {
	s.notifies.Wait()
}

// List returns every contact message, newest first
func (s *ContactService) List(ctx context.Context) ([]model.ContactMessage, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("failed to fetch contact messages: %w", err)
	}
	return contacts, nil
}

// Get returns a single contact message by id
func (s *ContactService) Get(ctx context.Context, id string) (*model.ContactMessage, error) {
	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrContactNotFound) {
			s.metrics.StoreErrors.WithLabelValues("get").Inc()
		}
		return nil, fmt.Errorf("failed to fetch contact message %s: %w", id, err)
	}
	return contact, nil
}

// UpdateStatus sets the status of a contact message. Any status value is accepted.
func (s *ContactService) UpdateStatus(ctx context.Context, id, status string) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if !errors.Is(err, repository.ErrContactNotFound) {
			s.metrics.StoreErrors.WithLabelValues("update_status").Inc()
		}
		return fmt.Errorf("failed to update contact status %s: %w", id, err)
	}
	s.metrics.StatusUpdates.Inc()
	return nil
}

// Stats counts the stored contacts and adds the fixed portfolio figures
func (s *ContactService) Stats(ctx context.Context) (*model.Stats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("count").Inc()
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}

	fresh, err := s.repo.CountByStatus(ctx, model.StatusNew)
	if err != nil {
		s.metrics.StoreErrors.WithLabelValues("count").Inc()
		return nil, fmt.Errorf("failed to count new contacts: %w", err)
	}

	return &model.Stats{
		TotalContacts:     total,
		NewContacts:       fresh,
		ProjectsCompleted: s.portfolio.ProjectsCompleted,
		YearsExperience:   s.portfolio.YearsExperience,
		HappyClients:      s.portfolio.HappyClients,
	}, nil
}

// Ping checks that the underlying store is reachable
func (s *ContactService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
