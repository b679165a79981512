package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"portfolio-api/internal/model"
)

// MemoryRepository keeps contact messages in process memory. Used for local
// development and tests; nothing survives a restart.
type MemoryRepository struct {
	mu       sync.RWMutex
	contacts map[string]*model.ContactMessage
	order    []string // insertion order of ids
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		contacts: make(map[string]*model.ContactMessage),
	}
}

var _ ContactRepository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Create(_ context.Context, contact *model.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contacts[contact.ID]; exists {
		return fmt.Errorf("duplicate contact id %q", contact.ID)
	}

	stored := *contact
	r.contacts[contact.ID] = &stored
	r.order = append(r.order, contact.ID)
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]model.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Walk newest insert first so equal timestamps keep a stable newest-first order.
	contacts := make([]model.ContactMessage, 0, len(r.order))
	for i := len(r.order) - 1; i >= 0; i-- {
		contacts = append(contacts, *r.contacts[r.order[i]])
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		return contacts[i].CreatedAt.After(contacts[j].CreatedAt)
	})
	return contacts, nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (*model.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contact, ok := r.contacts[id]
	if !ok {
		return nil, ErrContactNotFound
	}

	c := *contact
	return &c, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	contact, ok := r.contacts[id]
	if !ok {
		return ErrContactNotFound
	}
	contact.Status = status
	return nil
}

func (r *MemoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.contacts)), nil
}

func (r *MemoryRepository) CountByStatus(_ context.Context, status string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, contact := range r.contacts {
		if contact.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}

func (r *MemoryRepository) Close(_ context.Context) error {
	return nil
}
