// Package memory provides in-memory implementations of the storage
// ports, used in tests and for ephemeral runs where persistence across
// restarts is not needed.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/core/ports/driven"
)

// Ensure TransferStore implements the interface.
var _ driven.TransferStore = (*TransferStore)(nil)

// TransferStore is an in-memory implementation of driven.TransferStore.
type TransferStore struct {
	mu        sync.RWMutex
	transfers map[string]domain.Transfer
	files     map[string][]domain.FileUnit
}

// NewTransferStore creates a new in-memory transfer store.
func NewTransferStore() *TransferStore {
	return &TransferStore{
		transfers: make(map[string]domain.Transfer),
		files:     make(map[string][]domain.FileUnit),
	}
}

// SaveTransfer stores or updates a transfer record.
func (s *TransferStore) SaveTransfer(_ context.Context, t *domain.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transfers[t.ID] = *t
	return nil
}

// GetTransfer retrieves a transfer by ID.
func (s *TransferStore) GetTransfer(_ context.Context, id string) (*domain.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transfers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

// ListTransfers returns all transfers, newest first.
func (s *TransferStore) ListTransfers(_ context.Context) ([]domain.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Transfer, 0, len(s.transfers))
	for _, t := range s.transfers {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// SaveFiles replaces a transfer's file units.
func (s *TransferStore) SaveFiles(_ context.Context, transferID string, files []domain.FileUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[transferID] = append([]domain.FileUnit(nil), files...)
	return nil
}

// SaveFile upserts a single file unit, keyed by its discovery index.
func (s *TransferStore) SaveFile(_ context.Context, transferID string, f *domain.FileUnit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	units := s.files[transferID]
	for i := range units {
		if units[i].Index == f.Index {
			units[i] = *f
			return nil
		}
	}
	s.files[transferID] = append(units, *f)
	return nil
}

// ListFiles returns a transfer's file units in discovery order.
func (s *TransferStore) ListFiles(_ context.Context, transferID string) ([]domain.FileUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	units := append([]domain.FileUnit(nil), s.files[transferID]...)
	sort.Slice(units, func(i, j int) bool { return units[i].Index < units[j].Index })
	return units, nil
}
