// Package memory provides in-memory storage implementations for tests
// and the --use-memory mode.
package memory

import (
	"context"
	"sort"
	"sync"

	"vortex-oracle/internal/domain"
	"vortex-oracle/internal/storage"
)

// SettlementStore is an in-memory implementation of
// storage.SettlementStore.
type SettlementStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SettlementRecord // keyed by invocation_id
}

// NewSettlementStore creates a new in-memory settlement store.
func NewSettlementStore() *SettlementStore {
	return &SettlementStore{
		data: make(map[string]*domain.SettlementRecord),
	}
}

// Compile-time interface check.
var _ storage.SettlementStore = (*SettlementStore)(nil)

// Insert adds a journal row. Returns ErrDuplicateKey if invocation_id
// exists.
func (s *SettlementStore) Insert(_ context.Context, rec *domain.SettlementRecord) error {
	if rec == nil || rec.InvocationID == "" || !rec.Status.IsValid() {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[rec.InvocationID]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *rec
	s.data[rec.InvocationID] = &copy
	return nil
}

// GetByID retrieves a row by invocation_id.
func (s *SettlementStore) GetByID(_ context.Context, invocationID string) (*domain.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.data[invocationID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *rec
	return &copy, nil
}

// GetByTweetID retrieves all rows for a tweet, ordered by created_at ASC.
func (s *SettlementStore) GetByTweetID(_ context.Context, tweetID uint64) ([]*domain.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.SettlementRecord
	for _, rec := range s.data {
		if rec.TweetID == tweetID {
			copy := *rec
			out = append(out, &copy)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}

// GetByStatus retrieves all rows with a given status, ordered by
// created_at ASC.
func (s *SettlementStore) GetByStatus(_ context.Context, status domain.SettlementStatus) ([]*domain.SettlementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.SettlementRecord
	for _, rec := range s.data {
		if rec.Status == status {
			copy := *rec
			out = append(out, &copy)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt < out[j].CreatedAt
	})
	return out, nil
}
