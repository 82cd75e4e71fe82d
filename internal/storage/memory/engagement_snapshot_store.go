package memory

import (
	"context"
	"sort"
	"sync"

	"vortex-oracle/internal/domain"
	"vortex-oracle/internal/storage"
)

// EngagementSnapshotStore is an in-memory implementation of
// storage.EngagementSnapshotStore.
type EngagementSnapshotStore struct {
	mu   sync.RWMutex
	data map[snapshotKey]*domain.EngagementSnapshot
}

type snapshotKey struct {
	tweetID    uint64
	observedAt int64
}

// NewEngagementSnapshotStore creates a new in-memory snapshot store.
func NewEngagementSnapshotStore() *EngagementSnapshotStore {
	return &EngagementSnapshotStore{
		data: make(map[snapshotKey]*domain.EngagementSnapshot),
	}
}

// Compile-time interface check.
var _ storage.EngagementSnapshotStore = (*EngagementSnapshotStore)(nil)

// InsertBulk adds snapshots. Fails the entire batch on duplicate
// (tweet_id, observed_at), including intra-batch duplicates.
func (s *EngagementSnapshotStore) InsertBulk(_ context.Context, snaps []*domain.EngagementSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[snapshotKey]struct{}, len(snaps))
	for _, snap := range snaps {
		if snap == nil || snap.TweetID == 0 {
			return storage.ErrInvalidInput
		}
		key := snapshotKey{snap.TweetID, snap.ObservedAt}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, snap := range snaps {
		copy := *snap
		s.data[snapshotKey{snap.TweetID, snap.ObservedAt}] = &copy
	}
	return nil
}

// GetByTweetID retrieves all snapshots for a tweet, ordered by
// observed_at ASC.
func (s *EngagementSnapshotStore) GetByTweetID(_ context.Context, tweetID uint64) ([]*domain.EngagementSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.EngagementSnapshot
	for _, snap := range s.data {
		if snap.TweetID == tweetID {
			copy := *snap
			out = append(out, &copy)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ObservedAt < out[j].ObservedAt
	})
	return out, nil
}
