package memory

import (
	"context"
	"errors"
	"testing"

	"vortex-oracle/internal/domain"
	"vortex-oracle/internal/storage"
)

func snap(tweetID uint64, observedAt int64, points uint64) *domain.EngagementSnapshot {
	return &domain.EngagementSnapshot{
		TweetID:      tweetID,
		AuthorID:     "998877",
		ObservedAt:   observedAt,
		LikeCount:    10,
		ReplyCount:   2,
		QuoteCount:   1,
		RetweetCount: 3,
		Points:       points,
	}
}

func TestEngagementSnapshotStore_InsertBulkAndGet(t *testing.T) {
	store := NewEngagementSnapshotStore()
	ctx := context.Background()

	err := store.InsertBulk(ctx, []*domain.EngagementSnapshot{
		snap(1, 200, 16),
		snap(1, 100, 12),
		snap(2, 150, 5),
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByTweetID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByTweetID failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("snapshot count = %d, want 2", len(got))
	}
	if got[0].ObservedAt != 100 || got[1].ObservedAt != 200 {
		t.Error("snapshots not ordered by observed_at")
	}
}

func TestEngagementSnapshotStore_EmptyBatch(t *testing.T) {
	store := NewEngagementSnapshotStore()

	if err := store.InsertBulk(context.Background(), nil); err != nil {
		t.Errorf("empty batch should be a no-op, got %v", err)
	}
}

func TestEngagementSnapshotStore_DuplicateFailsBatch(t *testing.T) {
	store := NewEngagementSnapshotStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.EngagementSnapshot{snap(1, 100, 1)}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.EngagementSnapshot{
		snap(1, 200, 2),
		snap(1, 100, 3), // duplicate
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Fatalf("InsertBulk error = %v, want ErrDuplicateKey", err)
	}

	// Batch must fail atomically: the non-duplicate row is not stored.
	got, _ := store.GetByTweetID(ctx, 1)
	if len(got) != 1 {
		t.Errorf("snapshot count after failed batch = %d, want 1", len(got))
	}
}

func TestEngagementSnapshotStore_IntraBatchDuplicate(t *testing.T) {
	store := NewEngagementSnapshotStore()

	err := store.InsertBulk(context.Background(), []*domain.EngagementSnapshot{
		snap(1, 100, 1),
		snap(1, 100, 2),
	})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("InsertBulk error = %v, want ErrDuplicateKey", err)
	}
}

func TestEngagementSnapshotStore_InvalidInput(t *testing.T) {
	store := NewEngagementSnapshotStore()

	err := store.InsertBulk(context.Background(), []*domain.EngagementSnapshot{
		{TweetID: 0, ObservedAt: 100},
	})
	if !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("InsertBulk error = %v, want ErrInvalidInput", err)
	}
}
