// Package storage defines the host-side persistence interfaces: a
// settlement journal and an engagement snapshot sink. The validation
// and scoring pipeline itself is stateless; these stores exist for
// audit and analytics around it.
package storage

import (
	"context"

	"vortex-oracle/internal/domain"
)

// SettlementStore provides access to the settlements journal.
type SettlementStore interface {
	// Insert adds a journal row. Returns ErrDuplicateKey if
	// invocation_id exists.
	Insert(ctx context.Context, rec *domain.SettlementRecord) error

	// GetByID retrieves a row by invocation_id. Returns ErrNotFound if
	// not exists.
	GetByID(ctx context.Context, invocationID string) (*domain.SettlementRecord, error)

	// GetByTweetID retrieves all rows for a tweet, ordered by
	// created_at ASC.
	GetByTweetID(ctx context.Context, tweetID uint64) ([]*domain.SettlementRecord, error)

	// GetByStatus retrieves all rows with a given status, ordered by
	// created_at ASC.
	GetByStatus(ctx context.Context, status domain.SettlementStatus) ([]*domain.SettlementRecord, error)
}

// EngagementSnapshotStore provides access to engagement_snapshots
// timeseries storage.
type EngagementSnapshotStore interface {
	// InsertBulk adds snapshots. Fails the entire batch on duplicate
	// (tweet_id, observed_at).
	InsertBulk(ctx context.Context, snaps []*domain.EngagementSnapshot) error

	// GetByTweetID retrieves all snapshots for a tweet, ordered by
	// observed_at ASC.
	GetByTweetID(ctx context.Context, tweetID uint64) ([]*domain.EngagementSnapshot, error)
}
