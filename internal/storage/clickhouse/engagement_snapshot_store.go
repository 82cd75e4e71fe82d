package clickhouse

import (
	"context"
	"fmt"

	"vortex-oracle/internal/domain"
	"vortex-oracle/internal/storage"
)

// EngagementSnapshotStore implements storage.EngagementSnapshotStore
// using ClickHouse.
type EngagementSnapshotStore struct {
	conn *Conn
}

// NewEngagementSnapshotStore creates a new EngagementSnapshotStore.
func NewEngagementSnapshotStore(conn *Conn) *EngagementSnapshotStore {
	return &EngagementSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.EngagementSnapshotStore = (*EngagementSnapshotStore)(nil)

// InsertBulk adds snapshots. Fails the entire batch on duplicate
// (tweet_id, observed_at).
func (s *EngagementSnapshotStore) InsertBulk(ctx context.Context, snaps []*domain.EngagementSnapshot) error {
	if len(snaps) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		tweetID    uint64
		observedAt int64
	}
	seen := make(map[key]struct{})
	for _, snap := range snaps {
		if snap == nil || snap.TweetID == 0 {
			return storage.ErrInvalidInput
		}
		k := key{snap.TweetID, snap.ObservedAt}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, snap := range snaps {
		exists, err := s.exists(ctx, snap.TweetID, snap.ObservedAt)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO engagement_snapshots (
			tweet_id, author_id, observed_at,
			like_count, reply_count, quote_count, retweet_count, points
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snaps {
		err = batch.Append(
			snap.TweetID, snap.AuthorID, uint64(snap.ObservedAt),
			snap.LikeCount, snap.ReplyCount, snap.QuoteCount, snap.RetweetCount,
			snap.Points,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTweetID retrieves all snapshots for a tweet, ordered by
// observed_at ASC.
func (s *EngagementSnapshotStore) GetByTweetID(ctx context.Context, tweetID uint64) ([]*domain.EngagementSnapshot, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT tweet_id, author_id, observed_at,
		       like_count, reply_count, quote_count, retweet_count, points
		FROM engagement_snapshots
		WHERE tweet_id = ?
		ORDER BY observed_at ASC
	`, tweetID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var out []*domain.EngagementSnapshot
	for rows.Next() {
		var (
			snap       domain.EngagementSnapshot
			observedAt uint64
		)
		err := rows.Scan(
			&snap.TweetID, &snap.AuthorID, &observedAt,
			&snap.LikeCount, &snap.ReplyCount, &snap.QuoteCount, &snap.RetweetCount,
			&snap.Points,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.ObservedAt = int64(observedAt)
		out = append(out, &snap)
	}
	return out, rows.Err()
}

func (s *EngagementSnapshotStore) exists(ctx context.Context, tweetID uint64, observedAt int64) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM engagement_snapshots
		WHERE tweet_id = ? AND observed_at = ?
	`, tweetID, uint64(observedAt)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
