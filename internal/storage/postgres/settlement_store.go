package postgres

import (
	"context"
	"fmt"

	"vortex-oracle/internal/domain"
	"vortex-oracle/internal/storage"
)

// SettlementStore implements storage.SettlementStore using PostgreSQL.
type SettlementStore struct {
	pool *Pool
}

// NewSettlementStore creates a new SettlementStore.
func NewSettlementStore(pool *Pool) *SettlementStore {
	return &SettlementStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SettlementStore = (*SettlementStore)(nil)

// Insert adds a journal row. Returns ErrDuplicateKey if invocation_id
// exists. Tweet IDs and points are stored as BIGINT: both fit in the
// signed range (snowflake IDs are 63-bit, points are bounded by real
// engagement counts).
func (s *SettlementStore) Insert(ctx context.Context, rec *domain.SettlementRecord) error {
	if rec == nil || rec.InvocationID == "" || !rec.Status.IsValid() {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO settlements (
			invocation_id, tweet_id, twitter_username, user_address,
			program_id, status, reason, points, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9
		)
	`

	_, err := s.pool.Exec(ctx, query,
		rec.InvocationID, int64(rec.TweetID), rec.TwitterUsername, rec.User,
		rec.ProgramID, string(rec.Status), rec.Reason, int64(rec.Points), rec.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert settlement: %w", err)
	}
	return nil
}

// GetByID retrieves a row by invocation_id. Returns ErrNotFound if not
// exists.
func (s *SettlementStore) GetByID(ctx context.Context, invocationID string) (*domain.SettlementRecord, error) {
	query := `
		SELECT invocation_id, tweet_id, twitter_username, user_address,
		       program_id, status, reason, points, created_at
		FROM settlements
		WHERE invocation_id = $1
	`

	rec, err := scanSettlement(s.pool.QueryRow(ctx, query, invocationID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get settlement by id: %w", err)
	}
	return rec, nil
}

// GetByTweetID retrieves all rows for a tweet, ordered by created_at ASC.
func (s *SettlementStore) GetByTweetID(ctx context.Context, tweetID uint64) ([]*domain.SettlementRecord, error) {
	query := `
		SELECT invocation_id, tweet_id, twitter_username, user_address,
		       program_id, status, reason, points, created_at
		FROM settlements
		WHERE tweet_id = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, int64(tweetID))
	if err != nil {
		return nil, fmt.Errorf("query settlements by tweet: %w", err)
	}
	defer rows.Close()

	var out []*domain.SettlementRecord
	for rows.Next() {
		rec, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetByStatus retrieves all rows with a given status, ordered by
// created_at ASC.
func (s *SettlementStore) GetByStatus(ctx context.Context, status domain.SettlementStatus) ([]*domain.SettlementRecord, error) {
	query := `
		SELECT invocation_id, tweet_id, twitter_username, user_address,
		       program_id, status, reason, points, created_at
		FROM settlements
		WHERE status = $1
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("query settlements by status: %w", err)
	}
	defer rows.Close()

	var out []*domain.SettlementRecord
	for rows.Next() {
		rec, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan settlement: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// rowScanner is satisfied by both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSettlement(row rowScanner) (*domain.SettlementRecord, error) {
	var (
		rec     domain.SettlementRecord
		tweetID int64
		points  int64
		status  string
	)

	err := row.Scan(
		&rec.InvocationID, &tweetID, &rec.TwitterUsername, &rec.User,
		&rec.ProgramID, &status, &rec.Reason, &points, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.TweetID = uint64(tweetID)
	rec.Points = uint64(points)
	rec.Status = domain.SettlementStatus(status)
	return &rec, nil
}
