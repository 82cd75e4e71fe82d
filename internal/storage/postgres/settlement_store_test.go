package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vortex-oracle/internal/domain"
	"vortex-oracle/internal/storage"
)

func createTestSettlement(invocationID string, tweetID uint64, status domain.SettlementStatus, createdAt int64) *domain.SettlementRecord {
	return &domain.SettlementRecord{
		InvocationID:    invocationID,
		TweetID:         tweetID,
		TwitterUsername: "elonmusk",
		User:            "MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr",
		ProgramID:       "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		Status:          status,
		Reason:          "",
		Points:          16,
		CreatedAt:       createdAt,
	}
}

func TestSettlementStore_InsertAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSettlementStore(pool)

	rec := createTestSettlement("inv-001", 1734080437859787085, domain.StatusSettled, 1700000000000)

	err := store.Insert(ctx, rec)
	require.NoError(t, err)

	retrieved, err := store.GetByID(ctx, "inv-001")
	require.NoError(t, err)

	assert.Equal(t, rec.InvocationID, retrieved.InvocationID)
	assert.Equal(t, rec.TweetID, retrieved.TweetID)
	assert.Equal(t, rec.TwitterUsername, retrieved.TwitterUsername)
	assert.Equal(t, rec.User, retrieved.User)
	assert.Equal(t, rec.ProgramID, retrieved.ProgramID)
	assert.Equal(t, rec.Status, retrieved.Status)
	assert.Equal(t, rec.Reason, retrieved.Reason)
	assert.Equal(t, rec.Points, retrieved.Points)
	assert.Equal(t, rec.CreatedAt, retrieved.CreatedAt)
}

func TestSettlementStore_InsertDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSettlementStore(pool)

	rec := createTestSettlement("inv-001", 1, domain.StatusSettled, 100)
	require.NoError(t, store.Insert(ctx, rec))

	err := store.Insert(ctx, createTestSettlement("inv-001", 2, domain.StatusFailed, 200))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSettlementStore_InsertInvalid(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSettlementStore(pool)

	err := store.Insert(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	bad := createTestSettlement("inv-001", 1, domain.SettlementStatus("BOGUS"), 100)
	err = store.Insert(ctx, bad)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}

func TestSettlementStore_GetByID_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSettlementStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSettlementStore_GetByTweetID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSettlementStore(pool)

	require.NoError(t, store.Insert(ctx, createTestSettlement("inv-b", 7, domain.StatusRejected, 300)))
	require.NoError(t, store.Insert(ctx, createTestSettlement("inv-a", 7, domain.StatusSettled, 100)))
	require.NoError(t, store.Insert(ctx, createTestSettlement("inv-c", 8, domain.StatusSettled, 200)))

	records, err := store.GetByTweetID(ctx, 7)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Ordered by created_at ASC.
	assert.Equal(t, "inv-a", records[0].InvocationID)
	assert.Equal(t, "inv-b", records[1].InvocationID)
}

func TestSettlementStore_GetByStatus(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := NewSettlementStore(pool)

	require.NoError(t, store.Insert(ctx, createTestSettlement("inv-a", 1, domain.StatusSettled, 100)))

	rejected := createTestSettlement("inv-b", 2, domain.StatusRejected, 200)
	rejected.Reason = "TOO_RECENT"
	rejected.Points = 0
	require.NoError(t, store.Insert(ctx, rejected))

	records, err := store.GetByStatus(ctx, domain.StatusRejected)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "inv-b", records[0].InvocationID)
	assert.Equal(t, "TOO_RECENT", records[0].Reason)
	assert.Equal(t, uint64(0), records[0].Points)
}
