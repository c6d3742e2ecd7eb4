package repository

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resursbank-gateway/internal/domains/order/model"
)

// newTestPool connects to TEST_DATABASE_URL and loads a fresh schema.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	down, err := os.ReadFile("../../../../migrations/000001_init_schema.down.sql")
	require.NoError(t, err)
	up, err := os.ReadFile("../../../../migrations/000001_init_schema.up.sql")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(down))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(up))
	require.NoError(t, err)
	return pool
}

func insertOrder(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(), `INSERT INTO orders (status) VALUES ('pending') RETURNING id`).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestPostgresRepository_Meta(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	first := insertOrder(t, pool)
	second := insertOrder(t, pool)

	require.NoError(t, repo.SetMeta(ctx, first, map[string]string{
		model.MetaResursReference: "pay-1",
		model.MetaAPIFlavour:      "mapi",
	}))

	meta, err := repo.GetMeta(ctx, first, []string{model.MetaResursReference, model.MetaPaymentID})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{model.MetaResursReference: "pay-1"}, meta)

	id, err := repo.FindOrderIDByMeta(ctx, model.MetaResursReference, "pay-1")
	require.NoError(t, err)
	assert.Equal(t, first, id)

	err = repo.SetMeta(ctx, second, map[string]string{model.MetaResursReference: "pay-1"})
	assert.ErrorIs(t, err, model.ErrReferenceInUse)

	// legacy keys may repeat; the newest order wins
	require.NoError(t, repo.SetMeta(ctx, first, map[string]string{model.MetaPaymentIDLast: "old-1"}))
	require.NoError(t, repo.SetMeta(ctx, second, map[string]string{model.MetaPaymentIDLast: "old-1"}))
	id, err = repo.FindOrderIDByMeta(ctx, model.MetaPaymentIDLast, "old-1")
	require.NoError(t, err)
	assert.Equal(t, second, id)
}

func TestPostgresRepository_UpdateStatus(t *testing.T) {
	pool := newTestPool(t)
	repo := NewPostgresRepository(pool)
	ctx := context.Background()

	id := insertOrder(t, pool)
	require.NoError(t, repo.UpdateStatus(ctx, id, model.StatusCompleted, []string{"captured"}))

	order, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, order.Status)

	notes, err := repo.ListNotes(ctx, id)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "captured", notes[0].Content)

	_, err = repo.GetByID(ctx, id+1000)
	assert.ErrorIs(t, err, model.ErrOrderNotFound)
}
