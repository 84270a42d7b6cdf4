package repository_test

import (
	"context"
	"testing"

	"github.com/oggyb/matchfeed/internal/db"
	"github.com/oggyb/matchfeed/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedSynthetic(t *testing.T, dbase *gorm.DB, cityKey string, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, dbase.Create(&db.Profile{
			ID:                id,
			Kind:              db.KindSynthetic,
			DisplayName:       "bot",
			Age:               25,
			Gender:            db.GenderFemale,
			CityKey:           cityKey,
			PaymentPreference: db.PaySelf,
		}).Error)
	}
}

func TestCommitRotation(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewOrderRepository(dbase)

	seedSynthetic(t, dbase, "c1", -1, -2, -3)

	require.NoError(t, repo.CommitRotation(ctx, "c1", "2026-09-01", []int64{-3, -1}))

	entries, err := repo.Entries(ctx, "c1", "2026-09-01", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, int64(-3), entries[0].ProfileID)
	assert.Equal(t, 0, entries[0].Position)
	assert.Equal(t, int64(-1), entries[1].ProfileID)
	assert.Equal(t, 1, entries[1].Position)

	// chosen profiles are live, the rest cleared
	var active []int64
	require.NoError(t, dbase.Model(&db.Profile{}).
		Where("active_date = ?", "2026-09-01").
		Pluck("id", &active).Error)
	assert.ElementsMatch(t, []int64{-1, -3}, active)
}

func TestCommitRotationReplacesPriorOrder(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewOrderRepository(dbase)

	seedSynthetic(t, dbase, "c1", -1, -2, -3)

	require.NoError(t, repo.CommitRotation(ctx, "c1", "2026-09-01", []int64{-1, -2, -3}))
	require.NoError(t, repo.CommitRotation(ctx, "c1", "2026-09-01", []int64{-2}))

	// replaced, not appended
	entries, err := repo.Entries(ctx, "c1", "2026-09-01", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, int64(-2), entries[0].ProfileID)
	assert.Equal(t, 0, entries[0].Position)

	// live markers follow the latest commit only
	var active []int64
	require.NoError(t, dbase.Model(&db.Profile{}).
		Where("active_date = ?", "2026-09-01").
		Pluck("id", &active).Error)
	assert.Equal(t, []int64{-2}, active)
}

func TestCommitRotationPositionsContiguous(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewOrderRepository(dbase)

	ids := []int64{-5, -9, -1, -7, -3}
	seedSynthetic(t, dbase, "c1", ids...)
	require.NoError(t, repo.CommitRotation(ctx, "c1", "2026-09-01", ids))

	entries, err := repo.Entries(ctx, "c1", "2026-09-01", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, len(ids))

	seenPos := map[int]bool{}
	seenID := map[int64]bool{}
	for _, e := range entries {
		assert.False(t, seenPos[e.Position], "duplicate position %d", e.Position)
		assert.False(t, seenID[e.ProfileID], "duplicate profile %d", e.ProfileID)
		seenPos[e.Position] = true
		seenID[e.ProfileID] = true
		assert.GreaterOrEqual(t, e.Position, 0)
		assert.Less(t, e.Position, len(ids))
	}
}

func TestIsConfigured(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewOrderRepository(dbase)

	configured, err := repo.IsConfigured(ctx, "c1", "2026-09-01")
	require.NoError(t, err)
	assert.False(t, configured)

	seedSynthetic(t, dbase, "c1", -1)
	require.NoError(t, repo.CommitRotation(ctx, "c1", "2026-09-01", []int64{-1}))

	configured, err = repo.IsConfigured(ctx, "c1", "2026-09-01")
	require.NoError(t, err)
	assert.True(t, configured)
}

func TestEntriesFromPosition(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewOrderRepository(dbase)

	ids := []int64{-1, -2, -3, -4}
	seedSynthetic(t, dbase, "c1", ids...)
	require.NoError(t, repo.CommitRotation(ctx, "c1", "2026-09-01", ids))

	entries, err := repo.Entries(ctx, "c1", "2026-09-01", 2, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Position)
	assert.Equal(t, 3, entries[1].Position)

	entries, err = repo.Entries(ctx, "c1", "2026-09-01", 0, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
