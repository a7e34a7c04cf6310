package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"servimarket/internal/domain"
	"servimarket/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository_StatsPathsAgree(t *testing.T) {
	repo := NewReviewRepository(testutil.NewDB(t))
	ctx := context.Background()
	base := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	for i, stars := range []int{5, 4, 3} {
		require.NoError(t, repo.Create(ctx, &domain.Review{
			ID:           fmt.Sprintf("r%d", i),
			OfertaID:     fmt.Sprintf("o%d", i),
			ClienteID:    10,
			TrabajadorID: 20,
			Estrellas:    stars,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, repo.Create(ctx, &domain.Review{
		ID: "other", OfertaID: "o-other", ClienteID: 10, TrabajadorID: 21, Estrellas: 1, CreatedAt: base,
	}))

	sum, n, err := repo.AggregateStars(ctx, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(12), sum)
	assert.Equal(t, int64(3), n)

	stars, err := repo.ScanStars(ctx, 20)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{5, 4, 3}, stars)

	var scanned int64
	for _, s := range stars {
		scanned += int64(s)
	}
	assert.Equal(t, domain.NewWorkerStats(sum, n), domain.NewWorkerStats(scanned, int64(len(stars))))

	recent, err := repo.ListRecent(ctx, 20, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].Estrellas)
	assert.Equal(t, 4, recent[1].Estrellas)
	assert.True(t, recent[0].CreatedAt.After(recent[1].CreatedAt))
}

func TestReviewRepository_NoReviews(t *testing.T) {
	repo := NewReviewRepository(testutil.NewDB(t))
	ctx := context.Background()

	sum, n, err := repo.AggregateStars(ctx, 99)
	require.NoError(t, err)
	assert.Zero(t, sum)
	assert.Zero(t, n)

	recent, err := repo.ListRecent(ctx, 99, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
