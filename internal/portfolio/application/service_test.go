package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/optionrisk/internal/portfolio/domain"
)

type stubRepo struct {
	rows  []domain.AssetPortfolioSummary
	err   error
	calls int
}

func (r *stubRepo) TopAssetsByPresentValue(_ context.Context, _ int) ([]domain.AssetPortfolioSummary, error) {
	r.calls++
	return append([]domain.AssetPortfolioSummary(nil), r.rows...), r.err
}

func TestTopAssets_RejectsNonPositiveN(t *testing.T) {
	repo := &stubRepo{}
	svc := NewPortfolioQueryService(repo)

	for _, n := range []int{0, -3} {
		_, err := svc.TopAssets(context.Background(), n)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Zero(t, repo.calls)
}

func TestTopAssets_StableOrder(t *testing.T) {
	repo := &stubRepo{rows: []domain.AssetPortfolioSummary{
		{AssetID: 3, AssetName: "C", TotalPresentValue: 900},
		{AssetID: 2, AssetName: "B", TotalPresentValue: 1500},
		{AssetID: 1, AssetName: "A", TotalPresentValue: 1500},
	}}
	got, err := NewPortfolioQueryService(repo).TopAssets(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint(1), got[0].AssetID)
	assert.Equal(t, uint(2), got[1].AssetID)
}

func TestTopAssets_PropagatesStorageError(t *testing.T) {
	repo := &stubRepo{err: errors.Join(domain.ErrStorageUnavailable, errors.New("disk"))}
	_, err := NewPortfolioQueryService(repo).TopAssets(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}
