package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finmodel/internal/api"
	"finmodel/internal/services"
)

// fakeMarket records the last compare request passed through.
type fakeMarket struct {
	lastCompare api.CompareRequest
}

func (f *fakeMarket) ListStocks(ctx context.Context, sector string) ([]api.Stock, error) {
	return []api.Stock{{Symbol: "TCS", Name: "TCS", Sector: "technology"}}, nil
}

func (f *fakeMarket) SearchStocks(ctx context.Context, query string) ([]api.Stock, error) {
	return nil, nil
}

func (f *fakeMarket) ListSectors(ctx context.Context) ([]string, error) {
	return []string{"banking", "technology"}, nil
}

func (f *fakeMarket) Compare(ctx context.Context, req api.CompareRequest) (*api.CompareResult, error) {
	f.lastCompare = req
	return &api.CompareResult{}, nil
}

func TestSearchRejectsEmptyQuery(t *testing.T) {
	svc := services.NewMarketService(&fakeMarket{})

	_, err := svc.Search(context.Background(), "   ")
	assert.Error(t, err)
}

func TestCompareNormalizesSymbols(t *testing.T) {
	backend := &fakeMarket{}
	svc := services.NewMarketService(backend)

	_, err := svc.Compare(context.Background(), []string{" tcs ", "infy", ""}, "NSE")
	require.NoError(t, err)
	assert.Equal(t, []string{"TCS", "INFY"}, backend.lastCompare.Symbols)
	assert.Equal(t, "NSE", backend.lastCompare.Exchange)
}

func TestCompareRequiresTwoSymbols(t *testing.T) {
	svc := services.NewMarketService(&fakeMarket{})

	_, err := svc.Compare(context.Background(), []string{"TCS", "  "}, "NSE")
	assert.Error(t, err)
}
