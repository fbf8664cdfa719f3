package services

import (
	"context"
	"fmt"
	"strings"

	"finmodel/internal/api"
)

// MarketData is the client surface for stock universe lookups.
type MarketData interface {
	ListStocks(ctx context.Context, sector string) ([]api.Stock, error)
	SearchStocks(ctx context.Context, query string) ([]api.Stock, error)
	ListSectors(ctx context.Context) ([]string, error)
	Compare(ctx context.Context, req api.CompareRequest) (*api.CompareResult, error)
}

// MarketService handles stock universe browsing and peer comparison.
type MarketService struct {
	backend MarketData
}

// NewMarketService creates a MarketService.
func NewMarketService(backend MarketData) *MarketService {
	return &MarketService{backend: backend}
}

// Stocks returns the universe, optionally filtered by sector.
func (s *MarketService) Stocks(ctx context.Context, sector string) ([]api.Stock, error) {
	stocks, err := s.backend.ListStocks(ctx, sector)
	if err != nil {
		return nil, fmt.Errorf("failed to list stocks: %w", err)
	}
	return stocks, nil
}

// Search finds stocks matching a symbol or name fragment.
func (s *MarketService) Search(ctx context.Context, query string) ([]api.Stock, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	results, err := s.backend.SearchStocks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("stock search failed: %w", err)
	}
	return results, nil
}

// Sectors returns the available sectors.
func (s *MarketService) Sectors(ctx context.Context) ([]string, error) {
	sectors, err := s.backend.ListSectors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sectors: %w", err)
	}
	return sectors, nil
}

// Compare requests a side-by-side metric comparison for two or more symbols.
func (s *MarketService) Compare(ctx context.Context, symbols []string, exchange string) (*api.CompareResult, error) {
	cleaned := make([]string, 0, len(symbols))
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym != "" {
			cleaned = append(cleaned, sym)
		}
	}
	if len(cleaned) < 2 {
		return nil, fmt.Errorf("comparison needs at least two symbols")
	}
	result, err := s.backend.Compare(ctx, api.CompareRequest{Symbols: cleaned, Exchange: exchange})
	if err != nil {
		return nil, fmt.Errorf("comparison failed: %w", err)
	}
	return result, nil
}
