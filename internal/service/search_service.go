package service

import (
	"context"
	"strings"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/cache"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/client"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

const (
	popularSecurityType = "Common Stock"
	defaultSecurityType = "Stock"
)

// SearchService looks up stocks by query or lists popular ones
type SearchService struct {
	finnhub    *client.FinnhubClient
	cfg        config.SearchConfig
	revalidate config.RevalidateConfig
	logger     *zap.Logger
}

// NewSearchService creates a new search service
func NewSearchService(finnhub *client.FinnhubClient, cfg config.SearchConfig, revalidate config.RevalidateConfig, logger *zap.Logger) *SearchService {
	return &SearchService{
		finnhub:    finnhub,
		cfg:        cfg,
		revalidate: revalidate,
		logger:     logger,
	}
}

// SearchStocks returns popular stocks for an empty query, otherwise the
// upstream search results. It never fails: errors are logged and yield an
// empty list. Results are memoized per query on the request memo in ctx.
func (s *SearchService) SearchStocks(ctx context.Context, query string) []model.StockSearchResult {
	trimmed := strings.TrimSpace(query)
	memoKey := "search:" + trimmed

	memo := cache.MemoFrom(ctx)
	if memo != nil {
		if v, ok := memo.Get(memoKey); ok {
			return copyResults(v.([]model.StockSearchResult))
		}
	}

	results := s.search(ctx, trimmed)

	if memo != nil {
		memo.Put(memoKey, copyResults(results))
	}
	return results
}

func (s *SearchService) search(ctx context.Context, query string) []model.StockSearchResult {
	if !s.finnhub.HasCredentials() {
		s.logger.Error("error in stock search", zap.Error(ErrMissingAPIKey))
		return []model.StockSearchResult{}
	}

	var results []model.StockSearchResult
	if query == "" {
		results = s.popular(ctx)
	} else {
		results = s.lookup(ctx, query)
	}

	if len(results) > s.cfg.MaxResults {
		results = results[:s.cfg.MaxResults]
	}
	return results
}

// popular resolves profiles for the head of the popular symbol list,
// dropping entries without a name
func (s *SearchService) popular(ctx context.Context) []model.StockSearchResult {
	symbols := s.cfg.PopularSymbols
	if len(symbols) > s.cfg.PopularLimit {
		symbols = symbols[:s.cfg.PopularLimit]
	}

	profiles := iter.Map(symbols, func(sym *string) *model.FinnhubProfile {
		profile, err := s.finnhub.Profile(ctx, *sym, s.revalidate.PopularProfile)
		if err != nil {
			s.logger.Warn("failed to fetch popular profile", zap.String("symbol", *sym), zap.Error(err))
			return nil
		}
		return profile
	})

	results := make([]model.StockSearchResult, 0, len(symbols))
	for i, profile := range profiles {
		if profile == nil {
			continue
		}
		name := firstNonEmpty(profile.Name, profile.Ticker)
		if name == "" {
			continue
		}
		results = append(results, model.StockSearchResult{
			Symbol:   model.NormalizeSymbol(symbols[i]),
			Name:     name,
			Exchange: firstNonEmpty(profile.Exchange, s.cfg.DefaultExchange),
			Type:     popularSecurityType,
		})
	}
	return results
}

func (s *SearchService) lookup(ctx context.Context, query string) []model.StockSearchResult {
	resp, err := s.finnhub.Search(ctx, query, s.revalidate.Search)
	if err != nil {
		s.logger.Error("error in stock search", zap.String("query", query), zap.Error(err))
		return []model.StockSearchResult{}
	}

	results := make([]model.StockSearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		symbol := model.NormalizeSymbol(r.Symbol)
		if symbol == "" {
			continue
		}
		results = append(results, model.StockSearchResult{
			Symbol:   symbol,
			Name:     firstNonEmpty(r.Description, symbol),
			Exchange: s.cfg.DefaultExchange,
			Type:     firstNonEmpty(r.Type, defaultSecurityType),
		})
	}
	return results
}

// MarkWatchlisted sets IsInWatchlist on results whose symbol is in symbols
func MarkWatchlisted(results []model.StockSearchResult, symbols []string) []model.StockSearchResult {
	if len(symbols) == 0 {
		return results
	}
	set := make(map[string]struct{}, len(symbols))
	for _, sym := range symbols {
		set[model.NormalizeSymbol(sym)] = struct{}{}
	}
	for i := range results {
		_, results[i].IsInWatchlist = set[results[i].Symbol]
	}
	return results
}

func copyResults(in []model.StockSearchResult) []model.StockSearchResult {
	out := make([]model.StockSearchResult, len(in))
	copy(out, in)
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
