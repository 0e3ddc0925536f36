package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/client"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

const (
	companyNewsSource = "Company News"
	marketNewsSource  = "Market News"
	companyCategory   = "company"
	generalCategory   = "general"
	dateLayout        = "2006-01-02"
)

// NewsService builds a short list of recent articles for a set of symbols
type NewsService struct {
	finnhub    *client.FinnhubClient
	cfg        config.NewsConfig
	revalidate config.RevalidateConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewNewsService creates a new news service
func NewNewsService(finnhub *client.FinnhubClient, cfg config.NewsConfig, revalidate config.RevalidateConfig, logger *zap.Logger) *NewsService {
	return &NewsService{
		finnhub:    finnhub,
		cfg:        cfg,
		revalidate: revalidate,
		logger:     logger,
		now:        time.Now,
	}
}

// HasCredentials reports whether news can be fetched at all
func (s *NewsService) HasCredentials() bool {
	return s.finnhub.HasCredentials()
}

type companyArticle struct {
	symbol  string
	article model.FinnhubNewsArticle
}

// GetNews returns up to MaxArticles articles. Company news for the given
// symbols is interleaved round-robin and sorted newest first; when that
// yields nothing, deduplicated general market news is returned instead.
func (s *NewsService) GetNews(ctx context.Context, symbols []string) ([]model.NewsArticle, error) {
	if !s.finnhub.HasCredentials() {
		return nil, ErrMissingAPIKey
	}

	if clean := uniqueSymbols(symbols); len(clean) > 0 {
		from, to := dateRange(s.now(), s.cfg.LookbackDays)

		queues := iter.Map(clean, func(sym *string) []companyArticle {
			return s.companyNews(ctx, *sym, from, to)
		})

		picked := RoundRobin(queues, s.cfg.MaxArticles)
		if len(picked) > 0 {
			articles := make([]model.NewsArticle, 0, len(picked))
			for _, p := range picked {
				articles = append(articles, s.formatArticle(p.article, p.symbol))
			}
			sort.SliceStable(articles, func(i, j int) bool {
				return articles[i].Datetime > articles[j].Datetime
			})
			if len(articles) > s.cfg.MaxArticles {
				articles = articles[:s.cfg.MaxArticles]
			}
			return articles, nil
		}
	}

	general, err := s.finnhub.GeneralNews(ctx, s.revalidate.News)
	if err != nil {
		s.logger.Error("failed to fetch general news", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNewsUnavailable, err)
	}

	unique := DedupArticles(s.validArticles(general), s.cfg.GeneralDedupCap)
	if len(unique) > s.cfg.MaxArticles {
		unique = unique[:s.cfg.MaxArticles]
	}

	articles := make([]model.NewsArticle, 0, len(unique))
	for _, a := range unique {
		articles = append(articles, s.formatArticle(a, ""))
	}
	return articles, nil
}

// companyNews fetches valid articles for one symbol; failures yield an empty list
func (s *NewsService) companyNews(ctx context.Context, symbol, from, to string) []companyArticle {
	raw, err := s.finnhub.CompanyNews(ctx, symbol, from, to, s.revalidate.News)
	if err != nil {
		s.logger.Warn("failed to fetch company news", zap.String("symbol", symbol), zap.Error(err))
		return nil
	}

	valid := s.validArticles(raw)
	out := make([]companyArticle, 0, len(valid))
	for _, a := range valid {
		out = append(out, companyArticle{symbol: symbol, article: a})
	}
	return out
}

// RoundRobin interleaves queues one item per queue per round, in queue
// order, skipping exhausted queues, until limit items are taken or all
// queues are empty. The input slices are not modified.
func RoundRobin[T any](queues [][]T, limit int) []T {
	out := make([]T, 0, limit)
	for round := 0; len(out) < limit; round++ {
		took := false
		for _, q := range queues {
			if round >= len(q) {
				continue
			}
			out = append(out, q[round])
			took = true
			if len(out) >= limit {
				return out
			}
		}
		if !took {
			break
		}
	}
	return out
}

// DedupArticles keeps the first occurrence per (id, url, headline) and stops
// once limit unique articles are collected
func DedupArticles(articles []model.FinnhubNewsArticle, limit int) []model.FinnhubNewsArticle {
	seen := make(map[string]struct{}, len(articles))
	unique := make([]model.FinnhubNewsArticle, 0, limit)
	for _, a := range articles {
		key := fmt.Sprintf("%d-%s-%s", a.ID, a.URL, a.Headline)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, a)
		if len(unique) >= limit {
			break
		}
	}
	return unique
}

func (s *NewsService) validArticles(articles []model.FinnhubNewsArticle) []model.FinnhubNewsArticle {
	out := make([]model.FinnhubNewsArticle, 0, len(articles))
	for _, a := range articles {
		if s.isValid(a) {
			out = append(out, a)
		}
	}
	return out
}

func (s *NewsService) isValid(a model.FinnhubNewsArticle) bool {
	if strings.TrimSpace(a.Headline) == "" || strings.TrimSpace(a.URL) == "" || a.Datetime <= 0 {
		return false
	}
	if s.cfg.RequireSummary && strings.TrimSpace(a.Summary) == "" {
		return false
	}
	return true
}

// formatArticle maps an upstream article; symbol is empty for general news
func (s *NewsService) formatArticle(a model.FinnhubNewsArticle, symbol string) model.NewsArticle {
	out := model.NewsArticle{
		ID:       a.ID,
		Headline: strings.TrimSpace(a.Headline),
		Summary:  truncate(strings.TrimSpace(a.Summary), s.cfg.SummaryLength),
		URL:      a.URL,
		Datetime: a.Datetime,
		Image:    a.Image,
	}

	if symbol != "" {
		out.Source = firstNonEmpty(a.Source, companyNewsSource)
		out.Category = companyCategory
		out.Related = symbol
	} else {
		out.Source = firstNonEmpty(a.Source, marketNewsSource)
		out.Category = firstNonEmpty(a.Category, generalCategory)
		out.Related = a.Related
	}
	return out
}

func uniqueSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, sym := range model.NormalizeSymbols(symbols) {
		if _, dup := seen[sym]; dup {
			continue
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	return out
}

// dateRange returns the YYYY-MM-DD bounds of the trailing window ending at now
func dateRange(now time.Time, days int) (from, to string) {
	return now.AddDate(0, 0, -days).Format(dateLayout), now.Format(dateLayout)
}

// truncate shortens s to n runes plus "..."; n <= 0 disables truncation
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n])) + "..."
}
