package service

import (
	"context"
	"errors"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/client"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"
)

var errEmptySymbol = errors.New("empty symbol")

// StockService aggregates quote, profile and metrics data per symbol
type StockService struct {
	finnhub    *client.FinnhubClient
	revalidate config.RevalidateConfig
	logger     *zap.Logger
}

// NewStockService creates a new stock service
func NewStockService(finnhub *client.FinnhubClient, revalidate config.RevalidateConfig, logger *zap.Logger) *StockService {
	return &StockService{
		finnhub:    finnhub,
		revalidate: revalidate,
		logger:     logger,
	}
}

type quoteSlice struct {
	current, change, percent *float64
	err                      error
}

type profileSlice struct {
	country, industry, website, description string
	err                                     error
}

type metricsSlice struct {
	marketCap, peRatio, dividendYield, eps *float64
	err                                    error
}

// GetDetailedStockData fetches quote, profile and metrics for one symbol in
// parallel. A failing slice leaves its fields at their defaults and is
// recorded in Errors; only a missing API key fails the call.
func (s *StockService) GetDetailedStockData(ctx context.Context, symbol string) (*model.DetailedStockData, error) {
	if !s.finnhub.HasCredentials() {
		return nil, ErrMissingAPIKey
	}

	sym := model.NormalizeSymbol(symbol)
	data := newDetailedStockData(sym)

	if sym == "" {
		applyQuote(data, quoteSlice{err: errEmptySymbol})
		applyProfile(data, profileSlice{err: errEmptySymbol})
		applyMetrics(data, metricsSlice{err: errEmptySymbol})
		return data, nil
	}

	var (
		quote   quoteSlice
		profile profileSlice
		metrics metricsSlice
	)

	var wg conc.WaitGroup
	wg.Go(func() { quote = s.fetchQuote(ctx, sym) })
	wg.Go(func() { profile = s.fetchProfile(ctx, sym) })
	wg.Go(func() { metrics = s.fetchMetrics(ctx, sym) })
	wg.Wait()

	applyQuote(data, quote)
	applyProfile(data, profile)
	applyMetrics(data, metrics)

	return data, nil
}

// GetDetailedStockDatas aggregates many symbols concurrently and returns one
// result per input symbol, in input order. Error is set when a symbol could
// not be aggregated at all.
func (s *StockService) GetDetailedStockDatas(ctx context.Context, symbols []string) []model.StockDataResult {
	return iter.Map(symbols, func(symbol *string) model.StockDataResult {
		sym := model.NormalizeSymbol(*symbol)
		result := model.StockDataResult{Symbol: sym}

		data, err := s.GetDetailedStockData(ctx, sym)
		if err != nil {
			result.Error = err.Error()
			return result
		}

		result.Data = data
		if data.AllSlicesFailed() {
			result.Error = "failed to fetch stock data for " + displaySymbol(sym)
		}
		return result
	})
}

func (s *StockService) fetchQuote(ctx context.Context, symbol string) quoteSlice {
	quote, err := s.finnhub.Quote(ctx, symbol, s.revalidate.Quote)
	if err != nil {
		s.logger.Warn("failed to fetch quote", zap.String("symbol", symbol), zap.Error(err))
		return quoteSlice{err: err}
	}
	return quoteSlice{current: quote.Current, change: quote.Change, percent: quote.PercentChange}
}

func (s *StockService) fetchProfile(ctx context.Context, symbol string) profileSlice {
	profile, err := s.finnhub.Profile(ctx, symbol, s.revalidate.Profile)
	if err != nil {
		s.logger.Warn("failed to fetch profile", zap.String("symbol", symbol), zap.Error(err))
		return profileSlice{err: err}
	}
	return profileSlice{
		country:     profile.Country,
		industry:    profile.FinnhubIndustry,
		website:     profile.WebURL,
		description: profile.Description,
	}
}

func (s *StockService) fetchMetrics(ctx context.Context, symbol string) metricsSlice {
	metrics, err := s.finnhub.Metrics(ctx, symbol, s.revalidate.Metrics)
	if err != nil {
		s.logger.Warn("failed to fetch metrics", zap.String("symbol", symbol), zap.Error(err))
		return metricsSlice{err: err}
	}
	m := metrics.Metric
	return metricsSlice{
		marketCap:     m.MarketCapitalization,
		peRatio:       m.PENormalizedAnnual,
		dividendYield: m.DividendYieldIndicatedAnnual,
		eps:           m.EPSBasicExclExtraord,
	}
}

func newDetailedStockData(symbol string) *model.DetailedStockData {
	return &model.DetailedStockData{
		Symbol:     symbol,
		Country:    model.DefaultCountry,
		Industry:   model.DefaultIndustry,
		Provenance: make(map[string]model.FieldSource),
		Errors:     make(map[string]string),
	}
}

func applyQuote(d *model.DetailedStockData, q quoteSlice) {
	if q.err != nil {
		d.Errors[model.SliceQuote] = q.err.Error()
		markFailed(d, model.FieldCurrentPrice, model.FieldChange, model.FieldChangePercent)
		return
	}
	setFloat(d, model.FieldCurrentPrice, &d.CurrentPrice, q.current)
	setFloat(d, model.FieldChange, &d.Change, q.change)
	setFloat(d, model.FieldChangePercent, &d.ChangePercent, q.percent)
}

func applyProfile(d *model.DetailedStockData, p profileSlice) {
	if p.err != nil {
		d.Errors[model.SliceProfile] = p.err.Error()
		markFailed(d, model.FieldCountry, model.FieldIndustry, model.FieldWebsite, model.FieldDescription)
		return
	}
	setString(d, model.FieldCountry, &d.Country, p.country)
	setString(d, model.FieldIndustry, &d.Industry, p.industry)
	setString(d, model.FieldWebsite, &d.Website, p.website)
	setString(d, model.FieldDescription, &d.Description, p.description)
}

func applyMetrics(d *model.DetailedStockData, m metricsSlice) {
	if m.err != nil {
		d.Errors[model.SliceMetrics] = m.err.Error()
		markFailed(d, model.FieldMarketCap, model.FieldPERatio, model.FieldDividendYield, model.FieldEPS)
		return
	}
	setOptional(d, model.FieldMarketCap, &d.MarketCap, m.marketCap)
	setOptional(d, model.FieldPERatio, &d.PERatio, m.peRatio)
	setOptional(d, model.FieldDividendYield, &d.DividendYield, m.dividendYield)
	setOptional(d, model.FieldEPS, &d.EPS, m.eps)
}

func markFailed(d *model.DetailedStockData, fields ...string) {
	for _, f := range fields {
		d.Provenance[f] = model.SourceFailed
	}
}

func setFloat(d *model.DetailedStockData, field string, dst *float64, v *float64) {
	if v == nil {
		d.Provenance[field] = model.SourceMissing
		return
	}
	*dst = *v
	d.Provenance[field] = model.SourceUpstream
}

func setOptional(d *model.DetailedStockData, field string, dst **float64, v *float64) {
	if v == nil {
		d.Provenance[field] = model.SourceMissing
		return
	}
	val := *v
	*dst = &val
	d.Provenance[field] = model.SourceUpstream
}

func setString(d *model.DetailedStockData, field string, dst *string, v string) {
	if v == "" {
		d.Provenance[field] = model.SourceMissing
		return
	}
	*dst = v
	d.Provenance[field] = model.SourceUpstream
}

func displaySymbol(sym string) string {
	if sym == "" {
		return "empty symbol"
	}
	return sym
}
