package model

import "strings"

// FieldSource records where a DetailedStockData field value came from
type FieldSource string

const (
	// SourceUpstream means the value was present in the upstream response
	SourceUpstream FieldSource = "upstream"
	// SourceMissing means the upstream call succeeded but the field was absent
	SourceMissing FieldSource = "missing"
	// SourceFailed means the upstream call failed and the field holds its default
	SourceFailed FieldSource = "failed"
)

// Field names used as provenance keys
const (
	FieldCurrentPrice  = "currentPrice"
	FieldChange        = "change"
	FieldChangePercent = "changePercent"
	FieldCountry       = "country"
	FieldIndustry      = "industry"
	FieldWebsite       = "website"
	FieldDescription   = "description"
	FieldMarketCap     = "marketCap"
	FieldPERatio       = "peRatio"
	FieldDividendYield = "dividendYield"
	FieldEPS           = "eps"
)

// Data slices fetched independently for one symbol
const (
	SliceQuote   = "quote"
	SliceProfile = "profile"
	SliceMetrics = "metrics"
)

// Defaults applied when a field cannot be resolved
const (
	DefaultCountry  = "N/A"
	DefaultIndustry = "N/A"
)

// DetailedStockData combines quote, profile and metrics for one symbol.
// Unresolved fields hold their documented defaults (0, "N/A", "", nil) and
// Provenance tells a real value apart from a default.
type DetailedStockData struct {
	Symbol string `json:"symbol"`

	CurrentPrice  float64 `json:"currentPrice"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`

	Country     string `json:"country"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Description string `json:"description"`

	MarketCap     *float64 `json:"marketCap"`
	PERatio       *float64 `json:"peRatio"`
	DividendYield *float64 `json:"dividendYield"`
	EPS           *float64 `json:"eps"`

	Provenance map[string]FieldSource `json:"provenance"`
	Errors     map[string]string      `json:"errors,omitempty"`
}

// Source returns the provenance of a field, SourceMissing if unknown
func (d *DetailedStockData) Source(field string) FieldSource {
	if src, ok := d.Provenance[field]; ok {
		return src
	}
	return SourceMissing
}

// AllSlicesFailed reports whether quote, profile and metrics all failed
func (d *DetailedStockData) AllSlicesFailed() bool {
	for _, slice := range []string{SliceQuote, SliceProfile, SliceMetrics} {
		if _, failed := d.Errors[slice]; !failed {
			return false
		}
	}
	return true
}

// StockDataResult is the outcome of aggregating one symbol in a batch
type StockDataResult struct {
	Symbol string             `json:"symbol"`
	Data   *DetailedStockData `json:"data"`
	Error  string             `json:"error,omitempty"`
}

// StockSearchResult is one entry of a stock search
type StockSearchResult struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Type          string `json:"type"`
	IsInWatchlist bool   `json:"isInWatchlist"`
}

// NormalizeSymbol trims and uppercases a ticker
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// NormalizeSymbols canonicalizes symbols and drops empty entries
func NormalizeSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if sym := NormalizeSymbol(s); sym != "" {
			out = append(out, sym)
		}
	}
	return out
}
