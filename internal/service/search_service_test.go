package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/cache"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"

	"go.uber.org/zap"
)

func newTestSearchService(t *testing.T, f *fakeFinnhub, apiKey string) *SearchService {
	return NewSearchService(newTestFinnhubClient(t, f, apiKey), testSearchConfig(), config.RevalidateConfig{}, zap.NewNop())
}

func TestSearchStocks_PopularWhenQueryEmpty(t *testing.T) {
	f := newFakeFinnhub()
	f.profiles["AAPL"] = `{"name":"Apple Inc","exchange":"NASDAQ NMS - GLOBAL MARKET"}`
	f.profiles["MSFT"] = `{"ticker":"MSFT"}`
	f.profiles["GOOGL"] = `{}`
	f.profiles["AMZN"] = `{"name":"Amazon"}`
	svc := newTestSearchService(t, f, "key")

	results := svc.SearchStocks(context.Background(), "  ")

	if len(results) != 2 {
		t.Fatalf("expected 2 named results, got %d: %+v", len(results), results)
	}
	if f.callCount("/stock/profile2") != 3 {
		t.Errorf("expected only the first 3 popular symbols fetched, got %d", f.callCount("/stock/profile2"))
	}

	if results[0].Symbol != "AAPL" || results[0].Name != "Apple Inc" || results[0].Exchange != "NASDAQ NMS - GLOBAL MARKET" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Symbol != "MSFT" || results[1].Name != "MSFT" || results[1].Exchange != "US" {
		t.Errorf("unexpected second result: %+v", results[1])
	}
	for _, r := range results {
		if r.Type != "Common Stock" || r.IsInWatchlist {
			t.Errorf("unexpected result: %+v", r)
		}
	}
}

func TestSearchStocks_PopularToleratesProfileFailure(t *testing.T) {
	f := newFakeFinnhub()
	f.profiles["MSFT"] = `{"name":"Microsoft"}`
	svc := newTestSearchService(t, f, "key")

	results := svc.SearchStocks(context.Background(), "")

	if len(results) != 1 || results[0].Symbol != "MSFT" {
		t.Errorf("expected only MSFT, got %+v", results)
	}
}

func TestSearchStocks_QueryCapsAndNormalizes(t *testing.T) {
	f := newFakeFinnhub()
	var items []string
	for i := 0; i < 20; i++ {
		items = append(items, fmt.Sprintf(`{"description":"Company %d","displaySymbol":"aa%d","symbol":"aa%d","type":""}`, i, i, i))
	}
	f.search = `{"count":20,"result":[` + strings.Join(items, ",") + `]}`
	svc := newTestSearchService(t, f, "key")

	results := svc.SearchStocks(context.Background(), "aa")

	if len(results) != 15 {
		t.Fatalf("expected 15 results, got %d", len(results))
	}
	if results[0].Symbol != "AA0" || results[0].Name != "Company 0" {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[0].Exchange != "US" || results[0].Type != "Stock" {
		t.Errorf("expected defaults, got %+v", results[0])
	}
	if !strings.Contains(f.lastQuery("/search"), "q=aa") {
		t.Errorf("expected query forwarded, got %s", f.lastQuery("/search"))
	}
}

func TestSearchStocks_NameFallsBackToSymbol(t *testing.T) {
	f := newFakeFinnhub()
	f.search = `{"count":2,"result":[{"symbol":"xyz","type":"ETP"},{"symbol":"","description":"dropped"}]}`
	svc := newTestSearchService(t, f, "key")

	results := svc.SearchStocks(context.Background(), "xyz")

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}
	if results[0].Name != "XYZ" || results[0].Type != "ETP" {
		t.Errorf("unexpected result: %+v", results[0])
	}
}

func TestSearchStocks_UpstreamFailureReturnsEmpty(t *testing.T) {
	svc := newTestSearchService(t, newFakeFinnhub(), "key")

	results := svc.SearchStocks(context.Background(), "aa")

	if results == nil || len(results) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", results)
	}
}

func TestSearchStocks_MissingAPIKeyReturnsEmpty(t *testing.T) {
	f := newFakeFinnhub()
	svc := newTestSearchService(t, f, "")

	results := svc.SearchStocks(context.Background(), "aa")

	if len(results) != 0 {
		t.Errorf("expected empty list, got %+v", results)
	}
	if f.callCount("/search") != 0 {
		t.Error("expected no upstream call without credentials")
	}
}

func TestSearchStocks_MemoizedWithinRequest(t *testing.T) {
	f := newFakeFinnhub()
	f.search = `{"count":1,"result":[{"symbol":"AAPL","description":"Apple"}]}`
	svc := newTestSearchService(t, f, "key")

	ctx := cache.WithMemo(context.Background(), cache.NewMemo(4))

	first := svc.SearchStocks(ctx, "apple")
	first[0].IsInWatchlist = true

	second := svc.SearchStocks(ctx, " apple ")
	if f.callCount("/search") != 1 {
		t.Errorf("expected 1 upstream call within one request, got %d", f.callCount("/search"))
	}
	if second[0].IsInWatchlist {
		t.Error("expected memoized results to be isolated from caller mutation")
	}

	svc.SearchStocks(context.Background(), "apple")
	if f.callCount("/search") != 2 {
		t.Errorf("expected a new request scope to miss the memo, got %d calls", f.callCount("/search"))
	}
}

func TestMarkWatchlisted(t *testing.T) {
	results := []model.StockSearchResult{{Symbol: "AAPL"}, {Symbol: "MSFT"}}

	MarkWatchlisted(results, []string{"aapl"})

	if !results[0].IsInWatchlist || results[1].IsInWatchlist {
		t.Errorf("unexpected flags: %+v", results)
	}
}
