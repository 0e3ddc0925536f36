package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/client"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/config"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/events"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// fakeFinnhub serves canned bodies keyed by endpoint and symbol. A symbol
// without a body gets a 500.
type fakeFinnhub struct {
	mu          sync.Mutex
	quotes      map[string]string
	profiles    map[string]string
	metrics     map[string]string
	companyNews map[string]string
	search      string
	general     string
	calls       map[string]int
	queries     map[string][]string
}

func newFakeFinnhub() *fakeFinnhub {
	return &fakeFinnhub{
		quotes:      map[string]string{},
		profiles:    map[string]string{},
		metrics:     map[string]string{},
		companyNews: map[string]string{},
		calls:       map[string]int{},
		queries:     map[string][]string{},
	}
}

func (f *fakeFinnhub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[r.URL.Path]++
	f.queries[r.URL.Path] = append(f.queries[r.URL.Path], r.URL.RawQuery)

	symbol := r.URL.Query().Get("symbol")
	var body string
	switch r.URL.Path {
	case "/quote":
		body = f.quotes[symbol]
	case "/stock/profile2":
		body = f.profiles[symbol]
	case "/stock/metric":
		body = f.metrics[symbol]
	case "/company-news":
		body = f.companyNews[symbol]
	case "/search":
		body = f.search
	case "/news":
		body = f.general
	}

	if body == "" {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

func (f *fakeFinnhub) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeFinnhub) lastQuery(path string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	q := f.queries[path]
	if len(q) == 0 {
		return ""
	}
	return q[len(q)-1]
}

func newTestFinnhubClient(t *testing.T, f *fakeFinnhub, apiKey string) *client.FinnhubClient {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	cfg := config.FinnhubConfig{BaseURL: srv.URL, APIKey: apiKey, Timeout: 5 * time.Second}
	return client.NewFinnhubClient(cfg, nil, "test", zap.NewNop())
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		PopularSymbols:  []string{"AAPL", "MSFT", "GOOGL", "AMZN"},
		PopularLimit:    3,
		MaxResults:      15,
		MemoEntries:     8,
		DefaultExchange: "US",
	}
}

func testNewsConfig() config.NewsConfig {
	return config.NewsConfig{
		MaxArticles:     6,
		GeneralDedupCap: 20,
		LookbackDays:    5,
		SummaryLength:   200,
	}
}

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	cfg := config.DatabaseConfig{
		Driver:         "sqlite",
		Path:           filepath.Join(t.TempDir(), "service.db"),
		MaxOpenConns:   1,
		ConnectTimeout: 2 * time.Second,
	}
	ctx := context.Background()
	db, err := repository.Connect(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := repository.Migrate(ctx, db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type published struct {
	topic string
	msg   events.Message
}

// recordingPublisher keeps every published message in memory
type recordingPublisher struct {
	mu   sync.Mutex
	msgs []published
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, msg events.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, published{topic: topic, msg: msg})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) messages() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]published, len(p.msgs))
	copy(out, p.msgs)
	return out
}
