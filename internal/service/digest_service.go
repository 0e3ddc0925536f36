package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ajmikallu/signalist-stock-tracker-app/internal/events"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/model"
	"github.com/ajmikallu/signalist-stock-tracker-app/internal/repository"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// DigestService builds a news digest per user and publishes it
type DigestService struct {
	userRepo   *repository.UserRepository
	watchlists *WatchlistService
	news       *NewsService
	publisher  events.Publisher
	topic      string
	workers    int
	logger     *zap.Logger
	now        func() time.Time
}

// NewDigestService creates a new digest service
func NewDigestService(
	userRepo *repository.UserRepository,
	watchlists *WatchlistService,
	news *NewsService,
	publisher events.Publisher,
	topic string,
	workers int,
	logger *zap.Logger,
) *DigestService {
	if workers < 1 {
		workers = 1
	}
	return &DigestService{
		userRepo:   userRepo,
		watchlists: watchlists,
		news:       news,
		publisher:  publisher,
		topic:      topic,
		workers:    workers,
		logger:     logger,
		now:        time.Now,
	}
}

// Run publishes one digest per eligible user and returns how many were
// published. Per-user failures are logged and skipped.
func (s *DigestService) Run(ctx context.Context) (int, error) {
	if !s.news.HasCredentials() {
		return 0, ErrMissingAPIKey
	}

	users, err := s.userRepo.ListForNewsEmail(ctx)
	if err != nil {
		return 0, err
	}

	var published int64
	p := pool.New().WithMaxGoroutines(s.workers)
	for _, u := range users {
		u := u
		p.Go(func() {
			if err := s.digestFor(ctx, u); err != nil {
				s.logger.Warn("failed to publish news digest", zap.String("userID", u.ID), zap.Error(err))
				return
			}
			atomic.AddInt64(&published, 1)
		})
	}
	p.Wait()

	s.logger.Info("news digests published",
		zap.Int("users", len(users)),
		zap.Int64("published", published))

	return int(published), nil
}

func (s *DigestService) digestFor(ctx context.Context, u model.UserForNewsEmail) error {
	symbols := s.watchlists.GetWatchlistSymbolsByEmail(ctx, u.Email)

	articles, err := s.news.GetNews(ctx, symbols)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		return errors.New("no articles")
	}

	digest := model.NewsDigest{
		UserID:      u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Symbols:     symbols,
		Articles:    articles,
		GeneratedAt: s.now().UTC(),
	}
	return s.publisher.Publish(ctx, s.topic, events.Message{Key: u.ID, Value: digest})
}
