package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pubsublib "cloud.google.com/go/pubsub/v2"
	"github.com/novalux/backend/internal/changefeed"
	"github.com/novalux/backend/pkg/config"
	"github.com/novalux/backend/pkg/db"
	"github.com/novalux/backend/pkg/db/models"
	"github.com/novalux/backend/pkg/logger"
	"github.com/novalux/backend/pkg/metrics"
	"github.com/sethvargo/go-retry"
	"gorm.io/gorm"
)

const (
	publishTimeout   = 15 * time.Second
	retryBaseDelay   = 100 * time.Millisecond
	publishedKeepFor = 24 * time.Hour
	pruneEvery       = time.Hour
)

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

type publisher interface {
	Publish(ctx context.Context, msg *pubsublib.Message) publishResult
}

type gcpPublisher struct {
	inner *pubsublib.Publisher
}

func (p gcpPublisher) Publish(ctx context.Context, msg *pubsublib.Message) publishResult {
	return p.inner.Publish(ctx, msg)
}

// Service drains unpublished change events to their per-table Pub/Sub topics.
// Events that fail to publish stay in the table and are retried on the next
// poll, so consumers may see an event more than once but never miss one.
type Service struct {
	cfg        config.ChangefeedConfig
	logg       *logger.Logger
	dbClient   *db.Client
	repo       *changefeed.Repository
	publishers map[string]publisher
	metrics    *metrics.SyncMetrics
	now        func() time.Time
}

// ServiceParams bundles the dependencies required to build the publisher.
type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         *db.Client
	Repository *changefeed.Repository
	Publishers map[string]publisher
	Metrics    *metrics.SyncMetrics
}

// NewService validates dependencies and builds the publisher service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("changefeed repository is required")
	}
	if len(params.Publishers) == 0 {
		return nil, fmt.Errorf("at least one publisher is required")
	}
	if params.Config.Changefeed.BatchSize <= 0 {
		return nil, fmt.Errorf("changefeed batch size must be positive")
	}
	if params.Config.Changefeed.PollIntervalMS <= 0 {
		return nil, fmt.Errorf("changefeed poll interval must be positive")
	}

	return &Service{
		cfg:        params.Config.Changefeed,
		logg:       params.Logger,
		dbClient:   params.DB,
		repo:       params.Repository,
		publishers: params.Publishers,
		metrics:    params.Metrics,
		now:        time.Now,
	}, nil
}

// Run polls for unpublished events until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	pollInterval := time.Duration(s.cfg.PollIntervalMS) * time.Millisecond
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	pruneTicker := time.NewTicker(pruneEvery)
	defer pruneTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.processBatch(ctx); err != nil {
				s.logg.Error(ctx, "changefeed batch failed", err)
			}
		case <-pruneTicker.C:
			s.prune(ctx)
		}
	}
}

// processBatch locks a batch of unpublished events, publishes each, and marks
// the successes inside the same transaction. Row locks keep concurrent worker
// instances off the same events.
func (s *Service) processBatch(ctx context.Context) error {
	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		events, err := s.repo.FetchUnpublishedTx(tx, s.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("fetching unpublished events: %w", err)
		}

		for _, event := range events {
			if err := s.publishEvent(ctx, event); err != nil {
				evCtx := s.logg.WithFields(ctx, map[string]any{
					"event_id": event.ID.String(),
					"table":    event.TableName,
				})
				s.logg.Error(evCtx, "publish change event failed, will retry", err)
				continue
			}
			if err := s.repo.MarkPublishedTx(tx, event.ID); err != nil {
				return fmt.Errorf("marking event %s published: %w", event.ID, err)
			}
			s.metrics.AddPublished(event.TableName, 1)
		}
		return nil
	})
}

func (s *Service) publishEvent(ctx context.Context, event models.ChangeEvent) error {
	pub, ok := s.publishers[event.TableName]
	if !ok {
		return fmt.Errorf("no publisher for table %q", event.TableName)
	}

	payload, err := json.Marshal(changefeed.Event{
		ID:         event.ID,
		Table:      event.TableName,
		Op:         event.Op,
		RecordID:   event.RecordID,
		OccurredAt: event.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	backoff := retry.WithMaxRetries(uint64(s.attemptsBudget()), retry.NewExponential(retryBaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		result := pub.Publish(pubCtx, &pubsublib.Message{Data: payload})
		if _, err := result.Get(pubCtx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (s *Service) attemptsBudget() int {
	if s.cfg.PublishAttempts <= 1 {
		return 0
	}
	return s.cfg.PublishAttempts - 1
}

func (s *Service) prune(ctx context.Context) {
	cutoff := s.now().Add(-publishedKeepFor)
	pruned, err := s.repo.DeletePublishedBefore(cutoff)
	if err != nil {
		s.logg.Error(ctx, "pruning published change events failed", err)
		return
	}
	if pruned > 0 {
		s.logg.Info(s.logg.WithField(ctx, "pruned", pruned), "pruned published change events")
	}
}
