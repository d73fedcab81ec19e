package worker

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"shareit/internal/config"
	"shareit/internal/models"
)

// ReportStore provides the rows the schedule report is built from.
type ReportStore interface {
	GetScheduleEntries(ctx context.Context, start, end time.Time) ([]*models.ScheduleEntry, error)
}

// ScheduleWriter renders schedule entries into a report file.
type ScheduleWriter interface {
	WriteSchedule(entries []*models.ScheduleEntry, start, end time.Time) (string, error)
}

// ReportWorker rebuilds the bookings schedule report when booking state
// changes. Refresh requests are collapsed: many enqueues produce one rebuild.
type ReportWorker struct {
	store         ReportStore
	writer        ScheduleWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan struct{}
	redisQueueKey string
	pollInterval  time.Duration
	cfg           config.ReportsConfig
	logger        *zerolog.Logger
}

// NewReportWorker builds a worker; retry behavior comes from the reports config.
func NewReportWorker(store ReportStore, writer ScheduleWriter, redisClient *redis.Client, cfg config.ReportsConfig, logger *zerolog.Logger) *ReportWorker {
	return &ReportWorker{
		store:         store,
		writer:        writer,
		redis:         redisClient,
		retryPolicy:   PolicyFromConfig(cfg),
		queue:         make(chan struct{}, models.ReportQueueSize),
		redisQueueKey: "reports:refresh",
		pollInterval:  2 * time.Second,
		cfg:           cfg,
		logger:        logger,
	}
}

// EnqueueRefresh schedules a report rebuild via redis or the in-memory queue.
func (w *ReportWorker) EnqueueRefresh(ctx context.Context) error {
	// Try redis first for durability.
	if w.redis != nil {
		if err := w.redis.LPush(ctx, w.redisQueueKey, time.Now().Format(time.RFC3339)).Err(); err != nil {
			w.logger.Warn().Err(err).Msg("Redis push failed, falling back to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- struct{}{}:
	default:
		// Queue full means a rebuild is already pending, nothing lost
	}
	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *ReportWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Report worker started")
	defer w.logger.Info().Msg("Report worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if w.tryLocalQueue() || w.tryRedis(ctx) {
			w.drainPending(ctx)
			w.rebuildWithRetry(ctx)
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.pollInterval):
		}
	}
}

func (w *ReportWorker) tryLocalQueue() bool {
	select {
	case <-w.queue:
		return true
	default:
		return false
	}
}

func (w *ReportWorker) tryRedis(ctx context.Context) bool {
	if w.redis == nil {
		return false
	}
	_, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && !errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			w.logger.Warn().Err(err).Msg("Redis BRPOP error")
		}
		return false
	}
	return true
}

// drainPending collapses queued refresh requests into the rebuild that is
// about to run.
func (w *ReportWorker) drainPending(ctx context.Context) {
	for w.tryLocalQueue() {
	}
	if w.redis != nil {
		_ = w.redis.Del(ctx, w.redisQueueKey).Err()
	}
}

func (w *ReportWorker) rebuildWithRetry(ctx context.Context) {
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		err := w.rebuild(ctx)
		if err == nil {
			return
		}
		w.logger.Error().Err(err).Int("attempt", attempt).Msg("Report rebuild failed")

		if attempt == w.retryPolicy.MaxRetries {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}
}

func (w *ReportWorker) rebuild(ctx context.Context) error {
	now := time.Now()
	start := now.AddDate(0, 0, -w.cfg.DaysBefore)
	end := now.AddDate(0, 0, w.cfg.DaysAfter)

	entries, err := w.store.GetScheduleEntries(ctx, start, end)
	if err != nil {
		return err
	}

	_, err = w.writer.WriteSchedule(entries, start, end)
	return err
}
