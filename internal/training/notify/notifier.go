package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/2beens/gymroutine/internal/events"
	"github.com/2beens/gymroutine/internal/telemetry/metrics"
	"github.com/2beens/gymroutine/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	"github.com/panjf2000/ants"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=notifier_mocks_test.go -package=notify_test

const (
	DefaultChannel    = "gymroutine:rest-expired"
	DefaultWorkers    = 8
	defaultJobTimeout = 5 * time.Second

	SinkRedis  = "redis"
	SinkEvents = "events"
	SinkPool   = "pool"
)

var ErrNotifierClosed = errors.New("notifier closed")

type eventsRecorder interface {
	AddTrainingStart(ctx context.Context, ts events.TrainingStart) (int, error)
	AddTrainingFinish(ctx context.Context, tf events.TrainingFinish) (int, error)
	AddRestStarted(ctx context.Context, rs events.RestStarted) (int, error)
	AddRestFinished(ctx context.Context, rf events.RestFinished) (int, error)
}

// RestExpired is published when a rest countdown reaches zero, so the client can
// vibrate or play a sound.
type RestExpired struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Exercise  int       `json:"exercise"`
	Set       int       `json:"set"`
	ExpiredAt time.Time `json:"expiredAt"`
}

type NewNotifierParams struct {
	RedisClient    *redis.Client
	Channel        string
	Events         eventsRecorder
	MetricsManager *metrics.Manager
	Workers        int
	JobTimeout     time.Duration
}

// Notifier delivers training side effects off the timer path, on a bounded worker pool.
// Delivery failures are logged and counted, never returned to the caller.
type Notifier struct {
	pool           *ants.Pool
	redisClient    *redis.Client
	channel        string
	events         eventsRecorder
	metricsManager *metrics.Manager
	jobTimeout     time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewNotifier(params NewNotifierParams) (*Notifier, error) {
	workers := params.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	channel := params.Channel
	if channel == "" {
		channel = DefaultChannel
	}
	jobTimeout := params.JobTimeout
	if jobTimeout <= 0 {
		jobTimeout = defaultJobTimeout
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("new notify worker pool: %w", err)
	}

	return &Notifier{
		pool:           pool,
		redisClient:    params.RedisClient,
		channel:        channel,
		events:         params.Events,
		metricsManager: params.MetricsManager,
		jobTimeout:     jobTimeout,
	}, nil
}

func (n *Notifier) RestExpired(msg RestExpired) {
	n.submit("rest-expired", func(ctx context.Context) {
		ctx, span := tracing.GlobalTracer.Start(ctx, "notify.restexpired")
		defer span.End()
		span.SetAttributes(
			attribute.String("session-id", msg.SessionID),
			attribute.Int("exercise", msg.Exercise),
			attribute.Int("set", msg.Set),
		)

		if n.redisClient != nil {
			if err := n.publish(ctx, msg); err != nil {
				n.failed(SinkRedis, "publish rest expired [%s %d-%d]: %s", msg.SessionID, msg.Exercise, msg.Set, err)
				span.RecordError(err)
			}
		}

		n.record(ctx, func(ctx context.Context) (int, error) {
			return n.events.AddRestFinished(ctx, events.RestFinished{
				SessionID: msg.SessionID,
				UserID:    msg.UserID,
				Exercise:  msg.Exercise,
				Set:       msg.Set,
				Timestamp: msg.ExpiredAt,
			})
		})
	})
}

func (n *Notifier) RestStarted(rs events.RestStarted) {
	n.submit("rest-started", func(ctx context.Context) {
		n.record(ctx, func(ctx context.Context) (int, error) {
			return n.events.AddRestStarted(ctx, rs)
		})
	})
}

func (n *Notifier) TrainingStarted(ts events.TrainingStart) {
	n.submit("training-started", func(ctx context.Context) {
		n.record(ctx, func(ctx context.Context) (int, error) {
			return n.events.AddTrainingStart(ctx, ts)
		})
	})
}

func (n *Notifier) TrainingFinished(tf events.TrainingFinish) {
	n.submit("training-finished", func(ctx context.Context) {
		n.record(ctx, func(ctx context.Context) (int, error) {
			return n.events.AddTrainingFinish(ctx, tf)
		})
	})
}

// Close waits for submitted jobs to finish and releases the pool. Jobs submitted
// afterwards are dropped.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	n.wg.Wait()
	n.pool.Release()
	log.Debugln("notifier closed")
}

func (n *Notifier) submit(name string, job func(ctx context.Context)) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		n.failed(SinkPool, "notify job %s: %s", name, ErrNotifierClosed)
		return
	}
	n.wg.Add(1)
	n.mu.Unlock()

	err := n.pool.Submit(func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.jobTimeout)
		defer cancel()
		job(ctx)
	})
	if err != nil {
		n.wg.Done()
		n.failed(SinkPool, "submit notify job %s: %s", name, err)
	}
}

func (n *Notifier) publish(ctx context.Context, msg RestExpired) error {
	msgJson, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	return n.redisClient.Publish(ctx, n.channel, string(msgJson)).Err()
}

func (n *Notifier) record(ctx context.Context, add func(ctx context.Context) (int, error)) {
	if n.events == nil {
		return
	}
	if _, err := add(ctx); err != nil {
		n.failed(SinkEvents, "record event: %s", err)
	}
}

func (n *Notifier) failed(sink string, format string, args ...any) {
	log.Errorf(format, args...)
	if n.metricsManager != nil {
		n.metricsManager.CounterNotifyFailures.WithLabelValues(sink).Inc()
	}
}
