package jobs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/tripsplit/tripsplit/internal/platform/httpx"
)

// Worker runs the background queue consumer and, when cron entries are
// registered, the periodic scheduler alongside it.
type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	scheduler *asynq.Scheduler
	logger    *slog.Logger
}

// Registration binds a task type to the function that processes it.
type Registration struct {
	Type    string
	Handler asynq.HandlerFunc
}

// CronEntry schedules a prepared task on a cron expression.
type CronEntry struct {
	Spec string
	Task *asynq.Task
}

// WorkerConfig collects what the worker needs to start.
type WorkerConfig struct {
	RedisOpts     asynq.RedisClientOpt
	Logger        *slog.Logger
	Concurrency   int
	Registrations []Registration
	Cron          []CronEntry
}

// NewWorker builds a worker from its registrations. Cron entries are
// registered against a UTC scheduler; an empty Cron slice means no
// scheduler is started.
func NewWorker(cfg WorkerConfig) (*Worker, error) {
	if len(cfg.Registrations) == 0 {
		return nil, errors.New("jobs: worker needs at least one registration")
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	srv := asynq.NewServer(cfg.RedisOpts, asynq.Config{
		Concurrency: concurrency,
		Queues:      map[string]int{QueueDefault: 1},
	})
	mux := asynq.NewServeMux()
	for _, reg := range cfg.Registrations {
		mux.HandleFunc(reg.Type, reg.Handler)
	}

	w := &Worker{server: srv, mux: mux, logger: cfg.Logger}
	if len(cfg.Cron) > 0 {
		w.scheduler = asynq.NewScheduler(cfg.RedisOpts, &asynq.SchedulerOpts{Location: time.UTC})
		for _, entry := range cfg.Cron {
			id, err := w.scheduler.Register(entry.Spec, entry.Task, asynq.Queue(QueueDefault))
			if err != nil {
				return nil, err
			}
			cfg.Logger.Info("cron registered",
				slog.String("entry_id", id),
				slog.String("spec", entry.Spec),
				slog.String("task", entry.Task.Type()))
		}
	}
	return w, nil
}

// Run processes tasks until ctx is cancelled or the server fails.
func (w *Worker) Run(ctx context.Context) error {
	if w.scheduler != nil {
		if err := w.scheduler.Start(); err != nil {
			return err
		}
		defer w.scheduler.Shutdown()
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.server.Run(w.mux)
	}()
	select {
	case <-ctx.Done():
		w.server.Shutdown()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Client submits tasks to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient builds a queue client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueRatesWarmup queues an exchange-rate warmup run.
func (c *Client) EnqueueRatesWarmup(ctx context.Context, payload RatesWarmupPayload) (*asynq.TaskInfo, error) {
	task, err := NewRatesWarmupTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}

// Handler exposes queue observability over HTTP.
type Handler struct {
	inspector *asynq.Inspector
	logger    *slog.Logger
}

// NewHandler builds the jobs HTTP handler.
func NewHandler(inspector *asynq.Inspector, logger *slog.Logger) *Handler {
	return &Handler{inspector: inspector, logger: logger}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
}

type queueHealth struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	if h.inspector == nil {
		httpx.JSON(w, http.StatusOK, queueHealth{Queue: QueueDefault})
		return
	}
	info, err := h.inspector.GetQueueInfo(QueueDefault)
	if err != nil {
		h.logger.Warn("queue health check failed", slog.Any("error", err))
		httpx.Problem(w, http.StatusServiceUnavailable, "Queue Unavailable", "could not inspect the default queue")
		return
	}
	httpx.JSON(w, http.StatusOK, queueHealth{
		Queue:     info.Queue,
		Pending:   info.Pending,
		Active:    info.Active,
		Scheduled: info.Scheduled,
	})
}
