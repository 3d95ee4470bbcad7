package app

import (
	"context"
	"io"
	"os"
	"shopkeeper/config"
	"shopkeeper/internal/client"
	"shopkeeper/internal/entity"
	"shopkeeper/internal/storage"
	"shopkeeper/internal/store"
	"shopkeeper/metrics"
	"shopkeeper/pkg/logger"
	"time"

	"github.com/google/uuid"
)

// Snapshots is the persistence the sync command writes to when enabled.
type Snapshots interface {
	SaveRun(ctx context.Context, run storage.Run) error
	LatestRun(ctx context.Context, store string) (uuid.UUID, time.Time, error)
	CountByType(ctx context.Context, runID uuid.UUID, types ...entity.Type) (map[entity.Type]int, error)
}

// App runs the commands against the configured stores.
type App struct {
	cfg        *config.AppConfig
	log        *logger.BaseLogger
	stage      *logger.StageLogger
	metrics    *metrics.Metrics
	snapshots  Snapshots
	out        io.Writer
	clientOpts []client.Option
}

type Option func(*App)

func WithSnapshots(s Snapshots) Option {
	return func(a *App) {
		a.snapshots = s
	}
}

// WithOutput redirects command output, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

func WithClientOptions(opts ...client.Option) Option {
	return func(a *App) {
		a.clientOpts = append(a.clientOpts, opts...)
	}
}

func New(cfg *config.AppConfig, log *logger.BaseLogger, m *metrics.Metrics, opts ...Option) *App {
	if log == nil {
		log = logger.NewLogger(nil, "")
	}
	if m == nil {
		m = metrics.New()
	}
	a := &App{
		cfg:     cfg,
		log:     log,
		stage:   logger.NewStageLogger(log),
		metrics: m,
		out:     os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *App) client(s *store.Store) *client.Client {
	opts := append(append([]client.Option(nil), a.clientOpts...), client.WithRecorder(a.metrics))
	return client.New(s, a.cfg.Client.Config(), a.log, opts...)
}
