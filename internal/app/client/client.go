package client

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/exp/slog"

	"punchclock/internal/app/client/config"
	"punchclock/internal/domain/punch"
)

// App wires the client pieces together: the durable queue, the server
// client, the connectivity monitor and the reconciler.
type App struct {
	config     *config.Config
	log        *slog.Logger
	queue      Queue
	httpClient *HTTPClient
	monitor    *Monitor
	submitter  *RemoteSubmitter
	reconciler *Reconciler
	clock      *Clock

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	httpCl := NewHTTPClient(cfg, log)

	var queue Queue
	sqliteQueue, err := NewSQLiteQueue(cfg.QueuePath)
	if err != nil {
		log.Warn("failed to open queue database, falling back to memory",
			slog.String("error", err.Error()))
		queue = NewMemoryQueue()
	} else {
		queue = sqliteQueue
	}

	monitor := NewMonitor(httpCl.HealthCheck, time.Duration(cfg.ProbeInterval)*time.Second, log)
	submitter := NewRemoteSubmitter(httpCl, log)
	reconciler := NewReconciler(queue, submitter, log)

	var locator Locator = NopLocator{}
	if cfg.HasLocation {
		locator = &StaticLocator{Location: punch.GeoLocation{
			Latitude:  cfg.LocationLat,
			Longitude: cfg.LocationLong,
			Address:   cfg.LocationAddress,
		}}
	}

	clock := NewClock(cfg.UserID, queue, submitter, monitor, locator, log)

	return &App{
		config:     cfg,
		log:        log,
		queue:      queue,
		httpClient: httpCl,
		monitor:    monitor,
		submitter:  submitter,
		reconciler: reconciler,
		clock:      clock,
	}, nil
}

// Clock returns the punch facade.
func (a *App) Clock() *Clock {
	return a.clock
}

// Reconciler returns the queue drain engine.
func (a *App) Reconciler() *Reconciler {
	return a.reconciler
}

// Monitor returns the connectivity monitor.
func (a *App) Monitor() *Monitor {
	return a.monitor
}

// Today fetches the caller's confirmed records for the current day
// from the server.
func (a *App) Today(ctx context.Context) ([]punch.TimeRecord, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return a.httpClient.ListRange(ctx, from, from.AddDate(0, 0, 1))
}

// NextAction computes the punch that should come next from today's
// confirmed records. The second result is false once the day is
// complete.
func (a *App) NextAction(ctx context.Context) (punch.Type, bool, error) {
	records, err := a.Today(ctx)
	if err != nil {
		return "", false, err
	}

	next, ok := punch.NextAction(records)
	return next, ok, nil
}

// CheckConnection probes the server once and updates the monitor.
func (a *App) CheckConnection(ctx context.Context) bool {
	return a.monitor.Check(ctx)
}

// Sync runs one reconciliation pass.
func (a *App) Sync(ctx context.Context) (Report, error) {
	return a.reconciler.RunOnce(ctx)
}

// Run starts the background daemon: the connectivity poll loop, a sync
// on every offline-to-online transition, and a periodic safety-net
// sync. It blocks until a termination signal arrives.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	go a.handleSignals()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.monitor.Start(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.syncLoop(ctx)
	}()

	a.log.Info("client started",
		slog.String("server", a.config.ServerAddress),
		slog.String("env", a.config.Env),
	)

	a.wg.Wait()
	return nil
}

func (a *App) syncLoop(ctx context.Context) {
	// Startup drain picks up whatever previous sessions left queued.
	a.trySync(ctx)

	ticker := time.NewTicker(time.Duration(a.config.SyncInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("sync loop stopped")
			return
		case ev := <-a.monitor.Events():
			if ev.Online {
				a.trySync(ctx)
			}
		case <-ticker.C:
			if a.monitor.IsOnline() {
				a.trySync(ctx)
			}
		}
	}
}

func (a *App) trySync(ctx context.Context) {
	_, err := a.reconciler.RunOnce(ctx)
	if err != nil && !errors.Is(err, ErrSyncInProgress) && !errors.Is(err, context.Canceled) {
		a.log.Error("reconciliation failed", slog.String("error", err.Error()))
	}
}

func (a *App) handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	sig := <-sigChan
	a.log.Info("received termination signal", slog.String("signal", sig.String()))

	if a.cancel != nil {
		a.cancel()
	}
}

// Shutdown stops the background loops and closes the queue.
func (a *App) Shutdown() {
	if a.cancel != nil {
		a.cancel()
	}

	a.wg.Wait()

	if closer, ok := a.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.log.Warn("failed to close queue", slog.String("error", err.Error()))
		}
	}

	a.log.Info("client stopped")
}

