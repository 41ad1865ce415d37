package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"subhook/internal/config"
	"subhook/internal/deps"
	"subhook/internal/extractor"
	"subhook/internal/logging"
)

// Daemon ties the HTTP server to single-instance locking and the script runner.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	server *Server

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	runner := extractor.NewRunner(cfg.Extractor.Script, logger)
	server, err := NewServer(cfg, runner, logger)
	if err != nil {
		return nil, err
	}

	lockDir := cfg.Logging.Dir
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	lockPath := filepath.Join(lockDir, "subhookd.lock")

	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		server:   server,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the HTTP server.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another subhookd instance is already running")
	}

	if status := deps.CheckScript(d.cfg.Extractor.Script); !status.Available {
		// Not fatal: requests still run and surface the failure per request.
		d.logger.Warn("extraction script unavailable", logging.String("detail", status.Detail))
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := d.server.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return err
	}
	d.cancel = cancel

	d.running.Store(true)
	d.logger.Info("subhookd started",
		logging.String("bind", d.cfg.Server.Bind),
		logging.String("script", d.cfg.Extractor.Script),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop shuts the server down and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.server.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("subhookd stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Addr reports the bound listener address, empty before Start.
func (d *Daemon) Addr() string {
	return d.server.Addr()
}
