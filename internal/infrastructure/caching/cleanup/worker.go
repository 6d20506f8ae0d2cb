// Package cleanup provides the background worker that expires in-memory
// request state: fetcher views, submission IDs and delete confirmations.
package cleanup

import (
	"context"
	"sync"
	"time"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

// Sweeper drops entries that expired before now and reports how many
type Sweeper interface {
	Sweep(now time.Time) int
}

// SweepFunc adapts a plain function to Sweeper
type SweepFunc func(now time.Time) int

func (f SweepFunc) Sweep(now time.Time) int { return f(now) }

type target struct {
	name    string
	sweeper Sweeper
}

// Worker handles background cleanup of registered stores
type Worker struct {
	config *Config
	logger *logging.ChanneledLogger

	mu      sync.Mutex
	targets []target
	done    chan struct{}
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(config *Config, logger *logging.ChanneledLogger) *Worker {
	return &Worker{
		config: config,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Register adds a store to sweep on every tick
func (w *Worker) Register(name string, s Sweeper) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.targets = append(w.targets, target{name: name, sweeper: s})
}

// Start runs the cleanup loop until ctx is cancelled. Done is closed on return.
func (w *Worker) Start(ctx context.Context) {
	defer close(w.done)

	interval := w.config.CleanupInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.System().Info("Cleanup worker started", "interval", interval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Shutdown().Info("Cleanup worker stopping")
			return
		case now := <-ticker.C:
			w.RunOnce(now)
		}
	}
}

// Done is closed once Start has returned
func (w *Worker) Done() <-chan struct{} { return w.done }

// RunOnce sweeps every registered store and returns the removals per store
func (w *Worker) RunOnce(now time.Time) map[string]int {
	start := time.Now()

	w.mu.Lock()
	targets := make([]target, len(w.targets))
	copy(targets, w.targets)
	w.mu.Unlock()

	removed := make(map[string]int, len(targets))
	total := 0
	for _, t := range targets {
		n := t.sweeper.Sweep(now)
		removed[t.name] = n
		total += n
	}

	if w.config.VerboseReporting {
		for name, n := range removed {
			w.logger.Debug().Debug("Cleanup sweep", "store", name, "removed", n)
		}
	}
	if total > 0 {
		w.logger.System().Info("Cleanup completed", "removed", total, "duration", time.Since(start))
	}
	return removed
}
