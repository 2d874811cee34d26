package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/riskibarqy/fantasy-rules-engine/internal/platform/logging"
)

const defaultDeadlineCheckInterval = 5 * time.Second

// DeadlineWatcher locks the current gameweek once its deadline passes. Calls
// that mutate squads check the deadline themselves, so the watcher only
// makes the transition visible to readers and triggers follow-up jobs.
type DeadlineWatcher struct {
	gameweeks *GameweekService
	logger    *logging.Logger
	interval  time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
}

func NewDeadlineWatcher(gameweeks *GameweekService, interval time.Duration, logger *logging.Logger) *DeadlineWatcher {
	if interval <= 0 {
		interval = defaultDeadlineCheckInterval
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &DeadlineWatcher{
		gameweeks: gameweeks,
		logger:    logger,
		interval:  interval,
		done:      make(chan struct{}),
	}
}

// Start runs the watch loop in the background until ctx is cancelled or Stop
// is called. It never blocks the caller.
func (w *DeadlineWatcher) Start(ctx context.Context) {
	w.startMu.Lock()
	if w.started {
		w.startMu.Unlock()
		return
	}
	w.started = true
	w.ticker = time.NewTicker(w.interval)
	w.startMu.Unlock()

	go func() {
		w.logger.InfoContext(ctx, "deadline watcher started", "interval", w.interval.String())
		w.check(ctx)

		for {
			select {
			case <-ctx.Done():
				w.ticker.Stop()
				w.logger.Info("deadline watcher stopped")
				return
			case <-w.done:
				w.ticker.Stop()
				w.logger.Info("deadline watcher stopped")
				return
			case <-w.ticker.C:
				w.check(ctx)
			}
		}
	}()
}

func (w *DeadlineWatcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
}

func (w *DeadlineWatcher) check(ctx context.Context) {
	gw, locked, err := w.gameweeks.LockIfDue(ctx)
	if errors.Is(err, ErrNotFound) {
		w.logger.DebugContext(ctx, "deadline check skipped", "reason", err)
		return
	}
	if err != nil {
		w.logger.WarnContext(ctx, "deadline check failed", "error", err)
		return
	}
	if locked {
		w.logger.DebugContext(ctx, "deadline watcher locked gameweek", "gameweek", gw.Number)
	}
}
