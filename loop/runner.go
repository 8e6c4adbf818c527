package loop

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fzft/go-connecter/connect"
	"github.com/fzft/go-connecter/log"
	"go.uber.org/zap"
)

// ErrDrainTimeout is returned when shutdown gave up waiting for
// in-flight dials to finish.
var ErrDrainTimeout = errors.New("drain timed out with attempts still in flight")

const (
	DefaultTick         = 30 * time.Millisecond
	DefaultDrainTimeout = 30 * time.Second
)

// Runner owns the registry's main loop: it calls Poll once per tick
// and runs submitted tasks on the loop goroutine, so every registry
// mutation stays on one logical thread. On shutdown it kills all
// attempts and keeps polling until the registry drains or the drain
// deadline passes.
type Runner struct {
	registry     *connect.Registry
	tick         time.Duration
	drainTimeout time.Duration
	tasks        chan func()
	signals      chan os.Signal
}

func NewRunner(registry *connect.Registry, tick time.Duration) *Runner {
	if tick <= 0 {
		tick = DefaultTick
	}
	r := &Runner{
		registry:     registry,
		tick:         tick,
		drainTimeout: DefaultDrainTimeout,
		tasks:        make(chan func(), 64),
		signals:      make(chan os.Signal, 1),
	}
	signal.Notify(r.signals, syscall.SIGINT, syscall.SIGTERM)
	return r
}

// SetDrainTimeout bounds how long Run waits for in-flight dials after
// shutdown begins. Call before Run.
func (r *Runner) SetDrainTimeout(d time.Duration) {
	r.drainTimeout = d
}

// Submit schedules fn to run on the loop goroutine before the next
// poll. It reports false once the runner is no longer accepting work.
func (r *Runner) Submit(fn func()) bool {
	select {
	case r.tasks <- fn:
		return true
	default:
		return false
	}
}

// Run drives the loop until ctx is cancelled or a shutdown signal
// arrives, then drains. It blocks for the lifetime of the loop.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()
	defer signal.Stop(r.signals)

	for {
		select {
		case fn := <-r.tasks:
			fn()
		case <-ticker.C:
			r.registry.Poll()
		case sig := <-r.signals:
			log.Logger.Info("signal received", zap.Stringer("signal", sig))
			return r.drain(ticker)
		case <-ctx.Done():
			return r.drain(ticker)
		}
	}
}

// drain kills every attempt and polls until the registry empties.
// Reaping a killed attempt still has to wait for its worker's dial to
// return, so this can take as long as the slowest dial timeout.
func (r *Runner) drain(ticker *time.Ticker) error {
	r.registry.KillAll()
	if n := r.registry.Len(); n > 0 {
		log.Logger.Info("draining attempts", zap.Int("inflight", n))
	}
	deadline := time.NewTimer(r.drainTimeout)
	defer deadline.Stop()
	for r.registry.Len() > 0 {
		select {
		case <-ticker.C:
			r.registry.Poll()
		case <-deadline.C:
			log.Logger.Warn("drain deadline passed",
				zap.Int("inflight", r.registry.Len()))
			return ErrDrainTimeout
		}
	}
	return nil
}
