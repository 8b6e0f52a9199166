package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/tartampluch/go-clock/internal/config"
)

// Updater keeps the two display targets synchronized with wall-clock time at
// one-second granularity. It owns its ticker: Start launches the refresh
// loop and Stop deregisters it, so the timer handle never outlives the
// component.
type Updater struct {
	clock      clockwork.Clock
	timeFormat Formatter
	dateFormat Formatter
	timeTarget DisplayTarget
	dateTarget DisplayTarget

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	done    chan struct{}
}

// NewUpdater wires the updater with its formatters and targets.
// Both targets and both formatters are required; their absence is fatal at
// construction time since the handle set is fixed for the process lifetime.
// A nil clock defaults to the real wall clock.
func NewUpdater(clk clockwork.Clock, timeFormat, dateFormat Formatter, timeTarget, dateTarget DisplayTarget) (*Updater, error) {
	if timeTarget == nil {
		return nil, fmt.Errorf("%w: time target", ErrMissingTarget)
	}
	if dateTarget == nil {
		return nil, fmt.Errorf("%w: date target", ErrMissingTarget)
	}
	if timeFormat == nil {
		return nil, fmt.Errorf("%w: time formatter", ErrFormattingUnavailable)
	}
	if dateFormat == nil {
		return nil, fmt.Errorf("%w: date formatter", ErrFormattingUnavailable)
	}
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	return &Updater{
		clock:      clk,
		timeFormat: timeFormat,
		dateFormat: dateFormat,
		timeTarget: timeTarget,
		dateTarget: dateTarget,
	}, nil
}

// Refresh reads the current moment, formats it, and writes the results to
// the two targets. It never fails: a valid formatter applied to a valid
// moment cannot error, and target writes are plain assignments.
func (u *Updater) Refresh() {
	now := u.clock.Now()

	timeText := u.timeFormat.Format(now)
	dateText := u.dateFormat.Format(now)
	stamp := now.UTC().Format(config.FormatISOStamp)

	u.timeTarget.SetText(timeText)
	if carrier, ok := u.timeTarget.(TimestampCarrier); ok {
		carrier.SetTimestamp(stamp)
	}
	u.dateTarget.SetText(dateText)
}

// Start performs one synchronous refresh so the display is never blank, then
// launches the periodic loop. Calling Start on a running updater is a no-op.
// The loop ends when ctx is cancelled or Stop is called.
func (u *Updater) Start(ctx context.Context) {
	u.mu.Lock()
	if u.running {
		u.mu.Unlock()
		return
	}
	u.running = true
	u.quit = make(chan struct{})
	u.done = make(chan struct{})
	u.mu.Unlock()

	u.Refresh()

	go u.run(ctx)
}

// run is the ticker loop. Each tick formats "now" as of when it actually
// fires: a delayed tick displays a later, still-correct time rather than a
// stale one. No catch-up, no skip logic.
func (u *Updater) run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompClock)

	ticker := u.clock.NewTicker(config.TickInterval)
	defer ticker.Stop()
	defer close(u.done)
	defer func() {
		u.mu.Lock()
		u.running = false
		u.mu.Unlock()
	}()

	log.Info(config.MsgClockStart, config.LogKeyInterval, config.TickInterval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgClockStop)
			return

		case <-u.quit:
			log.Info(config.MsgClockStop)
			return

		case <-ticker.Chan():
			u.Refresh()
		}
	}
}

// Stop deregisters the periodic task. It is idempotent and returns only
// after the loop has exited, so no tick lands after Stop.
func (u *Updater) Stop() {
	u.mu.Lock()
	if !u.running {
		u.mu.Unlock()
		return
	}
	u.running = false
	close(u.quit)
	done := u.done
	u.mu.Unlock()

	<-done
}
