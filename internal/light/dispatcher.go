package light

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Options tunes a Dispatcher.
type Options struct {
	Interval   time.Duration
	Retries    int
	RetryDelay time.Duration
}

// DefaultOptions matches the reference light cadence.
func DefaultOptions() Options {
	return Options{
		Interval:   9 * time.Millisecond,
		Retries:    3,
		RetryDelay: 100 * time.Millisecond,
	}
}

// Stats counts dispatcher outcomes.
type Stats struct {
	Sent       uint64 `json:"sent"`
	Failed     uint64 `json:"failed"`
	Superseded uint64 `json:"superseded"`
}

// Dispatcher rate-limits color commands and delivers them from its own
// goroutine, so the update loop never waits on the network. Its mailbox holds
// a single command: a newer offer replaces one that has not been picked up.
type Dispatcher struct {
	light  Light
	opts   Options
	logger *slog.Logger

	mailbox   chan Command
	lastOffer time.Time

	sent       atomic.Uint64
	failed     atomic.Uint64
	superseded atomic.Uint64
}

// NewDispatcher builds a dispatcher for l. A nil light turns every offer into a no-op.
func NewDispatcher(l Light, opts Options, logger *slog.Logger) *Dispatcher {
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.Retries <= 0 {
		opts.Retries = def.Retries
	}
	if opts.RetryDelay < 0 {
		opts.RetryDelay = def.RetryDelay
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{
		light:   l,
		opts:    opts,
		logger:  logger,
		mailbox: make(chan Command, 1),
	}
}

// Offer hands cmd to the delivery goroutine if the dispatch interval has
// elapsed since the previous accepted offer. It never blocks and reports
// whether the command was accepted.
func (d *Dispatcher) Offer(now time.Time, cmd Command) bool {
	if d.light == nil {
		d.logger.Debug("no light configured; skipping color update")
		return false
	}
	if !d.lastOffer.IsZero() && now.Sub(d.lastOffer) < d.opts.Interval {
		return false
	}
	d.lastOffer = now

	for {
		select {
		case d.mailbox <- cmd:
			return true
		default:
		}
		select {
		case <-d.mailbox:
			d.superseded.Add(1)
		default:
		}
	}
}

// Run delivers offered commands until ctx is cancelled. A retry sequence that
// has started always runs to completion.
func (d *Dispatcher) Run(ctx context.Context) error {
	if d.light == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cmd := <-d.mailbox:
			d.deliver(context.WithoutCancel(ctx), cmd)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, cmd Command) {
	for attempt := 1; attempt <= d.opts.Retries; attempt++ {
		err := d.light.SetColor(ctx, cmd)
		if err == nil {
			d.sent.Add(1)
			d.logger.Debug("sent light color",
				slog.Int("hue", int(cmd.Hue)),
				slog.Int("brightness", int(cmd.Brightness)))
			return
		}

		d.logger.Error("light color update failed",
			slog.String("light", d.light.String()),
			slog.Int("attempt", attempt),
			slog.Any("error", err))

		if attempt < d.opts.Retries {
			time.Sleep(d.opts.RetryDelay)
		}
	}

	d.failed.Add(1)
	d.logger.Error("dropping light color update",
		slog.Int("attempts", d.opts.Retries),
		slog.String("command", cmd.String()))
}

// Stats returns delivery counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Sent:       d.sent.Load(),
		Failed:     d.failed.Load(),
		Superseded: d.superseded.Load(),
	}
}

// Enabled reports whether a light is attached.
func (d *Dispatcher) Enabled() bool {
	return d.light != nil
}
