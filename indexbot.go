package indexbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"indexbot/internal/logger"
	m "indexbot/internal/model"

	"github.com/robfig/cron"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type State int32

const (
	StateInit State = iota
	StateLoggedIn
	StatePolling
	StateStopped
)

var stateNames = []string{"INIT", "LOGGED_IN", "POLLING", "STOPPED"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "UNKNOWN"
	}
	return stateNames[s]
}

var ErrNoSymbols = errors.New("no quotable symbols")

type BotConfig struct {
	Messenger    messenger
	Session      sessionManager
	Quotes       quoteSource
	Store        tickStore // optional
	Credentials  m.Credentials
	Instruments  []m.Instrument
	Interval     time.Duration
	Schedule     cron.Schedule // Interval after each tick when nil
	Layout       Layout
	NeedsSession bool
}

// fixedDelay fires exactly d after the given time. cron.Every would truncate
// to whole seconds.
type fixedDelay time.Duration

func (d fixedDelay) Next(t time.Time) time.Time {
	return t.Add(time.Duration(d))
}

// Bot drives INIT -> LOGGED_IN -> POLLING. Login failure and an empty symbol
// set end in STOPPED after one chat notification.
type Bot struct {
	msg          messenger
	sm           sessionManager
	qs           quoteSource
	store        tickStore
	creds        m.Credentials
	instruments  []m.Instrument
	interval     time.Duration
	schedule     cron.Schedule
	layout       Layout
	needsSession bool
	now          func() time.Time
	lg           zerolog.Logger

	state atomic.Int32
	alive atomic.Bool

	mu         sync.Mutex
	ready      []m.Instrument
	lastTick   time.Time
	lastSendOk *bool
	source     string
	expiresAt  time.Time
}

func NewBot(conf BotConfig) *Bot {

	sched := conf.Schedule
	if sched == nil {
		sched = fixedDelay(conf.Interval)
	}
	layout := conf.Layout
	if layout == "" {
		layout = LayoutGrouped
	}

	return &Bot{
		msg:          conf.Messenger,
		sm:           conf.Session,
		qs:           conf.Quotes,
		store:        conf.Store,
		creds:        conf.Credentials,
		instruments:  conf.Instruments,
		interval:     conf.Interval,
		schedule:     sched,
		layout:       layout,
		needsSession: conf.NeedsSession,
		now:          time.Now,
		lg:           logger.New("Bot"),
	}
}

func (b *Bot) State() State {
	return State(b.state.Load())
}

func (b *Bot) setState(s State) {
	b.lg.Info().Str("from", b.State().String()).Str("to", s.String()).Msg("State changed")
	b.state.Store(int32(s))
}

func (b *Bot) Status() m.BotStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	return m.BotStatus{
		Alive:            b.alive.Load(),
		State:            b.State().String(),
		PollInterval:     b.interval,
		Source:           b.source,
		LastTick:         b.lastTick,
		LastSendOk:       b.lastSendOk,
		SessionExpiresAt: b.expiresAt,
	}
}

// Run starts the bot and polls until ctx is cancelled. Startup failures are
// returned after they have been reported to the chat.
func (b *Bot) Run(ctx context.Context) error {

	b.alive.Store(true)
	defer b.alive.Store(false)
	defer b.setState(StateStopped)

	if err := b.Start(ctx); err != nil {
		return err
	}

	ready := b.readyInstruments()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := b.qs.StartFeed(gctx, ready); err != nil {
			b.lg.Warn().Err(err).Msg("Push feed not running")
		}
		return nil
	})
	g.Go(func() error {
		b.poll(gctx)
		return nil
	})
	return g.Wait()
}

// Start logs in when a broker strategy is enabled, resolves symbol tokens and
// announces the polled set.
func (b *Bot) Start(ctx context.Context) error {

	if b.needsSession {
		s, err := b.sm.Login(ctx, b.creds)
		if err != nil {
			b.lg.Error().Err(err).Msg("Login failed")
			b.msg.SendMessage(ctx, fmt.Sprintf("Login failed: %v", err))
			b.setState(StateStopped)
			return fmt.Errorf("login: %w", err)
		}
		if s != nil {
			b.mu.Lock()
			b.expiresAt = s.ExpiresAt
			b.mu.Unlock()
		}
		b.setState(StateLoggedIn)
	}

	resolved, missing := b.qs.Resolve(ctx, b.instruments)
	for _, name := range missing {
		b.msg.SendMessage(ctx, fmt.Sprintf("Could not find token for %s", name))
	}

	ready := make([]m.Instrument, 0, len(resolved))
	names := make([]string, 0, len(resolved))
	for _, inst := range resolved {
		if b.qs.Quotable(inst) {
			ready = append(ready, inst)
			names = append(names, inst.Name)
		}
	}

	if len(ready) == 0 {
		b.lg.Error().Msg("No quotable symbols")
		b.msg.SendMessage(ctx, "No symbols found; bot stopped.")
		b.setState(StateStopped)
		return ErrNoSymbols
	}

	b.mu.Lock()
	b.ready = ready
	b.mu.Unlock()

	b.msg.SendMessage(ctx, fmt.Sprintf("Bot started. Polling every %ds for: %s",
		int(b.interval/time.Second), strings.Join(names, ", ")))
	b.setState(StatePolling)
	return nil
}

func (b *Bot) readyInstruments() []m.Instrument {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}

// poll runs one tick, then waits until the schedule's next time measured from
// the end of that tick. Ticks never overlap.
func (b *Bot) poll(ctx context.Context) {

	for {
		b.Tick(ctx)

		next := b.schedule.Next(b.now())
		if next.IsZero() {
			b.lg.Error().Msg("Schedule has no next activation")
			return
		}
		wait := next.Sub(b.now())
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			b.lg.Info().Msg("Poll loop stopped")
			return
		case <-timer.C:
		}
	}
}

// Tick fetches, formats and sends once. A panic inside is logged, reported to
// the chat and swallowed.
func (b *Bot) Tick(ctx context.Context) (sent bool) {

	defer func() {
		if r := recover(); r != nil {
			b.lg.Error().Any("panic", r).Msg("Tick failed")
			b.msg.SendMessage(ctx, fmt.Sprintf("Error in poll loop: %v", r))
			sent = false
		}
	}()

	ready := b.readyInstruments()
	at := b.now()

	o := b.qs.Prices(ctx, ready)
	quotes := o.Quotes(ready, at)
	sent = b.msg.SendMessage(ctx, Format(b.layout, quotes, at))

	ok := sent
	b.mu.Lock()
	b.lastTick = at
	b.lastSendOk = &ok
	b.source = o.Source
	b.mu.Unlock()

	if !sent {
		b.lg.Warn().Str("source", o.Source).Msg("Tick message was not delivered")
	}

	if b.store != nil {
		if err := b.store.SaveTick(o.Source, tickPrices(quotes), sent); err != nil {
			b.lg.Warn().Err(err).Msg("Failed to save tick")
		}
	}
	return sent
}

func tickPrices(quotes []m.Quote) map[string]any {
	rtn := make(map[string]any, len(quotes))
	for _, q := range quotes {
		if q.Price.Valid {
			rtn[q.Name] = q.Price.Decimal.String()
		} else {
			rtn[q.Name] = nil
		}
	}
	return rtn
}
