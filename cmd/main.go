package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	indexbot "indexbot"
	"indexbot/app"
	"indexbot/bot"
	"indexbot/config"
	"indexbot/internal/db"
	"indexbot/internal/logger"
	m "indexbot/internal/model"
	"indexbot/scrape"

	"golang.org/x/sync/errgroup"
)

// stopped backs the health endpoint when the bot never got constructed.
type stopped struct {
	conf *config.Config
}

func (s stopped) Status() m.BotStatus {
	return m.BotStatus{State: indexbot.StateStopped.String(), PollInterval: s.conf.PollInterval()}
}

func main() {

	conf, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	level, err := conf.LogLevel()
	if err != nil {
		panic(err)
	}
	/*
		memo.
		Setup 이전에 만들어진 logger는 파일 출력에 포함되지 않음. module logger는 모두 Setup 이후에 생성할 것.
	*/
	closer := logger.Setup(level, conf.LogFileConfig())
	defer closer.Close()

	lg := logger.New("Main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, scraper, closeStore, err := build(conf)
	if err != nil {
		// health stays up so the misconfiguration is visible from outside
		lg.Error().Err(err).Msg("Invalid configuration, bot not started")
		srv := app.NewServer(conf.App.Port, stopped{conf}, nil, false)
		if err := srv.Run(ctx); err != nil {
			lg.Fatal().Err(err).Msg("Server stopped")
		}
		return
	}
	defer closeStore()

	caps := scraper.Capabilities()
	lg.Info().Str("strategies", caps.String()).Int("instruments", len(conf.InstrumentList)).Msg("Starting")

	srv := app.NewServer(conf.App.Port, b, scraper, caps.NeedsSession())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		// a stopped bot leaves the health endpoint up
		if err := b.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			lg.Error().Err(err).Msg("Bot stopped")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		lg.Error().Err(err).Msg("Server stopped")
	}
}

// build validates the configuration and wires the bot. Nothing here panics on
// bad input; the caller falls back to a health-only server.
func build(conf *config.Config) (*indexbot.Bot, *scrape.Scraper, func(), error) {

	noop := func() {}

	if err := conf.Validate(); err != nil {
		return nil, nil, noop, err
	}

	caps, err := conf.Capabilities()
	if err != nil {
		return nil, nil, noop, err
	}

	instruments, err := conf.Instruments()
	if err != nil {
		return nil, nil, noop, err
	}

	schedule, err := conf.Schedule()
	if err != nil {
		return nil, nil, noop, err
	}

	teleBot, err := bot.NewTeleBot(conf.BotConfig())
	if err != nil {
		return nil, nil, noop, err
	}

	opts := []scrape.Option{
		scrape.WithSmartAPI(conf.SmartAPIConfig()),
		scrape.WithWeb(conf.WebConfig()),
		scrape.WithAlpaca(conf.AlpacaConfig()),
	}

	var store *db.Storage
	closeStore := noop
	if conf.HistoryDsn != "" {
		store, err = db.NewStorage(conf.HistoryDsn)
		if err != nil {
			return nil, nil, noop, fmt.Errorf("history store: %w", err)
		}
		closeStore = func() { store.Close() }
		opts = append(opts, scrape.WithTokenStore(store))
	}

	scraper, err := scrape.NewScraper(caps, opts...)
	if err != nil {
		closeStore()
		return nil, nil, noop, err
	}

	botConf := indexbot.BotConfig{
		Messenger:    teleBot,
		Session:      scraper,
		Quotes:       scraper,
		Credentials:  conf.Credentials(),
		Instruments:  instruments,
		Interval:     conf.PollInterval(),
		Schedule:     schedule,
		Layout:       indexbot.Layout(conf.Poll.Layout),
		NeedsSession: caps.NeedsSession(),
	}
	if store != nil {
		botConf.Store = store
	}

	return indexbot.NewBot(botConf), scraper, closeStore, nil
}
