package indexbot

import (
	"context"

	m "indexbot/internal/model"
	"indexbot/scrape"
)

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces_test.go -package=indexbot

type messenger interface {
	SendMessage(ctx context.Context, text string) bool
}

type sessionManager interface {
	Login(ctx context.Context, creds m.Credentials) (*m.Session, error)
}

type quoteSource interface {
	Resolve(ctx context.Context, instruments []m.Instrument) ([]m.Instrument, []string)
	Quotable(inst m.Instrument) bool
	Prices(ctx context.Context, instruments []m.Instrument) scrape.Outcome
	StartFeed(ctx context.Context, instruments []m.Instrument) error
}

type tickStore interface {
	SaveTick(source string, prices map[string]any, sent bool) error
}
