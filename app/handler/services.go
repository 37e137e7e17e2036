package handler

import (
	m "indexbot/internal/model"

	"github.com/shopspring/decimal"
)

type StatusRetriever interface {
	Status() m.BotStatus
}

type FeedReporter interface {
	FeedAvailable() bool
	FeedConnected() bool
	LatestPrices() map[string]decimal.NullDecimal
}
