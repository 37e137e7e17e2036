package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Credentials struct {
	APIKey     string
	ClientID   string
	Password   string
	TOTPSecret string
}

// Session is created once per process by a successful login and never renewed.
type Session struct {
	ClientCode   string
	AccessToken  string
	RefreshToken string
	FeedToken    string    // empty when the provider did not hand one out
	ExpiresAt    time.Time // zero when the access token carries no exp claim
}

type Instrument struct {
	Name          string
	Kind          Kind
	Exchange      string
	Token         string // provider symbol token, resolved lazily when empty
	TradingSymbol string
	SearchQuery   string
	NSEIndex      string
	YahooSymbol   string
	CrawlURL      string
	CrawlCSS      string
	AlpacaSymbol  string
}

func (i Instrument) Query() string {
	if i.SearchQuery != "" {
		return i.SearchQuery
	}
	return i.Name
}

type Quote struct {
	Name  string
	Kind  Kind
	Price decimal.NullDecimal
	At    time.Time
}

// Available reports whether the quote renders as a price. A zero price is
// rendered like a missing one.
func (q Quote) Available() bool {
	return q.Price.Valid && !q.Price.Decimal.IsZero()
}

/**********************************************************************************************************************
************************************************* Persisted rows *****************************************************
**********************************************************************************************************************/

type ResolvedToken struct {
	ID            uint
	Name          string `gorm:"uniqueIndex;size:64"`
	Exchange      string
	Token         string
	TradingSymbol string
	ResolvedAt    time.Time
}

type TickHist struct {
	ID        uint
	Source    string
	Prices    datatypes.JSONMap
	Sent      bool
	CreatedAt time.Time
}

// BotStatus is a point-in-time copy of the poll loop's observable state.
type BotStatus struct {
	Alive            bool
	State            string
	PollInterval     time.Duration
	Source           string
	LastTick         time.Time
	LastSendOk       *bool
	SessionExpiresAt time.Time
}
