package scrape

import (
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

type AlpacaConfig struct {
	APIKey    string
	APISecret string
	BaseURL   string
}

type alpacaClient interface {
	GetLatestCryptoBar(symbol string, req marketdata.GetLatestCryptoBarRequest) (*marketdata.CryptoBar, error)
	GetLatestTrade(symbol string, req marketdata.GetLatestTradeRequest) (*marketdata.Trade, error)
}

func newAlpacaClient(conf *AlpacaConfig) alpacaClient {
	return marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    conf.APIKey,
		APISecret: conf.APISecret,
		BaseURL:   conf.BaseURL,
	})
}

// alpacaPrice reads the latest crypto bar close for pair symbols like
// BTC/USD, and the latest trade price for anything else.
func alpacaPrice(client alpacaClient, symbol string) (decimal.NullDecimal, error) {

	if strings.Contains(symbol, "/") {
		bar, err := client.GetLatestCryptoBar(symbol, marketdata.GetLatestCryptoBarRequest{})
		if err != nil {
			return decimal.NullDecimal{}, err
		}
		if bar == nil {
			return decimal.NullDecimal{}, ErrNoData
		}
		return priceOf(bar.Close), nil
	}

	trade, err := client.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	if trade == nil {
		return decimal.NullDecimal{}, ErrNoData
	}
	return priceOf(trade.Price), nil
}
