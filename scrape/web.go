package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"indexbot/internal/logger"
	"indexbot/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/net/publicsuffix"
)

type WebConfig struct {
	NSEBaseURL   string
	YahooBaseURL string
	Timeout      time.Duration
}

// Web reads index and stock prices from public websites that need no login.
type Web struct {
	nseBaseURL   string
	yahooBaseURL string
	client       *http.Client
	lg           zerolog.Logger
}

func NewWeb(conf *WebConfig) (*Web, error) {

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}

	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Web{
		nseBaseURL:   strings.TrimSuffix(conf.NSEBaseURL, "/"),
		yahooBaseURL: strings.TrimSuffix(conf.YahooBaseURL, "/"),
		client:       &http.Client{Timeout: timeout, Jar: jar},
		lg:           logger.New("Web"),
	}, nil
}

// NSEIndices loads the public all-indices table once and picks the requested
// indices out of it. The site refuses API calls without its session cookies,
// so the home page is fetched first.
func (w *Web) NSEIndices(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {

	if _, err := getBytes(ctx, w.client, w.nseBaseURL+"/", browserHeader()); err != nil {
		w.lg.Debug().Err(err).Msg("NSE cookie warm-up failed")
	}

	raw, err := getBytes(ctx, w.client, w.nseBaseURL+"/api/allIndices", browserHeader())
	if err != nil {
		return nil, err
	}

	rtn := make(map[string]decimal.NullDecimal)
	for _, inst := range instruments {
		if inst.NSEIndex == "" {
			continue
		}
		r := gjson.GetBytes(raw, fmt.Sprintf(`data.#(index==%q).last`, inst.NSEIndex))
		rtn[inst.Name] = toNullDecimal(r)
	}
	return rtn, nil
}

func (w *Web) YahooPrices(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {

	rtn := make(map[string]decimal.NullDecimal)
	for _, inst := range instruments {
		if inst.YahooSymbol == "" {
			continue
		}

		u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=1d", w.yahooBaseURL, url.PathEscape(inst.YahooSymbol))
		raw, err := getBytes(ctx, w.client, u, browserHeader())
		if err != nil {
			w.lg.Warn().Err(err).Str("symbol", inst.YahooSymbol).Msg("Yahoo chart request failed")
			rtn[inst.Name] = decimal.NullDecimal{}
			continue
		}
		rtn[inst.Name] = toNullDecimal(gjson.GetBytes(raw, "chart.result.0.meta.regularMarketPrice"))
	}
	return rtn, nil
}

// toNullDecimal accepts numbers and numeric strings like "22,147.90".
func toNullDecimal(r gjson.Result) decimal.NullDecimal {

	if !r.Exists() || r.Type == gjson.Null {
		return decimal.NullDecimal{}
	}

	s := r.Raw
	if r.Type == gjson.String {
		s = strings.ReplaceAll(r.String(), ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
