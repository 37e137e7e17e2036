package scrape

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"indexbot/internal/logger"
	"indexbot/internal/model"

	"github.com/rs/zerolog"
)

const (
	loginEndpoint       = "/rest/auth/angelbroking/user/v1/loginByPassword"
	renewEndpoint       = "/rest/auth/angelbroking/jwt/v1/generateTokens"
	searchEndpoint      = "/rest/secure/angelbroking/order/v1/searchScrip"
	ltpEndpoint         = "/rest/secure/angelbroking/order/v1/getLtpData"
	marketQuoteEndpoint = "/rest/secure/angelbroking/market/v1/quote/"
)

type SmartAPIConfig struct {
	APIKey     string
	BaseURL    string
	FeedURL    string
	LocalIP    string
	PublicIP   string
	MACAddress string
	Timeout    time.Duration
}

// SmartAPI handles all Angel One SmartAPI REST operations
type SmartAPI struct {
	apiKey   string
	baseURL  string
	localIP  string
	publicIP string
	mac      string
	client   *http.Client
	now      func() time.Time
	lg       zerolog.Logger

	mu      sync.RWMutex
	session *model.Session
}

func NewSmartAPI(conf *SmartAPIConfig) *SmartAPI {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &SmartAPI{
		apiKey:   conf.APIKey,
		baseURL:  conf.BaseURL,
		localIP:  conf.LocalIP,
		publicIP: conf.PublicIP,
		mac:      conf.MACAddress,
		client:   &http.Client{Timeout: timeout},
		now:      time.Now,
		lg:       logger.New("SmartAPI"),
	}
}

func (k *SmartAPI) Session() *model.Session {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.session
}

func (k *SmartAPI) setSession(s *model.Session) {
	k.mu.Lock()
	k.session = s
	k.mu.Unlock()
}

func (k *SmartAPI) RenewToken(ctx context.Context, refreshToken string) (*TokenData, error) {

	var rtn SmartResp[TokenData]
	if err := k.execute(ctx, renewEndpoint, RenewRequest{RefreshToken: refreshToken}, &rtn, true); err != nil {
		return nil, err
	}
	if !rtn.Status {
		return nil, fmt.Errorf("%w: %s (%s)", ErrAPIStatus, rtn.Message, rtn.ErrorCode)
	}
	return &rtn.Data, nil
}

// SearchScrip looks up the instrument catalog by free text.
func (k *SmartAPI) SearchScrip(ctx context.Context, exchange string, query string) ([]ScripCandidate, error) {

	var rtn SmartResp[[]ScripCandidate]
	err := k.execute(ctx, searchEndpoint, SearchRequest{Exchange: exchange, SearchScrip: query}, &rtn, true)
	if err != nil {
		return nil, err
	}
	if !rtn.Status {
		return nil, fmt.Errorf("%w: %s (%s)", ErrAPIStatus, rtn.Message, rtn.ErrorCode)
	}
	return rtn.Data, nil
}

func (k *SmartAPI) LTP(ctx context.Context, exchange, tradingSymbol, token string) (*LTPData, error) {

	req := LTPRequest{
		Exchange:      exchange,
		TradingSymbol: tradingSymbol,
		SymbolToken:   token,
	}

	var rtn SmartResp[LTPData]
	if err := k.execute(ctx, ltpEndpoint, req, &rtn, true); err != nil {
		return nil, err
	}
	if !rtn.Status {
		return nil, fmt.Errorf("%w: %s (%s)", ErrAPIStatus, rtn.Message, rtn.ErrorCode)
	}
	return &rtn.Data, nil
}

// MarketQuote fetches quotes for many tokens, grouped by exchange, in one call.
func (k *SmartAPI) MarketQuote(ctx context.Context, mode string, exchangeTokens map[string][]string) ([]FetchedQuote, error) {

	req := MarketQuoteRequest{
		Mode:           mode,
		ExchangeTokens: exchangeTokens,
	}

	var rtn SmartResp[MarketQuoteData]
	if err := k.execute(ctx, marketQuoteEndpoint, req, &rtn, true); err != nil {
		return nil, err
	}
	if !rtn.Status {
		return nil, fmt.Errorf("%w: %s (%s)", ErrAPIStatus, rtn.Message, rtn.ErrorCode)
	}

	if len(rtn.Data.Unfetched) > 0 {
		k.lg.Debug().Any("unfetched", rtn.Data.Unfetched).Msg("Market quote left tokens unfetched")
	}
	return rtn.Data.Fetched, nil
}

// execute posts a JSON body to a SmartAPI endpoint with the device headers
// and, when secure is set, the session's bearer token.
func (k *SmartAPI) execute(ctx context.Context, endpoint string, body any, response any, secure bool) error {

	header := map[string]string{
		"Content-Type":     "application/json",
		"Accept":           "application/json",
		"X-UserType":       "USER",
		"X-SourceID":       "WEB",
		"X-ClientLocalIP":  k.localIP,
		"X-ClientPublicIP": k.publicIP,
		"X-MACAddress":     k.mac,
		"X-PrivateKey":     k.apiKey,
	}

	if secure {
		s := k.Session()
		if s == nil {
			return ErrNoSession
		}
		header["Authorization"] = "Bearer " + s.AccessToken
	}

	k.lg.Debug().
		Str("endpoint", endpoint).
		Bool("secure", secure).
		Msg("Executing API request")

	return sendRequest(ctx, k.client, k.baseURL+endpoint, http.MethodPost, header, body, response)
}
