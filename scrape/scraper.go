package scrape

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"sync"
	"time"

	"indexbot/internal/logger"
	"indexbot/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TokenStore persists resolved symbol tokens across restarts.
type TokenStore interface {
	SaveResolvedToken(t *model.ResolvedToken) error
	RetrieveResolvedToken(name string) (*model.ResolvedToken, error)
}

type strategyFunc func(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error)

type Scraper struct {
	caps   Capability
	smart  *SmartAPI
	feed   *Feed
	web    *Web
	alpaca alpacaClient
	store  TokenStore
	cell   *PriceCell
	client *http.Client
	now    func() time.Time
	lg     zerolog.Logger

	strategies map[Capability]strategyFunc

	mu       sync.Mutex
	resolved map[string]ScripCandidate
}

type Option func(*Scraper) error

// Functional Option Pattern
func NewScraper(caps Capability, options ...Option) (*Scraper, error) {
	s := &Scraper{
		caps:     caps,
		cell:     NewPriceCell(),
		client:   &http.Client{Timeout: defaultTimeout},
		now:      time.Now,
		lg:       logger.New("Scraper"),
		resolved: make(map[string]ScripCandidate),
	}
	for _, opt := range options {
		if err := opt(s); err != nil {
			return nil, fmt.Errorf("failed to create Scraper %w", err)
		}
	}

	s.strategies = map[Capability]strategyFunc{
		CapBatch:    s.batchQuotes,
		CapExchange: s.exchangeQuotes,
		CapSearch:   s.searchQuotes,
		CapFeed:     s.feedQuotes,
		CapNSE:      s.nseQuotes,
		CapYahoo:    s.yahooQuotes,
		CapCrawl:    s.crawlQuotes,
		CapAlpaca:   s.alpacaQuotes,
	}
	return s, nil
}

func WithSmartAPI(conf *SmartAPIConfig) Option {

	return func(s *Scraper) error {
		if !s.caps.NeedsSession() {
			return nil
		}
		if conf.APIKey == "" {
			return errors.New("smartapi api key is empty")
		}
		s.smart = NewSmartAPI(conf)
		if s.caps.Has(CapFeed) {
			s.feed = NewFeed(conf.FeedURL, conf.APIKey, s.cell)
		}
		return nil
	}
}

func WithWeb(conf *WebConfig) Option {

	return func(s *Scraper) error {
		if conf.Timeout > 0 {
			s.client = &http.Client{Timeout: conf.Timeout}
		}
		if !s.caps.Has(CapNSE) && !s.caps.Has(CapYahoo) {
			return nil
		}
		w, err := NewWeb(conf)
		if err != nil {
			return err
		}
		s.web = w
		return nil
	}
}

func WithAlpaca(conf *AlpacaConfig) Option {

	return func(s *Scraper) error {
		if !s.caps.Has(CapAlpaca) {
			return nil
		}
		if conf.APIKey == "" || conf.APISecret == "" {
			return errors.New("alpaca strategy enabled without api key and secret")
		}
		s.alpaca = newAlpacaClient(conf)
		return nil
	}
}

func WithTokenStore(store TokenStore) Option {

	return func(s *Scraper) error {
		s.store = store
		return nil
	}
}

func (s *Scraper) Capabilities() Capability {
	return s.caps
}

// Login opens the broker session. It is a no-op when no broker strategy is
// enabled.
func (s *Scraper) Login(ctx context.Context, creds model.Credentials) (*model.Session, error) {
	if s.smart == nil {
		return nil, nil
	}
	return s.smart.Login(ctx, creds)
}

func (s *Scraper) Session() *model.Session {
	if s.smart == nil {
		return nil
	}
	return s.smart.Session()
}

// FeedAvailable reports whether a push feed is configured.
func (s *Scraper) FeedAvailable() bool {
	return s.feed != nil
}

func (s *Scraper) FeedConnected() bool {
	return s.cell.Connected()
}

func (s *Scraper) LatestPrices() map[string]decimal.NullDecimal {
	return s.cell.Snapshot()
}

// StartFeed blocks receiving pushed prices until ctx is done.
func (s *Scraper) StartFeed(ctx context.Context, instruments []model.Instrument) error {
	if s.feed == nil {
		return nil
	}
	return s.feed.Run(ctx, s.Session(), instruments)
}

// Quotable reports whether any enabled strategy can price the instrument.
func (s *Scraper) Quotable(inst model.Instrument) bool {
	switch {
	case inst.Token != "" && s.caps.NeedsSession():
		return true
	case inst.NSEIndex != "" && s.caps.Has(CapNSE):
		return true
	case inst.YahooSymbol != "" && s.caps.Has(CapYahoo):
		return true
	case inst.CrawlURL != "" && s.caps.Has(CapCrawl):
		return true
	case inst.AlpacaSymbol != "" && s.caps.Has(CapAlpaca):
		return true
	}
	return false
}

// Resolve fills in missing symbol tokens through the catalog search and
// returns the names it could not resolve.
func (s *Scraper) Resolve(ctx context.Context, instruments []model.Instrument) ([]model.Instrument, []string) {

	rtn := make([]model.Instrument, 0, len(instruments))
	missing := make([]string, 0)

	for _, inst := range instruments {
		if inst.Token == "" && s.caps.NeedsSession() {
			c, err := s.lookup(ctx, inst)
			if err != nil {
				s.lg.Warn().Err(err).Str("name", inst.Name).Msg("Token lookup failed")
				missing = append(missing, inst.Name)
			} else {
				inst.Token = c.SymbolToken
				if inst.TradingSymbol == "" {
					inst.TradingSymbol = c.TradingSymbol
				}
			}
		}
		rtn = append(rtn, inst)
	}
	return rtn, missing
}

func (s *Scraper) lookup(ctx context.Context, inst model.Instrument) (ScripCandidate, error) {

	s.mu.Lock()
	c, ok := s.resolved[inst.Name]
	s.mu.Unlock()
	if ok {
		return c, nil
	}

	if s.store != nil {
		if rt, err := s.store.RetrieveResolvedToken(inst.Name); err == nil && rt != nil && rt.Token != "" {
			c = ScripCandidate{Exchange: rt.Exchange, TradingSymbol: rt.TradingSymbol, SymbolToken: rt.Token}
			s.remember(inst.Name, c)
			return c, nil
		}
	}

	if s.smart == nil {
		return ScripCandidate{}, ErrNoSession
	}

	candidates, err := s.smart.SearchScrip(ctx, inst.Exchange, inst.Query())
	if err != nil {
		return ScripCandidate{}, err
	}
	if len(candidates) == 0 || candidates[0].SymbolToken == "" {
		return ScripCandidate{}, fmt.Errorf("%w: no catalog match for %q", ErrNoData, inst.Query())
	}

	c = candidates[0]
	s.remember(inst.Name, c)

	if s.store != nil {
		err := s.store.SaveResolvedToken(&model.ResolvedToken{
			Name:          inst.Name,
			Exchange:      inst.Exchange,
			Token:         c.SymbolToken,
			TradingSymbol: c.TradingSymbol,
			ResolvedAt:    s.now(),
		})
		if err != nil {
			s.lg.Warn().Err(err).Str("name", inst.Name).Msg("Failed to persist resolved token")
		}
	}
	return c, nil
}

func (s *Scraper) remember(name string, c ScripCandidate) {
	s.mu.Lock()
	s.resolved[name] = c
	s.mu.Unlock()
}

// Prices walks the enabled strategies in priority order and returns the
// first outcome carrying at least one price. Strategies after it are not
// invoked. When none is usable the last unavailable outcome is returned.
func (s *Scraper) Prices(ctx context.Context, instruments []model.Instrument) Outcome {

	last := Unavailable("none", "no strategy enabled")
	for c := range s.outcomes(ctx, instruments) {
		if c.Usable() {
			s.lg.Debug().Str("source", c.Source).Msg("Quote strategy succeeded")
			return c
		}
		if c.Reason == "" {
			c.Reason = ErrNoData.Error()
		}
		s.lg.Info().Str("source", c.Source).Str("reason", c.Reason).Msg("Quote strategy unavailable")
		last = c
	}
	return last
}

func (s *Scraper) outcomes(ctx context.Context, instruments []model.Instrument) iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		for c := range s.caps.Each() {
			if ctx.Err() != nil {
				yield(Unavailable(c.String(), ctx.Err().Error()))
				return
			}
			if !yield(s.run(ctx, c, instruments)) {
				return
			}
		}
	}
}

// run turns every error or panic inside a strategy into Unavailable.
func (s *Scraper) run(ctx context.Context, c Capability, instruments []model.Instrument) (o Outcome) {

	source := c.String()
	if c.NeedsSession() && s.Session() == nil {
		return Unavailable(source, ErrNoSession.Error())
	}

	fn, ok := s.strategies[c]
	if !ok {
		return Unavailable(source, ErrUnknownSource.Error())
	}

	defer func() {
		if r := recover(); r != nil {
			s.lg.Error().Any("panic", r).Str("source", source).Msg("Quote strategy panicked")
			o = Unavailable(source, fmt.Sprintf("panic: %v", r))
		}
	}()

	prices, err := fn(ctx, instruments)
	if err != nil {
		return Unavailable(source, err.Error())
	}
	return Ok(source, prices)
}

/**********************************************************************************************************************
**************************************************** Strategies ******************************************************
**********************************************************************************************************************/

func (s *Scraper) batchQuotes(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {

	tokens, names := groupTokens(instruments)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no resolved tokens", ErrNoData)
	}

	fetched, err := s.smart.MarketQuote(ctx, ModeLTP, tokens)
	if err != nil {
		return nil, err
	}
	return pricesByToken(fetched, names), nil
}

func (s *Scraper) exchangeQuotes(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {

	tokens, names := groupTokens(instruments)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no resolved tokens", ErrNoData)
	}

	rtn := make(map[string]decimal.NullDecimal)
	var errs []error
	for exchange, list := range tokens {
		fetched, err := s.smart.MarketQuote(ctx, ModeFull, map[string][]string{exchange: list})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", exchange, err))
			continue
		}
		for name, p := range pricesByToken(fetched, names) {
			rtn[name] = p
		}
	}

	if len(rtn) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return rtn, nil
}

func (s *Scraper) searchQuotes(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {

	rtn := make(map[string]decimal.NullDecimal)
	for _, inst := range instruments {
		token, symbol := inst.Token, inst.TradingSymbol
		if token == "" || symbol == "" {
			c, err := s.lookup(ctx, inst)
			if err != nil {
				s.lg.Warn().Err(err).Str("name", inst.Name).Msg("Symbol search failed")
				rtn[inst.Name] = decimal.NullDecimal{}
				continue
			}
			if token == "" {
				token = c.SymbolToken
			}
			if symbol == "" {
				symbol = c.TradingSymbol
			}
		}

		ltp, err := s.smart.LTP(ctx, inst.Exchange, symbol, token)
		if err != nil {
			s.lg.Warn().Err(err).Str("name", inst.Name).Msg("LTP request failed")
			rtn[inst.Name] = decimal.NullDecimal{}
			continue
		}
		rtn[inst.Name] = ltp.Ltp
	}
	return rtn, nil
}

func (s *Scraper) feedQuotes(_ context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {

	if s.feed == nil {
		return nil, errors.New("feed not configured")
	}

	snapshot := s.cell.Snapshot()
	rtn := make(map[string]decimal.NullDecimal, len(instruments))
	for _, inst := range instruments {
		rtn[inst.Name] = snapshot[inst.Name]
	}
	return rtn, nil
}

func (s *Scraper) nseQuotes(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {
	if s.web == nil {
		return nil, errors.New("web sources not configured")
	}
	return s.web.NSEIndices(ctx, instruments)
}

func (s *Scraper) yahooQuotes(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {
	if s.web == nil {
		return nil, errors.New("web sources not configured")
	}
	return s.web.YahooPrices(ctx, instruments)
}

func (s *Scraper) crawlQuotes(ctx context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {

	rtn := make(map[string]decimal.NullDecimal)
	for _, inst := range instruments {
		if inst.CrawlURL == "" {
			continue
		}
		p, err := crawlPrice(ctx, s.client, inst.CrawlURL, inst.CrawlCSS)
		if err != nil {
			s.lg.Warn().Err(err).Str("name", inst.Name).Msg("Crawl failed")
		}
		rtn[inst.Name] = p
	}
	return rtn, nil
}

func (s *Scraper) alpacaQuotes(_ context.Context, instruments []model.Instrument) (map[string]decimal.NullDecimal, error) {

	if s.alpaca == nil {
		return nil, errors.New("alpaca not configured")
	}

	rtn := make(map[string]decimal.NullDecimal)
	for _, inst := range instruments {
		if inst.AlpacaSymbol == "" {
			continue
		}
		p, err := alpacaPrice(s.alpaca, inst.AlpacaSymbol)
		if err != nil {
			s.lg.Warn().Err(err).Str("symbol", inst.AlpacaSymbol).Msg("Alpaca request failed")
		}
		rtn[inst.Name] = p
	}
	return rtn, nil
}

// groupTokens buckets instrument tokens by exchange and maps each
// exchange:token pair back to its instrument name.
func groupTokens(instruments []model.Instrument) (map[string][]string, map[string]string) {

	tokens := make(map[string][]string)
	names := make(map[string]string)
	for _, inst := range instruments {
		if inst.Token == "" {
			continue
		}
		tokens[inst.Exchange] = append(tokens[inst.Exchange], inst.Token)
		names[inst.Exchange+":"+inst.Token] = inst.Name
	}
	return tokens, names
}

func pricesByToken(fetched []FetchedQuote, names map[string]string) map[string]decimal.NullDecimal {

	rtn := make(map[string]decimal.NullDecimal)
	for _, q := range fetched {
		name, ok := names[q.Exchange+":"+q.SymbolToken]
		if !ok {
			continue
		}
		rtn[name] = q.Ltp
	}
	return rtn
}
