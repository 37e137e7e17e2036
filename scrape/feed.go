package scrape

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"indexbot/internal/logger"
	"indexbot/internal/model"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	defaultReconnectDelay = 5 * time.Second
	defaultPingInterval   = 10 * time.Second
)

var (
	feedTokenKeys = []string{"token", "tk", "symbolToken", "symboltoken"}
	feedPriceKeys = []string{"ltp", "last_traded_price", "lp"}
)

// Feed keeps a SmartStream connection open and writes every decodable tick
// into a PriceCell. Only text/JSON frames are decoded.
type Feed struct {
	url            string
	apiKey         string
	dialer         *websocket.Dialer
	cell           *PriceCell
	reconnectDelay time.Duration
	pingInterval   time.Duration
	lg             zerolog.Logger

	names map[string]string // token -> instrument name
}

func NewFeed(url string, apiKey string, cell *PriceCell) *Feed {
	return &Feed{
		url:            url,
		apiKey:         apiKey,
		dialer:         websocket.DefaultDialer,
		cell:           cell,
		reconnectDelay: defaultReconnectDelay,
		pingInterval:   defaultPingInterval,
		lg:             logger.New("Feed"),
		names:          map[string]string{},
	}
}

// Run connects, subscribes and receives until ctx is cancelled, reconnecting
// after a fixed delay whenever the connection drops.
func (f *Feed) Run(ctx context.Context, session *model.Session, instruments []model.Instrument) error {

	if session == nil {
		return ErrNoSession
	}
	if session.FeedToken == "" {
		return ErrNoFeedToken
	}

	req := f.subscription(instruments)
	if len(req.Params.TokenList) == 0 {
		return fmt.Errorf("%w: no instrument has a streamable token", ErrNoData)
	}

	header := http.Header{}
	header.Set("Authorization", session.AccessToken)
	header.Set("x-api-key", f.apiKey)
	header.Set("x-client-code", session.ClientCode)
	header.Set("x-feed-token", session.FeedToken)

	for {
		err := f.connectOnce(ctx, header, req)
		if ctx.Err() != nil {
			f.lg.Info().Msg("Feed stopped")
			return nil
		}
		f.lg.Warn().Err(err).Dur("retryIn", f.reconnectDelay).Msg("Feed connection lost")

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(f.reconnectDelay):
		}
	}
}

func (f *Feed) subscription(instruments []model.Instrument) StreamSubscribeRequest {

	byType := map[int][]string{}
	order := make([]int, 0)
	for _, inst := range instruments {
		et, ok := exchangeTypes[inst.Exchange]
		if !ok || inst.Token == "" {
			continue
		}
		if _, seen := byType[et]; !seen {
			order = append(order, et)
		}
		byType[et] = append(byType[et], inst.Token)
		f.names[inst.Token] = inst.Name
	}

	list := make([]StreamTokenList, 0, len(order))
	for _, et := range order {
		list = append(list, StreamTokenList{ExchangeType: et, Tokens: byType[et]})
	}

	return StreamSubscribeRequest{
		CorrelationID: strings.ReplaceAll(uuid.NewString(), "-", "")[:10],
		Action:        subscribeAction,
		Params: StreamSubscribeParam{
			Mode:      ltpMode,
			TokenList: list,
		},
	}
}

func (f *Feed) connectOnce(ctx context.Context, header http.Header, req StreamSubscribeRequest) error {

	f.lg.Debug().Str("url", f.url).Msg("Connecting to feed")

	conn, _, err := f.dialer.DialContext(ctx, f.url, header)
	if err != nil {
		return fmt.Errorf("failed to connect to feed: %w", err)
	}
	defer conn.Close()

	f.cell.SetConnected(true)
	defer f.cell.SetConnected(false)
	f.lg.Info().Msg("Feed connected")

	var wmu sync.Mutex
	write := func(mt int, data []byte) error {
		wmu.Lock()
		defer wmu.Unlock()
		return conn.WriteMessage(mt, data)
	}

	wmu.Lock()
	err = conn.WriteJSON(req)
	wmu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to send subscription: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go f.keepPing(done, write)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("error reading feed message: %w", err)
		}
		f.handle(mt, msg)
	}
}

func (f *Feed) keepPing(done <-chan struct{}, write func(int, []byte) error) {

	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := write(websocket.TextMessage, []byte("ping")); err != nil {
				f.lg.Debug().Err(err).Msg("Heartbeat failed")
				return
			}
		}
	}
}

// handle applies one frame to the cell and reports whether anything changed.
func (f *Feed) handle(mt int, msg []byte) bool {

	if mt == websocket.BinaryMessage {
		f.lg.Debug().Int("size", len(msg)).Msg("Dropping binary frame")
		return false
	}

	text := strings.TrimSpace(string(msg))
	if text == "pong" || !gjson.Valid(text) {
		return false
	}

	root := gjson.Parse(text)
	if !root.IsArray() {
		return f.apply(root)
	}

	updated := false
	root.ForEach(func(_, v gjson.Result) bool {
		if f.apply(v) {
			updated = true
		}
		return true
	})
	return updated
}

func (f *Feed) apply(tick gjson.Result) bool {

	token := firstOf(tick, feedTokenKeys)
	price := firstOf(tick, feedPriceKeys)
	if !token.Exists() || !price.Exists() {
		return false
	}

	name, ok := f.names[token.String()]
	if !ok {
		return false
	}

	d, err := decimal.NewFromString(price.String())
	if err != nil {
		f.lg.Debug().Str("price", price.Raw).Msg("Unparsable feed price")
		return false
	}

	f.cell.Set(name, decimal.NewNullDecimal(d))
	return true
}

func firstOf(r gjson.Result, keys []string) gjson.Result {
	for _, k := range keys {
		if v := r.Get(k); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}
