package scrape

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"indexbot/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTOTPSecret = "JBSWY3DPEHPK3PXP"

func testCreds() model.Credentials {
	return model.Credentials{
		APIKey:     "key",
		ClientID:   "C123",
		Password:   "1234",
		TOTPSecret: testTOTPSecret,
	}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func newTestSmartAPI(url string) *SmartAPI {
	return NewSmartAPI(&SmartAPIConfig{
		APIKey:     "key",
		BaseURL:    url,
		LocalIP:    "127.0.0.1",
		PublicIP:   "127.0.0.1",
		MACAddress: "00:00:00:00:00:00",
		Timeout:    time.Second,
	})
}

func TestSmartAPILogin(t *testing.T) {

	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	access := signedToken(t, exp)
	renewCalls := 0

	mux := http.NewServeMux()
	mux.HandleFunc(loginEndpoint, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("X-PrivateKey"))
		assert.Equal(t, "USER", r.Header.Get("X-UserType"))
		assert.Empty(t, r.Header.Get("Authorization"))

		var req LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "C123", req.ClientCode)
		assert.Len(t, req.TOTP, 6)

		json.NewEncoder(w).Encode(SmartResp[TokenData]{
			Status: true,
			Data:   TokenData{JwtToken: "Bearer " + access, RefreshToken: "refresh", FeedToken: "feed"},
		})
	})
	mux.HandleFunc(renewEndpoint, func(w http.ResponseWriter, r *http.Request) {
		renewCalls++
		assert.Equal(t, "Bearer "+access, r.Header.Get("Authorization"))
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	k := newTestSmartAPI(srv.URL)

	t.Run("Session", func(t *testing.T) {
		s, err := k.Login(context.Background(), testCreds())
		require.NoError(t, err)

		assert.Equal(t, access, s.AccessToken)
		assert.Equal(t, "refresh", s.RefreshToken)
		assert.Equal(t, "feed", s.FeedToken)
		assert.Equal(t, "C123", s.ClientCode)
		assert.True(t, exp.Equal(s.ExpiresAt))
		assert.Same(t, s, k.Session())
	})

	t.Run("Refresh probe failure is ignored", func(t *testing.T) {
		assert.Equal(t, 1, renewCalls)
	})
}

func TestSmartAPILoginRejected(t *testing.T) {

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status":    false,
			"message":   "Invalid totp",
			"errorcode": "AB1050",
			"data":      nil,
		})
	}))
	defer srv.Close()

	k := newTestSmartAPI(srv.URL)

	s, err := k.Login(context.Background(), testCreds())
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrLoginRejected)
	assert.ErrorContains(t, err, "Invalid totp")
	assert.Nil(t, k.Session())
}

func TestSmartAPILoginBadSecret(t *testing.T) {

	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	creds := testCreds()
	creds.TOTPSecret = "not base32 !!"

	_, err := newTestSmartAPI(srv.URL).Login(context.Background(), creds)
	assert.ErrorIs(t, err, ErrOneTimeCode)
	assert.False(t, called)
}

func TestSmartAPIWithoutSession(t *testing.T) {

	k := newTestSmartAPI("http://127.0.0.1:1")

	_, err := k.LTP(context.Background(), "NSE", "NIFTY", "99926000")
	assert.ErrorIs(t, err, ErrNoSession)

	_, err = k.MarketQuote(context.Background(), ModeLTP, map[string][]string{"NSE": {"99926000"}})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSmartAPIQuotes(t *testing.T) {

	mux := http.NewServeMux()
	mux.HandleFunc(marketQuoteEndpoint, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer jwt", r.Header.Get("Authorization"))

		var req MarketQuoteRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, ModeLTP, req.Mode)
		assert.Equal(t, []string{"99926000", "99926009"}, req.ExchangeTokens["NSE"])

		w.Write([]byte(`{"status":true,"message":"SUCCESS","errorcode":"","data":{"fetched":[
			{"exchange":"NSE","tradingSymbol":"Nifty 50","symbolToken":"99926000","ltp":22147.9},
			{"exchange":"NSE","tradingSymbol":"Nifty Bank","symbolToken":"99926009","ltp":47000.55}
		],"unfetched":[]}}`))
	})
	mux.HandleFunc(searchEndpoint, func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "SENSEX", req.SearchScrip)

		w.Write([]byte(`{"status":true,"data":[{"exchange":"BSE","tradingsymbol":"SENSEX","symboltoken":"99919000"}]}`))
	})
	mux.HandleFunc(ltpEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":true,"data":{"exchange":"BSE","tradingsymbol":"SENSEX","symboltoken":"99919000","ltp":"73000.10"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	k := newTestSmartAPI(srv.URL)
	k.setSession(&model.Session{AccessToken: "jwt"})

	t.Run("MarketQuote", func(t *testing.T) {
		fetched, err := k.MarketQuote(context.Background(), ModeLTP, map[string][]string{"NSE": {"99926000", "99926009"}})
		require.NoError(t, err)
		require.Len(t, fetched, 2)
		assert.Equal(t, "22147.9", fetched[0].Ltp.Decimal.String())
	})

	t.Run("SearchScrip", func(t *testing.T) {
		c, err := k.SearchScrip(context.Background(), "BSE", "SENSEX")
		require.NoError(t, err)
		require.Len(t, c, 1)
		assert.Equal(t, "99919000", c[0].SymbolToken)
	})

	t.Run("LTP", func(t *testing.T) {
		d, err := k.LTP(context.Background(), "BSE", "SENSEX", "99919000")
		require.NoError(t, err)
		assert.True(t, d.Ltp.Valid)
		assert.Equal(t, "73000.1", d.Ltp.Decimal.String())
	})
}

func TestTokenExpiry(t *testing.T) {

	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.True(t, exp.Equal(tokenExpiry(signedToken(t, exp))))
	assert.True(t, tokenExpiry("garbage").IsZero())
}
