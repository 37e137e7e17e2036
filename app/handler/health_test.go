package handler

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"indexbot/app/middleware"
	m "indexbot/internal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/kr/pretty"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type StatusRetrieverMock struct {
	st m.BotStatus
}

func (mock StatusRetrieverMock) Status() m.BotStatus {
	return mock.st
}

type FeedReporterMock struct {
	available bool
	connected bool
	prices    map[string]decimal.NullDecimal
}

func (mock FeedReporterMock) FeedAvailable() bool { return mock.available }
func (mock FeedReporterMock) FeedConnected() bool { return mock.connected }
func (mock FeedReporterMock) LatestPrices() map[string]decimal.NullDecimal {
	return mock.prices
}

func getHealth(t *testing.T, app *fiber.App) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	body := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &body))
	t.Logf("%# v", pretty.Formatter(body))
	return resp.StatusCode, body
}

func TestHealthHandler(t *testing.T) {

	t.Run("Polling with feed", func(t *testing.T) {
		ok := true
		app := fiber.New()
		middleware.SetupMiddleware(app)
		NewHealthHandler(
			StatusRetrieverMock{st: m.BotStatus{
				Alive:            true,
				State:            "POLLING",
				PollInterval:     60 * time.Second,
				Source:           "feed",
				LastTick:         time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
				LastSendOk:       &ok,
				SessionExpiresAt: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
			}},
			FeedReporterMock{
				available: true,
				connected: true,
				prices: map[string]decimal.NullDecimal{
					"NIFTY 50":   decimal.NewNullDecimal(decimal.RequireFromString("22147.9")),
					"NIFTY BANK": {},
				},
			},
			true,
		).InitRoute(app)

		status, body := getHealth(t, app)

		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["bot_thread_alive"])
		assert.EqualValues(t, 60, body["poll_interval"])
		assert.Equal(t, true, body["smartapi_sdk_available"])
		assert.Equal(t, true, body["websocket_available"])
		assert.Equal(t, true, body["websocket_connected"])
		assert.Equal(t, "feed", body["data_source"])
		assert.Equal(t, "POLLING", body["state"])
		assert.Equal(t, true, body["last_send_ok"])
		assert.Equal(t, "2026-10-15T09:30:00Z", body["last_tick"])

		prices := body["latest_prices"].(map[string]any)
		assert.InDelta(t, 22147.9, prices["NIFTY 50"], 0.0001)
		assert.Contains(t, prices, "NIFTY BANK")
		assert.Nil(t, prices["NIFTY BANK"])
	})

	t.Run("Stopped before first tick", func(t *testing.T) {
		app := fiber.New()
		NewHealthHandler(
			StatusRetrieverMock{st: m.BotStatus{State: "STOPPED", PollInterval: 30 * time.Second}},
			nil,
			false,
		).InitRoute(app)

		status, body := getHealth(t, app)

		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["bot_thread_alive"])
		assert.Equal(t, false, body["smartapi_sdk_available"])
		assert.Equal(t, false, body["websocket_available"])
		assert.Nil(t, body["last_tick"])
		assert.Nil(t, body["last_send_ok"])
		assert.Nil(t, body["session_expires_at"])
		assert.Empty(t, body["latest_prices"])
	})
}
