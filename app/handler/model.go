package handler

import "time"

type HealthResp struct {
	BotThreadAlive       bool                `json:"bot_thread_alive"`
	PollInterval         int                 `json:"poll_interval"`
	SmartAPISDKAvailable bool                `json:"smartapi_sdk_available"`
	WebsocketAvailable   bool                `json:"websocket_available"`
	WebsocketConnected   bool                `json:"websocket_connected"`
	LatestPrices         map[string]*float64 `json:"latest_prices"`
	DataSource           string              `json:"data_source"`
	State                string              `json:"state"`
	LastTick             *time.Time          `json:"last_tick"`
	LastSendOk           *bool               `json:"last_send_ok"`
	SessionExpiresAt     *time.Time          `json:"session_expires_at"`
}
