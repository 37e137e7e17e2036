package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	s            StatusRetriever
	f            FeedReporter
	sdkAvailable bool
}

func NewHealthHandler(s StatusRetriever, f FeedReporter, sdkAvailable bool) *HealthHandler {
	return &HealthHandler{
		s:            s,
		f:            f,
		sdkAvailable: sdkAvailable,
	}
}

func (h *HealthHandler) InitRoute(app *fiber.App) {
	app.Get("/", h.Health)
}

// Health always answers 200; a dead or stopped loop shows up in the body.
func (h *HealthHandler) Health(c *fiber.Ctx) error {

	st := h.s.Status()

	resp := HealthResp{
		BotThreadAlive:       st.Alive,
		PollInterval:         int(st.PollInterval / time.Second),
		SmartAPISDKAvailable: h.sdkAvailable,
		LatestPrices:         map[string]*float64{},
		DataSource:           st.Source,
		State:                st.State,
		LastTick:             timePtr(st.LastTick),
		LastSendOk:           st.LastSendOk,
		SessionExpiresAt:     timePtr(st.SessionExpiresAt),
	}

	if h.f != nil {
		resp.WebsocketAvailable = h.f.FeedAvailable()
		resp.WebsocketConnected = h.f.FeedConnected()
		for name, p := range h.f.LatestPrices() {
			if !p.Valid {
				resp.LatestPrices[name] = nil
				continue
			}
			v := p.Decimal.InexactFloat64()
			resp.LatestPrices[name] = &v
		}
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
