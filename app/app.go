package app

import (
	"context"
	"fmt"
	"time"

	"indexbot/app/handler"
	"indexbot/app/middleware"
	"indexbot/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type Server struct {
	app  *fiber.App
	port int
}

func NewServer(port int, st handler.StatusRetriever, fr handler.FeedReporter, sdkAvailable bool) *Server {

	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	middleware.SetupMiddleware(app)

	handler.NewHealthHandler(st, fr, sdkAvailable).InitRoute(app)

	return &Server{app: app, port: port}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {

	lg := logger.New("App")

	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			lg.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	lg.Info().Int("port", s.port).Msg("Health server listening")
	return s.app.Listen(fmt.Sprintf(":%d", s.port))
}
