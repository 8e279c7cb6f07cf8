package server

import (
	"fmt"
	"net/http"

	"support-bridge/internal/core/apperr"
	"support-bridge/internal/core/config"
	"support-bridge/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "support-bridge/docs/swagger"
)

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
}

// New creates a new Server instance with configured middleware. Every error
// returned from a handler, including panics converted by the recover
// middleware, is rendered as the uniform {success:false, error} envelope;
// untyped errors surface as a generic internal-error message only.
func New(cfg *config.AppConfig) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "support-bridge",
		ErrorHandler:          renderError,
	})

	app.Use(recover.New())

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	return &Server{
		App: app,
		cfg: cfg,
	}
}

// MountFallback registers the JSON 404 handler. Call after all routes.
func (s *Server) MountFallback() {
	s.App.Use(func(c *fiber.Ctx) error {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Endpoint not found",
		})
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}

// renderError is the response boundary for the error taxonomy.
func renderError(c *fiber.Ctx, err error) error {
	env := apperr.From(err)

	if env.Status >= http.StatusInternalServerError {
		logger.Get().Error("Request handling failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("kind", string(env.Kind)),
			zap.Error(err),
		)
	}

	return c.Status(env.Status).JSON(fiber.Map{
		"success": false,
		"error":   env.Message,
	})
}
