package bootstrap

import (
	"fenix-certificates/internal/config"
	"fenix-certificates/internal/interfaces/router"
	"fenix-certificates/internal/pkg/logging"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for Vercel serverless (api handler imports this package, not internal).
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, false)
	app, _, err := router.CreateApp(cfg)
	return app, err
}
