package router

import (
	"context"

	"fenix-certificates/internal/app"
	"fenix-certificates/internal/certificates"
	"fenix-certificates/internal/config"
	"fenix-certificates/internal/crm"
	"fenix-certificates/internal/health"
	"fenix-certificates/internal/managers"
	"fenix-certificates/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// CreateApp builds dependencies from cfg and registers every route.
func CreateApp(cfg *config.Config) (*fiber.App, *app.Deps, error) {
	deps, err := app.Build(context.Background(), cfg)
	if err != nil {
		return nil, nil, err
	}
	return Mount(deps), deps, nil
}

// Mount builds the Fiber app over already built dependencies.
func Mount(deps *app.Deps) *fiber.App {
	cfg := deps.Config
	a := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	a.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	a.Use(middleware.Tracing())
	if deps.Rdb != nil {
		a.Use(middleware.HealthMarker(deps.Rdb))
	}
	a.Use(middleware.RouteLogger())

	healthHandlers := &health.Handlers{Checker: deps.Checker(), HealthAdminKey: cfg.HealthAdminKey}
	a.Get("/health/json", healthHandlers.JSON)
	a.Get("/health/errors", healthHandlers.Errors)
	a.Get("/health/reset", healthHandlers.Reset)

	api := a.Group("/api", middleware.RequireAdminKey(cfg.AdminKeyHash))

	crmHandlers := &crm.Handlers{Gateway: deps.Gateway}
	api.Post("/certificates", crmHandlers.Issue)
	api.Get("/certificates", crmHandlers.Verify)
	api.Patch("/certificates", crmHandlers.Redeem)
	api.All("/certificates", crm.MethodNotAllowed)

	managerHandlers := &managers.Handlers{Directory: deps.Directory}
	api.Get("/managers", managerHandlers.List)
	api.All("/managers", crm.MethodNotAllowed)

	certHandlers := &certificates.Handlers{Service: deps.Certificates}
	v1 := api.Group("/v1")
	v1.Get("/presets", certHandlers.Presets)
	v1.Get("/certificates", certHandlers.List)
	v1.Post("/certificates", certHandlers.Issue)
	v1.Delete("/certificates", certHandlers.Clear)
	v1.Get("/certificates/code", certHandlers.PreviewCode)
	v1.Get("/certificates/:id", certHandlers.ViewOne)
	v1.Get("/certificates/:id/crm-text", certHandlers.CRMText)

	return a
}
