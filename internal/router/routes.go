package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/leads-generator/collector/internal/auth"
	"github.com/octobees/leads-generator/collector/internal/config"
	"github.com/octobees/leads-generator/collector/internal/handler"
	middlewarepkg "github.com/octobees/leads-generator/collector/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Auth      *handler.AuthHandler
	Companies *handler.CompaniesHandler
	Collect   *handler.CollectHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/auth/login", handlers.Auth.Login)

	companies := e.Group("/companies")
	companies.GET("", handlers.Companies.List)
	companies.GET("/facets", handlers.Companies.Facets)
	companies.GET("/summary", handlers.Companies.Summary)

	if handlers.Collect == nil {
		return
	}

	secured := e.Group("")
	secured.Use(middlewarepkg.RequireToken(jwtManager))

	secured.POST("/collect", handlers.Collect.Trigger,
		middlewarepkg.RequireRole(auth.RoleAdmin),
		middlewarepkg.RouteRateLimiter(http.MethodPost, "/collect", cfg.RateLimitCollect))
	secured.GET("/collect/runs/:id", handlers.Collect.Status)
}
