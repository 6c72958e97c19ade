// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/StudioJuno/interactive-quote-magic/internal/config"
	"github.com/StudioJuno/interactive-quote-magic/internal/handler"
	"github.com/StudioJuno/interactive-quote-magic/internal/middleware"
)

// RegisterRoutes registers routes that do not require a session token.
// Currently the health check and the public price table; the latter is
// identical for every caller and sits behind the Redis response cache.
func RegisterRoutes(e *echo.Echo, w *handler.WizardHandler, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	cacheCfg := config.LoadCacheConfig()
	e.GET("/v1/pricing", w.PriceTable, middleware.NewRedisCache(cacheCfg, rdb))
}

// RegisterWizard registers the wizard endpoints. Session creation is open
// (rate-limited by IP); everything else requires the Bearer session token
// issued at creation, so a caller can only ever touch their own session.
func RegisterWizard(e *echo.Echo, w *handler.WizardHandler, sessionSecret string, rdb *redis.Client) {
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e.POST("/v1/quote-sessions", w.CreateSession, limiter)

	s := e.Group("/v1/quote-sessions/current")
	s.Use(middleware.SessionAuth(sessionSecret))
	s.Use(limiter)
	s.GET("", w.GetCurrent)
	s.GET("/price", w.Price)
	s.GET("/receipt", w.Receipt)
	s.POST("/answers", w.Answers)
	s.POST("/advance", w.Advance)
	s.POST("/retreat", w.Retreat)
	s.POST("/jump", w.Jump)
	s.DELETE("", w.Abandon)
}
