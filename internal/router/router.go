package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-showtime-planner/internal/config"
	"github.com/iliyamo/cinema-showtime-planner/internal/handler"
	"github.com/iliyamo/cinema-showtime-planner/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register and login
// live under /v1/auth and require no token; /v1/me is protected.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(jwtSecret))
	me.GET("/me", a.Me)
}

// RegisterSchedule registers the planning endpoints.  The read-only
// listings are public and sit behind the Redis response cache; the planning
// and submission endpoints require an authenticated PLANNER or OWNER and
// are rate limited per operator.
func RegisterSchedule(e *echo.Echo, h *handler.ScheduleHandler, jwtSecret string, rdb *redis.Client) {
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	pub := e.Group("/v1")
	pub.GET("/schedule", h.DaySchedule, middleware.NewScheduleCache(cacheCfg, rdb))
	pub.GET("/cinemas/:id/rooms", h.ListRooms)

	plan := e.Group("/v1")
	plan.Use(middleware.JWTAuth(jwtSecret))
	plan.Use(middleware.RequireRole("PLANNER", "OWNER"))
	plan.Use(middleware.NewTokenBucket(rlCfg, rdb))
	plan.POST("/schedule/batch/preview", h.BatchPreview)
	plan.POST("/schedule/batch", h.BatchCreate)
	plan.POST("/showtimes/:id/preview", h.EditPreview)
	plan.PUT("/showtimes/:id", h.UpdateShowtime)
}
