package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/customer-contacts-api/internal/config"
)

// LoginRateLimit returns a fixed-window limiter for the login endpoint,
// keyed by client IP. The counter lives in Redis so the limit holds
// across replicas. When Redis is unavailable or the limiter is disabled
// the middleware is a no-op: availability wins over throttling.
func LoginRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("%s:login:%s", cfg.Prefix, c.RealIP())

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis failure must not block logins.
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if int(n) > cfg.Limit {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many login attempts, try again later"})
			}
			return next(c)
		}
	}
}
