// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/customer-contacts-api/internal/config"
	"github.com/iliyamo/customer-contacts-api/internal/handler"
	"github.com/iliyamo/customer-contacts-api/internal/middleware"
)

// Register wires every route. Exactly two endpoints stay reachable
// without a session token: user creation (signup) and login. Everything
// else sits behind the JWT gate. The redis client may be nil, in which
// case the cache and the login rate limiter are pass-through.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	auth *handler.AuthHandler, users *handler.UserHandler,
	customers *handler.CustomerHandler, contacts *handler.ContactHandler) {

	e.GET("/healthz", handler.Health)

	// Public: signup and login. Login is additionally throttled per IP.
	e.POST("/users", users.Create)
	e.POST("/login", auth.Login, middleware.LoginRateLimit(config.LoadRateLimitConfig(), rdb))

	// Everything below requires a valid session token.
	g := e.Group("")
	g.Use(middleware.JWTAuth(cfg.JWTSecret))
	g.Use(middleware.ResponseCache(config.LoadCacheConfig(), rdb))

	g.GET("/customers", customers.Index)
	g.GET("/customers/:id", customers.Show)
	g.POST("/customers", customers.Create)
	g.PUT("/customers/:id", customers.Update)
	g.DELETE("/customers/:id", customers.Destroy)

	g.GET("/customers/:customerId/contacts", contacts.Index)
	g.GET("/customers/:customerId/contacts/:id", contacts.Show)
	g.POST("/customers/:customerId/contacts", contacts.Create)
	g.PUT("/customers/:customerId/contacts/:id", contacts.Update)
	g.DELETE("/customers/:customerId/contacts/:id", contacts.Destroy)

	g.GET("/users", users.Index)
	g.GET("/users/:id", users.Show)
	g.PUT("/users/:id", users.Update)
	g.DELETE("/users/:id", users.Destroy)
}
