package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/customer-contacts-api/internal/utils"
)

// JWTAuth returns an Echo middleware that validates a Bearer session
// token and injects the authenticated user id into the request context.
// The provided secret must match the one used when issuing tokens.
// Requests without an Authorization header (or with a non-Bearer scheme)
// never reach the handler; neither do requests whose token fails
// verification. Handlers behind this gate read the id via
// c.Get("user_id").
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			uid, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set("user_id", uid)
			return next(c)
		}
	}
}
