package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/forgeplanner/core/internal/ports"
)

// authMiddleware validates bearer tokens
func (s *Server) authMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader || tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := s.deps.Auth.ValidateToken(tokenString)
			if err != nil {
				s.logger.Warnw("Invalid token", "error", err.Error(), "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("claims", claims)
			c.Set("subject", claims.Subject)

			return next(c)
		}
	}
}

// claimsFromContext returns the verified token claims, or nil when auth is off.
func claimsFromContext(c echo.Context) *ports.Claims {
	claims, _ := c.Get("claims").(*ports.Claims)
	return claims
}
