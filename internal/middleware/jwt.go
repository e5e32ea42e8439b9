package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	authpkg "github.com/octobees/leads-generator/collector/internal/auth"
)

// RequireToken rejects requests without a valid bearer token and records the
// operator and role on the context.
func RequireToken(manager *authpkg.JWTManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			scheme, token, found := strings.Cut(c.Request().Header.Get(echo.HeaderAuthorization), " ")
			if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="collector"`)
				return deny(c, http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := manager.ParseToken(strings.TrimSpace(token))
			if err != nil {
				return deny(c, http.StatusUnauthorized, "invalid token")
			}

			c.Set(ContextKeyOperator, claims.Email)
			c.Set(ContextKeyRole, claims.Role)
			return next(c)
		}
	}
}
