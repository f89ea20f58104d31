package auth

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"medstore/internal/errors"
)

// ContextKey is the echo context key holding the authenticated *Claims.
const ContextKey = "user"

// Middleware authenticates requests carrying an Authorization header. A missing
// header is answered with 401; a token that does not verify (bad signature,
// expired, revoked, malformed) with 403. On success the decoded claims are
// stored under ContextKey. The "Bearer " prefix is optional.
func Middleware(jwtService *JWTService, store RevocationStore) echo.MiddlewareFunc {
	verify := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization,
		ContextKey:  ContextKey,
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
			if err != nil {
				return nil, err
			}
			if store != nil && store.IsRevoked(c.Request().Context(), claims.ID) {
				return nil, errors.ErrInvalidToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			c.Logger().Debugf("reject token: %v", err)
			return echo.NewHTTPError(http.StatusForbidden, errors.ErrorResponse{
				Message: errors.ErrInvalidToken.Error(),
				Code:    "INVALID_TOKEN",
			})
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		guarded := verify(next)
		return func(c echo.Context) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Message: errors.ErrUnauthenticated.Error(),
					Code:    "UNAUTHENTICATED",
				})
			}
			return guarded(c)
		}
	}
}

// ClaimsFromContext returns the claims stored by Middleware.
func ClaimsFromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok
}
