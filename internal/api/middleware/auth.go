package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkpost/blog-api/internal/core/domain"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// ContextUserID is the echo.Context key holding the authenticated user id.
const ContextUserID = "user_id"

// Auth validates the bearer access token and injects the user id into context.
// It never touches the refresh token store.
func Auth(verifier ports.AccessTokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthorized(domain.ErrMissingToken)
			}

			claims, err := verifier.VerifyAccess(token)
			if err != nil {
				return unauthorized(domain.ErrInvalidToken)
			}

			c.Set(ContextUserID, claims.UserID)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, err.Error()).SetInternal(err)
}
