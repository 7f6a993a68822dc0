package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkpost/blog-api/internal/api/metrics"
	"github.com/inkpost/blog-api/internal/core/ports"
)

// RateLimitConfig configures one limiter scope.
type RateLimitConfig struct {
	// Scope names the limiter in metrics and backend keys, e.g. "global" or "auth".
	Scope   string
	Limiter ports.RateLimiter
	// Message is returned with the 429 response.
	Message string
}

// RateLimit throttles requests per client IP. When the limiter backend fails
// the request is let through and the failure is logged.
func RateLimit(cfg RateLimitConfig, log zerolog.Logger) echo.MiddlewareFunc {
	if cfg.Message == "" {
		cfg.Message = "too many requests, please try again later"
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := cfg.Scope + ":" + c.RealIP()

			res, err := cfg.Limiter.Allow(c.Request().Context(), key)
			if err != nil {
				metrics.RateLimitErrorsTotal.WithLabelValues(cfg.Scope).Inc()
				log.Warn().Err(err).Str("scope", cfg.Scope).Msg("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set("RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(res.Remaining))
			h.Set("RateLimit-Reset", strconv.Itoa(secondsUntil(res.ResetAt)))

			if !res.Allowed {
				metrics.RateLimitRejectedTotal.WithLabelValues(cfg.Scope).Inc()
				if res.RetryAfter > 0 {
					h.Set(echo.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
				}
				return echo.NewHTTPError(http.StatusTooManyRequests, cfg.Message)
			}
			return next(c)
		}
	}
}

func secondsUntil(t time.Time) int {
	d := time.Until(t)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
