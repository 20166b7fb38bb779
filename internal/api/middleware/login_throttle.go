package middleware

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inventory-system/inventory-api/internal/api/metrics"
	"github.com/inventory-system/inventory-api/internal/core/domain"
)

// LoginLimiter tracks failed logins per client.
type LoginLimiter interface {
	Allowed(ctx context.Context, client string) (bool, time.Duration, error)
	RecordFailure(ctx context.Context, client string) (bool, error)
	Reset(ctx context.Context, client string) error
}

const msgTooManyAttempts = "Too many failed login attempts, please try again later"

// LoginThrottle blocks clients that exceeded the failed login limit. A 401
// from the wrapped handler counts as a failure and a 2xx clears the counter.
// Limiter errors are logged and never block a login.
func LoginThrottle(limiter LoginLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			client := c.RealIP()

			allowed, retryAfter, err := limiter.Allowed(ctx, client)
			if err != nil {
				log.Warn().Err(err).Str("client", client).Msg("login limiter unavailable")
				return next(c)
			}
			if !allowed {
				metrics.LoginAttemptsTotal.WithLabelValues("throttled").Inc()
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				return echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyAttempts)
			}

			err = next(c)

			switch status := responseStatus(c, err); {
			case status == http.StatusUnauthorized:
				blocked, ferr := limiter.RecordFailure(ctx, client)
				if ferr != nil {
					log.Warn().Err(ferr).Str("client", client).Msg("record login failure")
				} else if blocked {
					log.Warn().Str("client", client).Msg("client blocked after repeated login failures")
				}
			case status >= 200 && status < 300:
				if rerr := limiter.Reset(ctx, client); rerr != nil {
					log.Warn().Err(rerr).Str("client", client).Msg("reset login limiter")
				}
			}
			return err
		}
	}
}

func responseStatus(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
