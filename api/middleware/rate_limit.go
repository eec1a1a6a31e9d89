package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rootline/rootline-backend/api/responses"
	"github.com/rootline/rootline-backend/pkg/config"
	pkgerrors "github.com/rootline/rootline-backend/pkg/errors"
	"github.com/rootline/rootline-backend/pkg/logger"
)

type fixedWindowStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, time.Duration, error)
}

// RateLimit applies a fixed-window limit per authenticated identity across
// the API surface. Counters live in Redis so the limit holds across
// instances. Unauthenticated callers are bucketed by client IP.
func RateLimit(cfg config.RateLimitConfig, store fixedWindowStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled || cfg.Limit <= 0 || cfg.Window <= 0 || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			scope := "api:" + UserIDFromContext(ctx)
			if UserIDFromContext(ctx) == "" {
				scope = "api:ip:" + clientIP(r)
			}

			allowed, count, retryAfter, err := store.FixedWindowAllow(ctx, scope, int64(cfg.Limit), cfg.Window)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"scope":          scope,
						"attempts":       count,
						"limit":          cfg.Limit,
						"window_seconds": int(cfg.Window.Seconds()),
					})
					logg.Warn(logCtx, "api.rate_limit.blocked")
				}
				w.Header().Set("Retry-After", retryAfterSeconds(retryAfter, cfg.Window))
				responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds renders the window remainder as whole seconds for the
// Retry-After header, falling back to the full window when the store could
// not report a remainder.
func retryAfterSeconds(remaining, window time.Duration) string {
	d := remaining
	if d <= 0 {
		d = window
	}
	secs := int64((d + time.Second - 1) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.FormatInt(secs, 10)
}
