// Package ratelimit throttles API clients with a Redis-backed limiter so
// limits hold across replicas.
package ratelimit

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/Hectotor/Inventory-web-sub000/internal/common"
)

// New builds a limiter allowing perMinute requests per key.
func New(rdb *redis.Client, perMinute int) (*limiter.Limiter, error) {
	store, err := limiterredis.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix: "ratelimit",
	})
	if err != nil {
		return nil, fmt.Errorf("limiter store: %w", err)
	}
	rate := limiter.Rate{Period: time.Minute, Limit: int64(perMinute)}
	return limiter.New(store, rate), nil
}

// Middleware enforces the limit per authenticated user, falling back to the
// remote address for unauthenticated requests. Limiter backend failures let
// the request through; throttling must never take the API down with it.
func Middleware(l *limiter.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil {
				next.ServeHTTP(w, r)
				return
			}

			key := r.RemoteAddr
			if id, ok := common.IdentityFrom(r.Context()); ok {
				key = id.CompanyID + ":" + id.UserID
			}

			lctx, err := l.Get(r.Context(), key)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			headers := w.Header()
			headers.Set("X-RateLimit-Limit", strconv.FormatInt(lctx.Limit, 10))
			headers.Set("X-RateLimit-Remaining", strconv.FormatInt(lctx.Remaining, 10))
			headers.Set("X-RateLimit-Reset", strconv.FormatInt(lctx.Reset, 10))

			if lctx.Reached {
				retryAfter := lctx.Reset - time.Now().Unix()
				if retryAfter < 0 {
					retryAfter = 0
				}
				headers.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
				common.JSONError(w, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
