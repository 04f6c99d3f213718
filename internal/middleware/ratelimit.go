package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// AIRateLimitWindow is the fixed window for completion-backed endpoints
	AIRateLimitWindow = 60 * time.Second
	// AIRateLimitMaxRequests caps completion calls per window per IP. Model
	// calls are slow and billed, so the cap is deliberately low.
	AIRateLimitMaxRequests = 5
	// AIRateLimitKeyPrefix is the Redis key prefix for the counters
	AIRateLimitKeyPrefix = "ai_ratelimit:"
)

// AIRateLimit limits how often one IP can hit the AI-backed endpoints. Fails
// open when Redis is unavailable.
func AIRateLimit(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.Background()
			key := AIRateLimitKeyPrefix + clientIP(r)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(ctx, key, AIRateLimitWindow)
			}

			if count > AIRateLimitMaxRequests {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"Too many AI requests. Please wait a minute and try again."}`))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(AIRateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(AIRateLimitMaxRequests-count, 10))

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
