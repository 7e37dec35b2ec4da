package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tendant/simple-account/pkg/errors"
	"github.com/tendant/simple-account/pkg/response"
)

// Config holds login throttle settings
type Config struct {
	Enabled   bool
	Capacity  int           // attempts allowed in a burst
	PerMinute float64       // attempts regained per minute
	BucketTTL time.Duration // how long idle client buckets are kept

	// TrustProxyHeaders keys clients by X-Forwarded-For / X-Real-IP. Only enable it
	// behind a reverse proxy that overwrites those headers.
	TrustProxyHeaders bool
}

// DefaultConfig allows a burst of 5 attempts regained at 5 per minute
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Capacity:  5,
		PerMinute: 5,
		BucketTTL: 10 * time.Minute,
	}
}

// Middleware throttles requests per client IP
type Middleware struct {
	limiter    *RateLimiter
	trustProxy bool
}

// NewMiddleware creates a throttle from config. It returns nil when throttling is disabled.
func NewMiddleware(config Config, opts ...Option) *Middleware {
	if !config.Enabled {
		return nil
	}
	return &Middleware{
		limiter:    NewRateLimiter(config.Capacity, config.PerMinute/60.0, config.BucketTTL, opts...),
		trustProxy: config.TrustProxyHeaders,
	}
}

// Handler rejects requests over the limit with 429 "Too Many Attempts." and a Retry-After header.
// A nil Middleware passes every request through.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r, m.trustProxy)
		allowed, wait := m.limiter.Allow(r.Method + " " + r.URL.Path + "|" + ip)
		if !allowed {
			slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "method", r.Method)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(wait)))
			response.Error(w, r, errors.RateLimitExceeded())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Stop releases the limiter's cleanup goroutine
func (m *Middleware) Stop() {
	if m != nil {
		m.limiter.Stop()
	}
}

func retryAfterSeconds(wait time.Duration) int {
	if wait > time.Hour {
		return 3600
	}
	return int(math.Max(1, math.Ceil(wait.Seconds())))
}

// getClientIP extracts the client IP address from the request. Forwarding headers
// are client-controlled, so they are only read when trustProxy is set.
func getClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			return strings.TrimSpace(ips[0])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
