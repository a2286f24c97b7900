package web

import (
	"net"
	"net/http"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/moodlist/moodlist/internal/httputil"
)

// RequestLogger logs one structured line per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

const (
	rateLimiterCleanupInterval = time.Minute
	rateLimiterEntryTTL        = 5 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a per-IP token bucket to the routes it wraps.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu          sync.Mutex
	visitors    map[string]*ipLimiter
	lastCleanup time.Time
}

// NewRateLimiter creates a limiter allowing rps requests per second with the
// given burst, per client IP.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:       rate.Limit(rps),
		burst:       burst,
		visitors:    make(map[string]*ipLimiter),
		lastCleanup: time.Now(),
	}
}

// Handler is the middleware entry point.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
				"detail": "Too many requests. Please try again later.",
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanup()

	v, ok := rl.visitors[ip]
	if !ok {
		v = &ipLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = time.Now()

	return v.limiter.Allow()
}

// cleanup drops idle entries so the visitor map stays bounded. Caller holds
// the lock.
func (rl *RateLimiter) cleanup() {
	now := time.Now()
	if now.Sub(rl.lastCleanup) < rateLimiterCleanupInterval {
		return
	}
	rl.lastCleanup = now

	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > rateLimiterEntryTTL {
			delete(rl.visitors, ip)
		}
	}
}

// clientIP strips the port from RemoteAddr. RealIP middleware has already
// substituted the forwarded address when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
