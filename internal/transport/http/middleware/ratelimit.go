package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"paysplit/internal/transport/http/api"
)

type RateLimitKeyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimiter)

type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	idle    time.Duration
	keyFn   RateLimitKeyFunc
	proxies []netip.Prefix
	now     func() time.Time
	clients *cache.Cache
}

func WithKeyFunc(fn RateLimitKeyFunc) RateLimitOption {
	return func(rl *rateLimiter) {
		if fn != nil {
			rl.keyFn = fn
		}
	}
}

// WithTrustedProxies lists the peers whose X-Forwarded-For header is honoured.
// Requests from any other peer are keyed by their own address.
func WithTrustedProxies(prefixes []netip.Prefix) RateLimitOption {
	return func(rl *rateLimiter) {
		rl.proxies = prefixes
	}
}

// WithIdleTTL sets how long an unused client limiter is kept.
func WithIdleTTL(d time.Duration) RateLimitOption {
	return func(rl *rateLimiter) {
		if d > 0 {
			rl.idle = d
		}
	}
}

// RateLimit allows limit requests per window for each client key, refilling
// steadily rather than resetting at window boundaries. A limiter idle for a
// full window has refilled completely, so it is evicted after that long.
func RateLimit(limit int, window time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := &rateLimiter{
		limit:  max(limit, 1),
		window: window,
		idle:   max(window, time.Minute),
		now:    time.Now,
	}
	rl.keyFn = rl.clientOrIPKey
	for _, opt := range opts {
		opt(rl)
	}
	rl.clients = cache.New(rl.idle, rl.idle)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *rateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if cached, ok := rl.clients.Get(key); ok {
		limiter := cached.(*rate.Limiter)
		rl.clients.SetDefault(key, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(rate.Every(rl.window/time.Duration(rl.limit)), rl.limit)
	rl.clients.SetDefault(key, limiter)
	return limiter
}

func (rl *rateLimiter) enforce(w http.ResponseWriter, r *http.Request) bool {
	key := rl.keyFn(r)
	now := rl.now()
	limiter := rl.limiter(key)
	reservation := limiter.ReserveN(now, 1)
	delay := reservation.DelayFrom(now)
	if delay > 0 {
		reservation.CancelAt(now)
	}

	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(int(math.Floor(limiter.TokensAt(now))), 0)))

	if delay > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(max(int(math.Ceil(delay.Seconds())), 1)))
		slog.Warn("rate limit exceeded",
			"key", key,
			"path", r.URL.Path,
			"method", r.Method,
			"limit", rl.limit,
			"windowSec", int(rl.window.Seconds()),
		)
		api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
		return false
	}
	return true
}

func (rl *rateLimiter) clientOrIPKey(r *http.Request) string {
	if client, ok := GetClient(r.Context()); ok && client.ClientID != "" {
		return "client:" + client.ClientID
	}
	return rl.clientIP(r)
}

// clientIP returns the peer address, or, when the peer is a trusted proxy,
// the right-most X-Forwarded-For hop that is not itself a trusted proxy.
func (rl *rateLimiter) clientIP(r *http.Request) string {
	raw := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}
	peer, err := netip.ParseAddr(raw)
	if err != nil {
		return raw
	}
	if !rl.trusted(peer) {
		return peer.String()
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if !rl.trusted(hop) {
			return hop.String()
		}
	}
	return peer.String()
}

func (rl *rateLimiter) trusted(addr netip.Addr) bool {
	addr = addr.Unmap()
	for _, prefix := range rl.proxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
