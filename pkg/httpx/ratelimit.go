package httpx

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig controls a fixed-window token bucket. Every key starts a
// window with Capacity tokens; the bucket refills to Capacity all at once
// when the window elapses, never gradually.
type RateLimitConfig struct {
	Capacity int
	Window   time.Duration
}

// DefaultRateLimit matches the production defaults: 10 requests per minute
// per key.
var DefaultRateLimit = RateLimitConfig{Capacity: 10, Window: time.Minute}

// Limiter tracks one token bucket per string key. Buckets are created on
// first use and evicted after sitting idle for several windows, so the key
// space can be unbounded without the limiter growing without bound.
type Limiter struct {
	capacity int
	window   time.Duration

	buckets sync.Map // key string -> *bucket

	cleanupMu   sync.Mutex
	lastCleanup time.Time
}

type bucket struct {
	mu          sync.Mutex
	tokens      int
	windowStart time.Time
	lastSeen    time.Time
}

// Buckets idle for this many windows are dropped on the next sweep.
const idleWindows = 3

// NewLimiter validates the config and returns a ready limiter.
func NewLimiter(cfg RateLimitConfig) *Limiter {
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultRateLimit.Capacity
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultRateLimit.Window
	}
	return &Limiter{
		capacity:    cfg.Capacity,
		window:      cfg.Window,
		lastCleanup: time.Now(),
	}
}

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Capacity returns the configured per-window request budget.
func (l *Limiter) Capacity() int { return l.capacity }

// TryConsume takes one token from the bucket for key, reporting whether a
// token was available. A key seen for the first time gets a full bucket.
func (l *Limiter) TryConsume(key string) bool {
	now := time.Now()
	l.maybeCleanup(now)

	v, ok := l.buckets.Load(key)
	if !ok {
		v, _ = l.buckets.LoadOrStore(key, &bucket{
			tokens:      l.capacity,
			windowStart: now,
		})
	}
	b := v.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	if elapsed := now.Sub(b.windowStart); elapsed >= l.window {
		n := int64(elapsed / l.window)
		b.windowStart = b.windowStart.Add(time.Duration(n) * l.window)
		b.tokens = l.capacity
	}
	b.lastSeen = now

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

// maybeCleanup sweeps idle buckets at most once per window.
func (l *Limiter) maybeCleanup(now time.Time) {
	l.cleanupMu.Lock()
	if now.Sub(l.lastCleanup) < l.window {
		l.cleanupMu.Unlock()
		return
	}
	l.lastCleanup = now
	l.cleanupMu.Unlock()

	cutoff := now.Add(-time.Duration(idleWindows) * l.window)
	l.buckets.Range(func(key, v any) bool {
		b := v.(*bucket)
		b.mu.Lock()
		idle := b.lastSeen.Before(cutoff)
		b.mu.Unlock()
		if idle {
			l.buckets.Delete(key)
		}
		return true
	})
}

// ClientIP resolves the best caller address for keying. Proxy headers win
// over the socket address; "unknown" is the terminal fallback so a request
// always yields a usable key.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if first != "" {
			return first
		}
	}
	if rip := strings.TrimSpace(r.Header.Get("X-Real-IP")); rip != "" {
		return rip
	}
	if host := remoteHost(r); host != "" {
		return host
	}
	return "unknown"
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeRateLimited(w http.ResponseWriter, l *Limiter) {
	w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.capacity))
	WriteError(w, http.StatusTooManyRequests, "too_many_requests", "rate limit exceeded, try again later")
}

const maxLoginBodyBytes = 64 << 10

// LoginRateLimit throttles credential guessing on the login endpoint. The
// key is the submitted username when the body parses, so an attacker cannot
// dodge the limit by rotating source addresses, and the caller address
// otherwise. Only POSTs to loginPath are gated; everything else passes
// through untouched.
func LoginRateLimit(limiter *Limiter, loginPath string, log *slog.Logger) Middleware {
	// Malformed bodies are the client's problem and will fail again in the
	// handler, so the swallowed parse error is only logged at a sampled rate.
	parseWarn := &rate.Sometimes{Interval: time.Minute}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != loginPath {
				next.ServeHTTP(w, r)
				return
			}

			key := "login:ip:" + ClientIP(r)
			if username := peekLoginUsername(r, parseWarn, log); username != "" {
				key = "login:user:" + strings.ToLower(username)
			}

			if !limiter.TryConsume(key) {
				writeRateLimited(w, limiter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// peekLoginUsername reads the request body to extract the username, then
// restores the body so the login handler can read it again. Returns "" when
// the body is unreadable, not JSON, or carries a blank username.
func peekLoginUsername(r *http.Request, parseWarn *rate.Sometimes, log *slog.Logger) string {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBodyBytes))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		parseWarn.Do(func() {
			log.Warn("login rate limit: unreadable request body, keying by address", "error", err)
		})
		return ""
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		parseWarn.Do(func() {
			log.Warn("login rate limit: unparseable request body, keying by address", "error", err)
		})
		return ""
	}
	return strings.TrimSpace(req.Username)
}

// UserRateLimit throttles everything after authentication. Authenticated
// callers are keyed by username so the budget follows the account across
// devices; anonymous callers share a budget per source address. Paths under
// a skip prefix (health probes, docs, the auth endpoints themselves) are
// never gated.
func UserRateLimit(limiter *Limiter, skipPrefixes []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			key := "anon:ip:" + remoteHost(r)
			if id, ok := IdentityFromContext(r.Context()); ok && id.Username != "" {
				key = "user:" + id.Username
			}

			if !limiter.TryConsume(key) {
				writeRateLimited(w, limiter)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
