package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// RateLimit throttles the tool dispatch group per client IP with a token
// bucket: burst tokens up front, refilled at rps. The agent is expected to
// call tools in short bursts while composing an answer, so the burst is what
// matters; rps only bounds sustained hammering.
func RateLimit(rps float64, burst int) echo.MiddlewareFunc {
	l := &ipLimiter{
		rps:     rps,
		burst:   float64(burst),
		clients: make(map[string]*bucket),
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, retryAfter := l.take(c.RealIP())

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.FormatFloat(rps, 'f', 0, 64))
			if !ok {
				h.Set("Retry-After", strconv.Itoa(retryAfter))
				h.Set("X-RateLimit-Remaining", "0")
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}

// pruneAbove bounds the client map; entries idle long enough to have refilled
// completely carry no state worth keeping.
const pruneAbove = 10000

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

type ipLimiter struct {
	mu      sync.Mutex
	rps     float64
	burst   float64
	clients map[string]*bucket
}

// take spends one token for the client, reporting whether the request may
// proceed and, if not, how many seconds until a token is available.
func (l *ipLimiter) take(ip string) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.clients[ip]
	if !ok {
		if len(l.clients) >= pruneAbove {
			l.prune(now)
		}
		b = &bucket{tokens: l.burst, lastSeen: now}
		l.clients[ip] = b
	} else {
		b.tokens = math.Min(l.burst, b.tokens+now.Sub(b.lastSeen).Seconds()*l.rps)
		b.lastSeen = now
	}

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}

	if l.rps <= 0 {
		return false, 1
	}
	return false, int(math.Ceil((1 - b.tokens) / l.rps))
}

func (l *ipLimiter) prune(now time.Time) {
	idle := time.Duration(float64(time.Second) * l.burst / math.Max(l.rps, 1))
	for ip, b := range l.clients {
		if now.Sub(b.lastSeen) > idle {
			delete(l.clients, ip)
		}
	}
}
