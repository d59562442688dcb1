package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/openpay/hmac-tools/entry"
	"github.com/openpay/hmac-tools/payment"
	"golang.org/x/time/rate"
)

// HeaderClientId identifies the API client that requests are counted against
const HeaderClientId = "X-Client-Id"

// DefaultRequestsPerMinute is the number of requests each client may make per minute
const DefaultRequestsPerMinute = 10

// RateLimiter keeps a token bucket per client ID
type RateLimiter struct {
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
	rateLimit rate.Limit
	burstSize int
}

// NewRateLimiter allows each client perMinute requests in a burst, refilling at
// perMinute tokens per minute. A non-positive perMinute selects
// DefaultRequestsPerMinute.
func NewRateLimiter(perMinute int) *RateLimiter {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	return &RateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: rate.Every(time.Minute / time.Duration(perMinute)),
		burstSize: perMinute,
	}
}

// GetLimiter returns the limiter for a client, creating it on first use
func (rl *RateLimiter) GetLimiter(clientId string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.limiters[clientId]
	if !exists {
		limiter = rate.NewLimiter(rl.rateLimit, rl.burstSize)
		rl.limiters[clientId] = limiter
	}
	return limiter
}

// Middleware rejects requests without an X-Client-Id header (400), and requests
// from clients that have used up their allowance (429)
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
		clientId := req.Header.Get(HeaderClientId)
		if clientId == "" {
			writeJSON(res, http.StatusBadRequest, payment.NewErrorResponse("Missing X-Client-Id header"))
			return
		}

		if !rl.GetLimiter(clientId).Allow() {
			entry.Log(req).Warn("Rate limit exceeded", "clientId", clientId, "path", req.URL.Path)
			writeJSON(res, http.StatusTooManyRequests, payment.NewErrorResponse("Rate limit exceeded. Try again later."))
			return
		}

		next.ServeHTTP(res, req)
	})
}
