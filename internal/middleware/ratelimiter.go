package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/metrics"
	"github.com/haguru/yelpcamp/internal/models/dto"
	"golang.org/x/time/rate"
)

const MsgTooManyRequests = "Too many requests. Please try again later."

// RateLimitMiddleware rejects requests once limiter runs dry.
func RateLimitMiddleware(limiter *rate.Limiter, m interfaces.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				m.IncCounter(metrics.LoginRateLimitedTotal)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				resp := dto.RateLimitResponse{Message: MsgTooManyRequests}
				_ = json.NewEncoder(w).Encode(resp)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
