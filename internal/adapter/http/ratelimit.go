package adapthttp

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"contactbook/internal/domain"
)

const maxLoginBody = 1 << 16

// rateLimitLogin throttles login attempts per client address and username.
// A limiter error lets the request through.
func (s *Server) rateLimitLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil || s.loginLimit <= 0 {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(io.LimitReader(r.Body, maxLoginBody))
		if err != nil {
			writeFailure(w, http.StatusBadRequest, "invalid request")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		var req struct {
			Username string `json:"username"`
		}
		_ = json.Unmarshal(body, &req)

		key := "login:" + clientIP(r) + ":" + req.Username
		decision, err := s.limiter.Allow(r.Context(), key, s.loginLimit, s.loginWindow)
		if err != nil {
			s.logger.WarnContext(r.Context(), "rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		writeRateLimitHeaders(w, decision)
		if !decision.Allowed {
			writeFailure(w, http.StatusTooManyRequests, "too many login attempts")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeRateLimitHeaders(w http.ResponseWriter, d domain.RateLimitDecision) {
	h := w.Header()
	h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
	if d.ResetAt.IsZero() {
		return
	}
	h.Set("RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
	if !d.Allowed {
		retryAfter := max(int64(time.Until(d.ResetAt).Seconds()), 0)
		h.Set("Retry-After", strconv.FormatInt(retryAfter, 10))
	}
}
