package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"kovaidetail/internal/auth"
	"kovaidetail/internal/config"
	"kovaidetail/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.NewString()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// authenticate resolves the bearer token into a principal. A missing token
// yields 401, anything invalid, expired, or revoked yields 403; both with an
// empty body so the response leaks nothing about why.
func (s *HTTPServer) authenticate(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		metrics.IncAuthFailure("missing_token")
		w.WriteHeader(http.StatusUnauthorized)
		return nil, false
	}

	principal, err := s.auth.Authenticate(r.Context(), strings.TrimSpace(token))
	if err != nil {
		metrics.IncAuthFailure("invalid_token")
		w.WriteHeader(http.StatusForbidden)
		return nil, false
	}

	return principal, true
}

// requireAdmin authenticates and additionally gates on the admin role.
func (s *HTTPServer) requireAdmin(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	principal, ok := s.authenticate(w, r)
	if !ok {
		return nil, false
	}
	if !principal.IsAdmin() {
		metrics.IncAuthFailure("not_admin")
		w.WriteHeader(http.StatusForbidden)
		return nil, false
	}
	return principal, true
}

// ipRateLimiter throttles the auth endpoints per client IP.
type ipRateLimiter struct {
	cfg      config.RateLimitConfig
	limiters sync.Map // map[string]*rate.Limiter
}

func newIPRateLimiter(cfg config.RateLimitConfig) *ipRateLimiter {
	return &ipRateLimiter{cfg: cfg}
}

// allow reports whether the request fits in the client's budget. Disabled
// when rps is not positive.
func (l *ipRateLimiter) allow(r *http.Request) bool {
	if l.cfg.RPS <= 0 {
		return true
	}
	return l.getLimiter(clientIP(r)).Allow()
}

func (l *ipRateLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := l.cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(l.cfg.RPS), burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}
