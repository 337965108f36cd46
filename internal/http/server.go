// Package http serves the operational endpoints: health, metrics and a
// read-only audit API for operators.
package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paybot/internal/core"
	"paybot/internal/middleware/ratelimit"
	"paybot/internal/middleware/trace"
	"paybot/internal/services"
)

// NewServer builds the operational HTTP server. The audit endpoint is rate
// limited per client; health and metrics are not.
func NewServer(addr string, svc *services.PaymentService, limiter *ratelimit.Limiter) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /api/audit", rateLimited(limiter, handleAudit(svc)))

	return &http.Server{
		Addr:           addr,
		Handler:        trace.Middleware(mux),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16, // 64KB
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintln(w, "ok")
}

// handleAudit runs an audit from query parameters. Missing filters default
// to the wildcard; period is required.
func handleAudit(svc *services.PaymentService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := r.URL.Query().Get("user")
		if user == "" {
			user = core.WildcardFilter
		}
		app := r.URL.Query().Get("app")
		if app == "" {
			app = core.WildcardFilter
		}
		period := r.URL.Query().Get("period")
		if period == "" {
			http.Error(w, "missing period parameter, expected M/YY or M/YYYY, e.g. 4/2025", http.StatusBadRequest)
			return
		}

		_, text, err := svc.Audit(r.Context(), user, app, period)
		if err != nil {
			if errors.Is(err, core.ErrPeriodFormat) {
				http.Error(w, "invalid period, expected M/YY or M/YYYY, e.g. 4/2025", http.StatusBadRequest)
				return
			}
			slog.ErrorContext(r.Context(), "Audit request failed", "error", err)
			http.Error(w, "audit failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, text)
	}
}

func rateLimited(limiter *ratelimit.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if limiter != nil && !limiter.Allow(clientIP(r)) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
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
