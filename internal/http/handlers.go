package http

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.metrics.startedAt).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.ledger == nil {
		checks["ledger"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["ledger"] = "ok"
	}

	checks["cache"] = map[string]any{
		"month_entries": s.monthCache.Size(),
		"status":        "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.tracer.GetMetrics()
	saved := atomic.LoadInt64(&s.metrics.transactionsSaved)
	hits := atomic.LoadInt64(&s.metrics.cacheHits)
	misses := atomic.LoadInt64(&s.metrics.cacheMisses)
	uptime := time.Since(s.metrics.startedAt)

	fmt.Fprintf(w, "# Application metrics\n")
	fmt.Fprintf(w, "moneybook_uptime_seconds %d\n", int64(uptime.Seconds()))
	fmt.Fprintf(w, "moneybook_transactions_saved_total %d\n", saved)
	fmt.Fprintf(w, "\n# HTTP metrics\n")
	fmt.Fprintf(w, "moneybook_http_requests_total %d\n", traceMetrics.TotalRequests)
	fmt.Fprintf(w, "moneybook_http_response_time_microseconds %d\n", traceMetrics.AverageResponseTime)
	fmt.Fprintf(w, "\n# Cache metrics\n")
	fmt.Fprintf(w, "moneybook_month_cache_entries %d\n", s.monthCache.Size())
	fmt.Fprintf(w, "moneybook_month_cache_hits_total %d\n", hits)
	fmt.Fprintf(w, "moneybook_month_cache_misses_total %d\n", misses)
	fmt.Fprintf(w, "\n# Rate limiting metrics\n")
	fmt.Fprintf(w, "moneybook_ratelimit_active_clients %d\n", s.limiter.ActiveClients())
}
