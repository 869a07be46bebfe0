// Package http exposes the ledger over a JSON API. Month views are
// served from an LRU cache invalidated by the ledger's update signals,
// so a stale read never outlives the bucket write that made it stale.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"moneybook/internal/cache"
	"moneybook/internal/core"
	"moneybook/internal/events"
	"moneybook/internal/ledger"
	applog "moneybook/internal/log"
	"moneybook/internal/middleware/ratelimit"
	"moneybook/internal/middleware/security"
	"moneybook/internal/middleware/trace"
)

// Options configures the server surface.
type Options struct {
	Addr              string
	RequestsPerMinute int
	CacheSize         int
	CacheTTL          time.Duration
}

type appMetrics struct {
	startedAt         time.Time
	transactionsSaved int64
	cacheHits         int64
	cacheMisses       int64
}

type Server struct {
	http.Server

	ledger *ledger.Store
	logger *applog.Logger

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	// One entry per monthly bucket, keyed "year-month". Holds the raw
	// bucket; filtering and sorting happen per request.
	monthCache *cache.LRUCache[[]core.Transaction]

	cfgMu sync.RWMutex
	cfg   *core.Config

	metrics appMetrics

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires routes, middleware and cache invalidation, returning a
// ready-to-run server.
func NewServer(opts Options, ledgerStore *ledger.Store, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledger: ledgerStore,
		logger: logger.WithComponent(applog.ComponentHTTP),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RequestsPerMinute,
		}),
		tracer:           trace.NewMiddleware(clientIP),
		monthCache:       cache.NewLRUCache[[]core.Transaction](opts.CacheSize, opts.CacheTTL),
		metrics:          appMetrics{startedAt: time.Now()},
		stopCacheCleanup: make(chan struct{}),
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/budgets", s.handleBudgets)
	mux.HandleFunc("/api/summary", s.handleSummary)
	mux.HandleFunc("/api/fixed-transactions", s.handleFixedTransactions)
	mux.HandleFunc("/api/account-transactions", s.handleAccountTransactions)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	limited := s.limiter.Middleware(clientIP, nil)

	s.Server = http.Server{
		Addr:              opts.Addr,
		Handler:           headers.Middleware(s.tracer.Middleware(limited(mux))),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	s.subscribeInvalidation()
	go s.startCacheCleanup()

	return s
}

// subscribeInvalidation keeps the served views consistent with the
// ledger: a bucket write drops that bucket's cached copy, a config
// replacement refreshes the cached config.
func (s *Server) subscribeInvalidation() {
	bus := s.ledger.Bus()
	bus.SubscribeTransactions(func(ev events.TransactionsUpdated) {
		s.monthCache.Delete(cacheKey(ev.Year, ev.Month))
	})
	bus.SubscribeConfig(func(ev events.ConfigUpdated) {
		s.cfgMu.Lock()
		cfg := ev.Config
		s.cfg = &cfg
		s.cfgMu.Unlock()
	})
}

func cacheKey(year, month int) string {
	return strconv.Itoa(year) + "-" + strconv.Itoa(month)
}

// currentConfig returns the cached config, loading it on first use and
// substituting the seed config when nothing has been stored yet.
func (s *Server) currentConfig(ctx context.Context) core.Config {
	s.cfgMu.RLock()
	if s.cfg != nil {
		cfg := *s.cfg
		s.cfgMu.RUnlock()
		return cfg
	}
	s.cfgMu.RUnlock()

	cfg, ok := s.ledger.LoadConfig(ctx)
	if !ok {
		cfg = core.DefaultConfig()
	}

	s.cfgMu.Lock()
	s.cfg = &cfg
	s.cfgMu.Unlock()
	return cfg
}

// monthTransactions returns the bucket for (year, month), served from
// the cache when possible.
func (s *Server) monthTransactions(ctx context.Context, year, month int) []core.Transaction {
	key := cacheKey(year, month)
	if list, found := s.monthCache.Get(key); found {
		atomic.AddInt64(&s.metrics.cacheHits, 1)
		// Copy so a caller cannot mutate the cached slice.
		return append([]core.Transaction(nil), list...)
	}
	atomic.AddInt64(&s.metrics.cacheMisses, 1)

	list := s.ledger.LoadTransactions(ctx, year, month)
	s.monthCache.Set(key, list)
	return append([]core.Transaction(nil), list...)
}

// startCacheCleanup drops expired month views periodically.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.monthCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
