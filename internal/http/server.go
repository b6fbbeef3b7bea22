// Package http is the stateful shell over the stateless calculation
// core: it holds the live budget document in a session and recomputes
// every aggregate on read.
package http

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"bilancio/internal/middleware/trace"
	"bilancio/internal/store"
)

type Server struct {
	http.Server

	session  *Session
	docStore store.DocumentStore
	exporter store.Exporter

	rateLimiter  *rateLimiter
	tracer       *trace.Middleware
	shutdownOnce sync.Once
}

// NewServer configures routes and the session, returning a
// ready-to-run http.Server.
func NewServer(addr string, ds store.DocumentStore, ex store.Exporter) *Server {
	mux := http.NewServeMux()

	s := &Server{
		session:     NewSession(time.Now()),
		docStore:    ds,
		exporter:    ex,
		rateLimiter: newRateLimiter(),
		tracer:      trace.NewMiddleware(clientIP),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /api/doc", s.handleGetDoc)
	mux.HandleFunc("PUT /api/doc", s.handlePutDoc)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("POST /api/incomes", s.handleCreateIncome)
	mux.HandleFunc("DELETE /api/incomes/{index}", s.handleDeleteIncome)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("DELETE /api/expenses/{index}", s.handleDeleteExpense)
	mux.HandleFunc("POST /api/save", s.handleSave)
	mux.HandleFunc("POST /api/load", s.handleLoad)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("PUT /api/period", s.handleSetPeriod)

	traced := s.tracer.Middleware(s.limit(mux))

	s.Server = http.Server{
		Addr:    addr,
		Handler: traced,
	}
	return s
}

// Shutdown stops the rate limiter cleanup goroutine before the
// underlying server shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.rateLimiter.allow(clientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

// cleanupStaleEntries removes client entries older than 10 minutes
func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[ip]
	if !exists {
		rl.clients[ip] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	// Reset counter if more than 1 minute has passed
	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	// Allow up to 60 requests per minute
	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}
