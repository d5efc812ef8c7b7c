// Package http serves the shared-ledger UI and JSON API: entry capture,
// balance overview, history and recurring-entry reconciliation.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"depenses/internal/middleware/ratelimit"
	"depenses/internal/middleware/trace"
	"depenses/internal/services"
	appweb "depenses/web"
)

// Server hosts the HTML surface and the JSON API on one listener.
type Server struct {
	http.Server
	templates *template.Template
	ledger    *services.LedgerService
	recur     *services.RecurrenceService
	currency  string

	limiter      *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, ledger *services.LedgerService, recur *services.RecurrenceService, currency string) *Server {
	mux := http.NewServeMux()

	s := &Server{
		ledger:   ledger,
		recur:    recur,
		currency: currency,
		limiter: ratelimit.New(ratelimit.Config{
			RequestsPerMinute: 60,
			CleanupInterval:   5 * time.Minute,
		}),
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		slog.Warn("Failed parsing templates", "error", err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		slog.Warn("Failed to mount embedded static FS", "error", err)
	}

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)
	mux.Handle("/metrics", promhttp.Handler())

	// HTMX surface
	mux.HandleFunc("/entries", s.withSecurityHeaders(s.handleCreateEntry))
	mux.HandleFunc("/entries/delete", s.withSecurityHeaders(s.handleDeleteEntry))
	mux.HandleFunc("/ui/balance", s.withSecurityHeaders(s.handleBalancePartial))
	mux.HandleFunc("/ui/history", s.withSecurityHeaders(s.handleHistoryPartial))
	mux.HandleFunc("/ui/recurrence", s.withSecurityHeaders(s.handleRecurrencePartial))
	mux.HandleFunc("/recurrence/run", s.withSecurityHeaders(s.handleRecurrenceRun))

	// JSON API
	mux.HandleFunc("/api/entries", s.withSecurityHeaders(s.handleAPIEntries))
	mux.HandleFunc("/api/entries/delete", s.withSecurityHeaders(s.handleAPIDelete))
	mux.HandleFunc("/api/balance", s.withSecurityHeaders(s.handleAPIBalance))
	mux.HandleFunc("/api/reconcile", s.withSecurityHeaders(s.handleAPIReconcile))

	tracer := trace.NewMiddleware(slog.Default())
	s.Server = http.Server{
		Addr:    addr,
		Handler: tracer.Middleware(mux),
	}

	return s
}

// Shutdown stops the listener and the rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withSecurityHeaders adds security headers and rate limits mutating requests.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			clientIP := extractClientIP(r)
			if !s.limiter.Allow(clientIP) {
				slog.WarnContext(r.Context(), "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com 'unsafe-eval'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next(w, r)
	}
}

// extractClientIP resolves the client address, honoring proxy headers.
func extractClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
