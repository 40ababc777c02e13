// Package web serves the schedule dashboard over HTTP.
package web

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/csrf"

	"github.com/wfm-tools/escala-go/pkg/escala"
	"github.com/wfm-tools/escala-go/pkg/escala/session"
)

// Config configures the HTTP layer.
type Config struct {
	Title string
	// CSRFKey is the 32-byte authentication key of the CSRF middleware.
	// CSRF protection is off when it is empty.
	CSRFKey []byte
	// SessionKey signs the session cookie. It must be at least 32 bytes; a
	// random key is used when it is empty, so sessions end on restart.
	SessionKey []byte
	// SecureCookies marks cookies Secure.
	SecureCookies bool
	// TokenDays is the session cookie lifetime.
	TokenDays int
}

// Server holds the dashboard dependencies.
type Server struct {
	loader   *escala.Loader
	creds    session.Credentials
	registry *session.Registry
	codec    *session.Codec
	cfg      Config
	logger   *slog.Logger
	pages    map[string]*template.Template
	now      func() time.Time
}

// New returns a server reading schedules through loader and authenticating
// against creds.
func New(loader *escala.Loader, creds session.Credentials, cfg Config, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TokenDays <= 0 {
		cfg.TokenDays = session.DefaultTokenDays
	}
	if cfg.Title == "" {
		cfg.Title = "Escala WFM"
	}
	if len(cfg.CSRFKey) != 0 && len(cfg.CSRFKey) != 32 {
		return nil, fmt.Errorf("csrf key must be 32 bytes, got %d", len(cfg.CSRFKey))
	}
	codec, err := session.NewCodec(cfg.SessionKey, cfg.TokenDays)
	if err != nil {
		return nil, err
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	return &Server{
		loader:   loader,
		creds:    creds.Normalize(),
		registry: session.NewRegistry(),
		codec:    codec,
		cfg:      cfg,
		logger:   logger,
		pages:    pages,
		now:      time.Now,
	}, nil
}

// Handler returns the routed, authenticated and CSRF-protected handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /login", s.handleLoginPage)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.Handle("POST /logout", s.requireSession(http.HandlerFunc(s.handleLogout)))
	mux.Handle("GET /{$}", s.requireSession(http.HandlerFunc(s.handleDashboard)))
	mux.Handle("POST /refresh", s.requireSession(http.HandlerFunc(s.handleRefresh)))
	mux.Handle("GET /edit", s.requireSession(s.requireEditor(http.HandlerFunc(s.handleEditPage))))
	mux.Handle("POST /edit", s.requireSession(s.requireEditor(http.HandlerFunc(s.handleEdit))))

	var h http.Handler = mux
	if len(s.cfg.CSRFKey) > 0 {
		protect := csrf.Protect(s.cfg.CSRFKey,
			csrf.Secure(s.cfg.SecureCookies),
			csrf.Path("/"),
			csrf.FieldName("csrf_token"),
		)
		h = s.plaintext(protect(h))
	}
	return s.logRequests(h)
}

// plaintext marks requests served without TLS so the CSRF middleware skips
// its HTTPS-only referer checks.
func (s *Server) plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.TLS == nil && !s.cfg.SecureCookies {
			r = csrf.PlaintextHTTPRequest(r)
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start))
	})
}

// internalError logs err and answers with a generic message.
func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("internal_error", "error", err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
