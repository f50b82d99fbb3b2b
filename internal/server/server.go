// Package server hosts the almanac reader: the embedded shell, its assets,
// the JSON API, and the websocket every reader session runs over.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/juliankahlert/the-almanac-of-codecraft/internal/config"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/enhance"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/fetch"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/session"
	"github.com/juliankahlert/the-almanac-of-codecraft/internal/theme"
)

// ContentClient is the slice of the fetch client the server needs.
type ContentClient interface {
	Page(ctx context.Context, page string) ([]byte, error)
	Menu(ctx context.Context) (*fetch.Menu, error)
}

// Server is the almanac reader server.
type Server struct {
	cfg        *config.Config
	content    ContentClient
	router     chi.Router
	httpServer *http.Server
	lightCSS   string
	darkCSS    string
}

// New creates a reader server. The chroma stylesheets for both themes are
// rendered once up front from the configured styles.
func New(cfg *config.Config, content ContentClient) (*Server, error) {
	lightCSS, err := enhance.StylesheetCSS(cfg.Theme.LightStyle)
	if err != nil {
		return nil, fmt.Errorf("light stylesheet: %w", err)
	}
	darkCSS, err := enhance.StylesheetCSS(cfg.Theme.DarkStyle)
	if err != nil {
		return nil, fmt.Errorf("dark stylesheet: %w", err)
	}

	s := &Server{
		cfg:      cfg,
		content:  content,
		lightCSS: lightCSS,
		darkCSS:  darkCSS,
	}
	s.router = s.buildRouter()
	return s, nil
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// The websocket stays outside the timeout group: a reader session
	// lives as long as its tab.
	r.Get("/ws/reader", s.handleReader)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(60 * time.Second))
		r.Get("/", s.serveIndex)
		r.Get("/assets/app.css", serveAsset("text/css; charset=utf-8", cssContent))
		r.Get("/assets/app.js", serveAsset("application/javascript; charset=utf-8", jsContent))
		r.Get(theme.LightHref, serveAsset("text/css; charset=utf-8", s.lightCSS))
		r.Get(theme.DarkHref, serveAsset("text/css; charset=utf-8", s.darkCSS))
		r.Get("/api/menu", s.handleMenu)
		r.Get("/api/state", s.handleState)
	})

	return r
}

// Router returns the chi router, mainly for tests and embedding.
func (s *Server) Router() chi.Router { return s.router }

func serveAsset(contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.Write([]byte(body))
	}
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	scheme, ok := theme.ParseScheme(string(s.cfg.Theme.Default))
	if !ok {
		scheme = theme.Light
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexTemplate.Execute(w, indexData{
		Title:      s.cfg.Title,
		Scheme:     string(scheme),
		Stylesheet: theme.StylesheetFor(scheme),
	})
	if err != nil {
		log.Printf("server: render index: %v", err)
	}
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := s.content.Menu(r.Context())
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

// handleState runs the pipeline once for a page and returns the resulting
// snapshot, without attaching a session. Handy for smoke checks and tools.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	page := r.URL.Query().Get("page")
	if page == "" {
		page = s.cfg.StartPage
	}

	state, err := session.Preview(r.Context(), s.content, page)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, fetch.ErrDenied) {
			code = http.StatusBadRequest
		}
		writeJSON(w, code, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: encode response: %v", err)
	}
}

// Start begins listening on the configured address.
func (s *Server) Start() error {
	addr := s.cfg.Addr()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("almanac reader listening on http://%s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
