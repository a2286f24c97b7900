package web

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// DefaultAddr is the default server address.
const DefaultAddr = ":8080"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr        string
	FrontendURL string

	// StaticDir optionally serves a built frontend from disk at "/".
	StaticDir string

	// Per-IP rate limit applied to /api routes.
	RateLimit float64
	RateBurst int

	Handlers *Handlers
}

// Server is the HTTP server for the service.
type Server struct {
	router   chi.Router
	server   *http.Server
	handlers *Handlers
}

// NewServer creates a new web server.
func NewServer(cfg ServerConfig) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	s := &Server{
		router:   chi.NewRouter(),
		handlers: cfg.Handlers,
	}

	s.setupMiddleware(cfg)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware(cfg ServerConfig) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(RequestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))
}

// setupRoutes configures routes for the application.
func (s *Server) setupRoutes(cfg ServerConfig) {
	s.router.Get("/healthz", s.handlers.Health)

	s.router.Route("/auth", func(r chi.Router) {
		r.Get("/login", s.handlers.Login)
		r.Get("/callback", s.handlers.Callback)
		r.Post("/logout", s.handlers.Logout)
	})

	apiLimiter := NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
	s.router.Route("/api", func(r chi.Router) {
		r.Use(apiLimiter.Handler)
		r.Get("/playlist", s.handlers.GetPlaylist)
		r.Post("/playlist/save", s.handlers.SavePlaylist)
	})

	// Built frontend, when deployed alongside the API.
	if cfg.StaticDir != "" {
		s.router.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and handles graceful shutdown on interrupt signals.
func (s *Server) Run() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-stop:
		log.Info().Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.Shutdown(ctx)
}
