package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rpupo63/portfolio-showcase-backend/auth"
	"github.com/rpupo63/portfolio-showcase-backend/config"
	"github.com/rpupo63/portfolio-showcase-backend/database"
	"github.com/rpupo63/portfolio-showcase-backend/services"
	"github.com/rpupo63/portfolio-showcase-backend/session"
	"github.com/rpupo63/portfolio-showcase-backend/storage"
	"github.com/rs/zerolog/log"
)

// ObjectStorage is where uploaded images go.
type ObjectStorage interface {
	Upload(ctx context.Context, kind storage.Kind, originalName, contentType string, data []byte) (storage.Object, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(rawURL string) (string, bool)
}

type ContactSender interface {
	Configured() bool
	SendContact(ctx context.Context, recipient string, msg services.ContactMessage) (string, error)
}

// Deps are the components the handlers are built from. Storage and Mailer may be nil, in
// which case their endpoints answer 503.
type Deps struct {
	Database      database.Database
	Authenticator *auth.Authenticator
	Sessions      *session.Controller
	Storage       ObjectStorage
	Mailer        ContactSender
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c config.Config, deps Deps) (Server, error) {
	if deps.Authenticator == nil || deps.Sessions == nil {
		return Server{}, fmt.Errorf("authenticator and session controller are required")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port) // Bind to 0.0.0.0 for external access

	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 30)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 60)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 120)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,  // Timeout for reading the entire request
		WriteTimeout: writeTimeout, // Timeout for writing the response
		IdleTimeout:  idleTimeout,  // Timeout for idle connections
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      config.Config
	startupTime time.Time
}

func withConfig(c config.Config) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(deps Deps, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}
	if router.startupTime.IsZero() {
		router.startupTime = time.Now()
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(RequestLogger(config.GetString(router.config, "LOG_FORMAT", "console") == "console"))
	chiRouter.Use(LogInternalServerErrors)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	if len(acceptedOrigins) == 0 {
		acceptedOrigins = []string{"http://localhost:5173", "http://localhost:8080"}
	}
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))
	chiRouter.Use(corsMiddleware(acceptedOrigins))

	settings := newSettingsCache(deps.Database.SiteSettingsRepo(), 5*time.Second)
	handlers := initializeHandlers(deps, router.config, settings, router.startupTime)
	sessions := newSessionMiddleware(deps.Sessions)

	chiRouter.Handle("/metrics", promhttp.Handler())
	setupRoutes(chiRouter, handlers, sessions, maintenanceGate(settings, deps.Sessions))

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
