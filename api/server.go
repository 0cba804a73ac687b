package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog/log"
)

// Dependencies are the services the handlers call besides the database.
// Contact and Media may be nil; uploads are not routed without Media.
type Dependencies struct {
	Tokens    *services.TokenService
	Passwords *services.PasswordHasher
	Contact   contactRelay
	Media     mediaUploader
}

type Server struct {
	*http.Server
	startupTime time.Time
}

func NewServer(c map[string]string, database database.Database, deps Dependencies) (Server, error) {
	if deps.Tokens == nil || deps.Passwords == nil {
		return Server{}, fmt.Errorf("token service and password hasher are required")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(database, deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := config.GetDuration(c, "READ_TIMEOUT_SECONDS", time.Second, 30*time.Second)
	writeTimeout := config.GetDuration(c, "WRITE_TIMEOUT_SECONDS", time.Second, 60*time.Second)
	idleTimeout := config.GetDuration(c, "IDLE_TIMEOUT_SECONDS", time.Second, 120*time.Second)

	server := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

func newRouter(database database.Database, deps Dependencies, opts ...func(*router)) *chi.Mux {
	var router router
	for _, opt := range opts {
		opt(&router)
	}

	chiRouter := chi.NewRouter()
	chiRouter.Use(middleware.RequestID)
	chiRouter.Use(middleware.RealIP)
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(corsMiddleware(config.GetList(router.config, "ACCEPTED_ORIGINS")))
	if config.GetBool(router.config, "REQUEST_LOGGING", true) {
		chiRouter.Use(ColoredHTTPLoggingMiddleware)
	}

	handlers := initializeHandlers(database, deps, router.startupTime)
	authMiddleware := newAuthMiddleware(deps.Tokens)

	setupRoutes(chiRouter, handlers, authMiddleware)

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
