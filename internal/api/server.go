package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"curator/internal/domain"
	"curator/internal/storage"
)

// Ingestor runs the ingestion pipeline for one URL.
type Ingestor interface {
	Ingest(ctx context.Context, url, userID string) (domain.Resource, error)
}

// Server wraps the HTTP server and its dependencies.
type Server struct {
	http   *http.Server
	ingest Ingestor
	repo   storage.Repository
	log    logrus.FieldLogger
}

// New builds the HTTP server (router, middlewares, routes).
func New(addr string, ingest Ingestor, repo storage.Repository, logger logrus.FieldLogger) *Server {
	s := &Server{
		ingest: ingest,
		repo:   repo,
		log:    logger.WithField("component", "http"),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(accessLog(s.log))
	r.Use(cors)

	r.Get("/healthz", s.healthz)

	r.Post("/api/ingest", s.handleIngest)
	r.Post("/functions/v1/analyze-video", s.handleIngest)

	r.Post("/api/session", s.handleSession)

	r.Get("/api/resources", s.handleListResources)
	r.Delete("/api/resources/{id}", s.handleDeleteResource)
	r.Get("/api/library", s.handleLibrary)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start runs the HTTP server (blocks until error or shutdown).
func (s *Server) Start() error {
	s.log.Infof("HTTP server listening on %s", s.http.Addr)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the server with the provided context deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("HTTP server shutting down...")
	return s.http.Shutdown(ctx)
}
