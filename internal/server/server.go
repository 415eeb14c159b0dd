// Package server exposes the chat pipeline over HTTP with lifecycle management.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/argenova/mesai-ai/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP engine with dependencies and lifecycle management.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	svc    *service.Service
	logger *slog.Logger
}

// New creates the HTTP server and registers all routes.
func New(addr string, svc *service.Service, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(logger))

	s := &Server{
		engine: engine,
		svc:    svc,
		logger: logger,
	}
	s.routes()

	s.http = &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() {
	api := s.engine.Group("/api")

	api.POST("/query", s.handleQuery)
	api.POST("/chat", s.handleChat)
	api.POST("/chat/stream", s.handleChatStream)

	api.GET("/history", s.handleHistory)
	api.POST("/feedback", s.handleFeedback)
	api.POST("/mark-training", s.handleMarkTraining)
	api.GET("/training-examples", s.handleTrainingExamples)

	api.POST("/populate-training-examples", s.handlePopulateTrainingExamples)
	api.POST("/populate-vectors", s.handlePopulateVectors)
	api.POST("/upload-employees", s.handleUploadEmployees)

	vectors := api.Group("/vectors")
	vectors.GET("/list", s.handleListVectors)
	vectors.GET("/status", s.handleVectorStatus)
	vectors.DELETE("/clear", s.handleClearVectors)

	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Run starts the listener and blocks until the context is cancelled or the
// listener fails. Cancellation triggers a graceful shutdown.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}
