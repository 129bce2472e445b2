package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/steward-ai/steward/internal/agent/graph"
	"github.com/steward-ai/steward/internal/agent/model"
)

// ServerConfig holds the HTTP-facing knobs.
type ServerConfig struct {
	Port            int     `envconfig:"API_PORT" default:"8080"`
	RequestTimeout  int     `envconfig:"API_REQUEST_TIMEOUT_SEC" default:"120"`
	ShutdownTimeout int     `envconfig:"API_SHUTDOWN_TIMEOUT_SEC" default:"30"`
	RateRPS         float64 `envconfig:"API_RATE_RPS" default:"1"`
	RateBurst       int     `envconfig:"API_RATE_BURST" default:"3"`
}

// Server exposes the router over HTTP. Turns within one conversation are
// serialized here; the graph itself assumes at most one in-flight turn per
// conversation.
type Server struct {
	router  graph.Router
	repo    model.ConversationRepository
	cfg     ServerConfig
	logger  zerolog.Logger
	limiter *limiterPool
	turns   *turnLocks
}

func NewServer(router graph.Router, repo model.ConversationRepository, cfg ServerConfig, logger zerolog.Logger) *Server {
	return &Server{
		router:  router,
		repo:    repo,
		cfg:     cfg,
		logger:  logger,
		limiter: newLimiterPool(cfg.RateRPS, cfg.RateBurst),
		turns:   newTurnLocks(),
	}
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests within the shutdown timeout.
func (s *Server) Start() error {
	r := mux.NewRouter()

	r.Use(s.recoverMiddleware)
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	v1.HandleFunc("/conversations/{id}/messages", s.handleGetMessages).Methods(http.MethodGet)
	v1.HandleFunc("/conversations/{id}", s.handleClearConversation).Methods(http.MethodDelete)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: time.Duration(s.cfg.RequestTimeout) * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		s.logger.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(s.cfg.ShutdownTimeout)*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("shutdown did not complete cleanly")
		}
	}()

	s.logger.Info().Int("port", s.cfg.Port).Msg("starting API server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
