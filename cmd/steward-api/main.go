package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/steward-ai/steward/internal/agent/graph"
	"github.com/steward-ai/steward/internal/agent/model"
	"github.com/steward-ai/steward/internal/agent/repo"
	"github.com/steward-ai/steward/internal/api"
	"github.com/steward-ai/steward/internal/core"
	logx "github.com/steward-ai/steward/pkg/logger"
	pkgredis "github.com/steward-ai/steward/pkg/redis"
)

// ServiceConfig defines all configurable parameters for the API service,
// sourced from environment variables (loaded from .env for local runs).
type ServiceConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis  pkgredis.Config
	Server api.ServerConfig

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier   model.ClassifierModelConfig
	Prompt       model.ClassifierPromptConfig
	Conversation model.ConversationConfig
	Breaker      model.BreakerConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg ServiceConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})
	logger := logx.Logger()

	rdb, err := cfg.Redis.Connect(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise Redis client")
	}
	defer rdb.Close()

	ttl, err := time.ParseDuration(cfg.Conversation.TTL)
	if err != nil {
		logger.Fatal().Err(err).Str("ttl", cfg.Conversation.TTL).Msg("invalid CONVERSATION_TTL")
	}

	conversationRepo := repo.NewRedisConversationRepository(rdb, ttl)

	router, err := graph.BuildRouter(ctx, graph.Config{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		Classifier:       cfg.Classifier,
		Prompt:           cfg.Prompt,
		Conversation:     cfg.Conversation,
		Breaker:          cfg.Breaker,
		ConversationRepo: conversationRepo,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build router")
	}

	server := api.NewServer(router, conversationRepo, cfg.Server, logger)
	if err := server.Start(); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}
