package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/steward-ai/steward/internal/agent/graph"
	"github.com/steward-ai/steward/internal/agent/model"
	"github.com/steward-ai/steward/internal/agent/repo"
	pkgredis "github.com/steward-ai/steward/pkg/redis"
)

// AppConfig defines all configurable parameters for the agent example,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

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
	fmt.Println("Testing household router graph...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	// ====================================================
	// Build router config entirely from env
	ttl, err := time.ParseDuration(envCfg.Conversation.TTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", envCfg.Conversation.TTL, err)
	}

	cfg := graph.Config{
		APIKey:           envCfg.APIKey,
		BaseURL:          envCfg.BaseURL,
		Classifier:       envCfg.Classifier,
		Prompt:           envCfg.Prompt,
		Conversation:     envCfg.Conversation,
		Breaker:          envCfg.Breaker,
		ConversationRepo: repo.NewRedisConversationRepository(rdb, ttl),
	}

	router, err := graph.BuildRouter(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	testQueries := []struct {
		description string
		query       string
	}{
		{
			description: "Direct conversational reply",
			query:       "Good morning! How are you today?",
		},
		{
			description: "Single tool hop (calendar)",
			query:       "What's on the calendar for today?",
		},
		{
			description: "Task creation",
			query:       "Please add 'order firewood' to the to-do list.",
		},
		{
			description: "Knowledge base lookup",
			query:       "When is recycling collected?",
		},
		{
			description: "Follow-up with thanks",
			query:       "Thank you, that's all for now.",
		},
	}

	conversationID := "household-demo-001"
	const turnTimeout = 60 * time.Second

	for i, test := range testQueries {
		fmt.Printf("\nTest %d: %s\n", i+1, test.description)
		fmt.Printf("Query: %q\n", test.query)
		fmt.Println("Processing...")

		turnCtx, cancel := context.WithTimeout(ctx, turnTimeout)
		reply, err := router.HandleTurn(turnCtx, conversationID, test.query)
		cancel()
		if err != nil {
			log.Fatalf("Failed to handle turn %d: %v", i+1, err)
		}

		fmt.Printf("Reply %d: %s\n", i+1, reply)
		fmt.Println("------------------------------------------------")

		// slight delay between turns for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("All router turns completed successfully!")
}
