package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/steward-ai/steward/internal/agent/model"
	logx "github.com/steward-ai/steward/pkg/logger"
)

// ChatModelConfig holds the configuration for classifier model creation
type ChatModelConfig struct {
	APIKey     string
	BaseURL    string
	Classifier *model.ClassifierModelConfig
}

// NewClassifierChatModel creates the Gemini-backed classifier model. The
// router itself only depends on model.BaseChatModel, so tests substitute a
// scripted stub here.
func NewClassifierChatModel(ctx context.Context, config ChatModelConfig) (*gemini.ChatModel, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	chatModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Classifier.Model,
		Temperature: &config.Classifier.Temperature,
		MaxTokens:   &config.Classifier.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	return chatModel, nil
}
