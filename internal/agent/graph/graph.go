package graph

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/steward-ai/steward/internal/agent/graph/catalog"
	"github.com/steward-ai/steward/internal/agent/graph/conversations"
	"github.com/steward-ai/steward/internal/agent/graph/dispatch"
	"github.com/steward-ai/steward/internal/agent/graph/nodes"
	"github.com/steward-ai/steward/internal/agent/graph/observers"
	"github.com/steward-ai/steward/internal/agent/graph/tools"
	"github.com/steward-ai/steward/internal/agent/model"
	logx "github.com/steward-ai/steward/pkg/logger"
)

// Router executes one user turn end to end. HandleTurn always returns a
// user-presentable reply: infrastructure failures are logged and degrade to a
// canned apology rather than surfacing transport errors to the user.
type Router interface {
	HandleTurn(ctx context.Context, conversationID, query string) (string, error)
}

// ServiceApologyText is the reply emitted when the turn itself failed
// (classifier unreachable, transcript store down).
const ServiceApologyText = "My apologies, I am having trouble reaching my tools just now. Please try again shortly."

// Config holds everything needed to compose the full router end-to-end.
// This is a convenience layer over GraphConfig that also constructs the
// Gemini classifier, circuit breaker, catalog and MessagesManager.
type Config struct {
	APIKey           string
	BaseURL          string
	Classifier       model.ClassifierModelConfig
	Prompt           model.ClassifierPromptConfig
	Conversation     model.ConversationConfig
	Breaker          model.BreakerConfig
	ConversationRepo model.ConversationRepository

	// Tools overrides the default household tool set when non-nil.
	Tools []tool.BaseTool
}

// GraphConfig holds all configuration needed to build the graph.
// The classifier is injected as a plain BaseChatModel so tests can substitute
// a scripted stub.
type GraphConfig struct {
	ChatModel       einomodel.BaseChatModel
	ModelName       string
	MessagesManager *conversations.MessagesManager
	Catalog         *catalog.Catalog
	PromptConfig    model.ClassifierPromptConfig
	MaxToolCalls    int
}

// GraphBuilder handles the construction of the router graph
type GraphBuilder struct {
	config *GraphConfig
	graph  *compose.Graph[model.QueryInput, *schema.Message]
}

type graphRouter struct {
	runnable compose.Runnable[model.QueryInput, *schema.Message]
}

func (r *graphRouter) HandleTurn(ctx context.Context, conversationID, query string) (string, error) {
	if strings.TrimSpace(conversationID) == "" {
		return "", fmt.Errorf("conversation id is empty")
	}
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("query is empty")
	}

	out, err := r.runnable.Invoke(ctx, model.QueryInput{
		ConversationID: conversationID,
		Query:          query,
	}, compose.WithCallbacks(observers.NewAllCallbacks()))
	if err != nil {
		logx.Error().Err(err).
			Str("conversation_id", conversationID).
			Msg("Turn failed - degrading to service apology")
		return ServiceApologyText, nil
	}
	if out == nil {
		return "", fmt.Errorf("graph returned nil output")
	}
	return out.Content, nil
}

// BuildRouter composes the classifier model, catalog, MessagesManager, builds
// the graph and returns a ready Router.
func BuildRouter(ctx context.Context, cfg Config) (Router, error) {
	if cfg.ConversationRepo == nil {
		return nil, fmt.Errorf("conversation repo is nil")
	}

	chatModel, err := nodes.NewClassifierChatModel(ctx, nodes.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Classifier: &cfg.Classifier,
	})
	if err != nil {
		return nil, err
	}
	protected := nodes.NewBreakerChatModel(cfg.Classifier.Model, chatModel, cfg.Breaker)

	cat := catalog.New()
	toolSet := cfg.Tools
	if toolSet == nil {
		toolSet = tools.GetHouseholdTools()
	}
	if err := cat.RegisterAll(ctx, toolSet); err != nil {
		return nil, fmt.Errorf("register tools: %w", err)
	}

	mm := conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)

	runnable, err := BuildGraph(ctx, &GraphConfig{
		ChatModel:       protected,
		ModelName:       cfg.Classifier.Model,
		MessagesManager: mm,
		Catalog:         cat,
		PromptConfig:    cfg.Prompt,
		MaxToolCalls:    cfg.Conversation.Turn.MaxToolCalls,
	})
	if err != nil {
		return nil, err
	}

	logx.Debug().Msg("Router graph built successfully")
	return &graphRouter{runnable: runnable}, nil
}

// BuildGraph constructs and returns the compiled router graph
func BuildGraph(ctx context.Context, config *GraphConfig) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Basic config validation
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.ChatModel == nil {
		return nil, fmt.Errorf("chat model is not initialized")
	}
	if config.MessagesManager == nil {
		return nil, fmt.Errorf("messages manager is nil")
	}
	if config.Catalog == nil || config.Catalog.Len() == 0 {
		return nil, fmt.Errorf("tool catalog is empty")
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[model.QueryInput, *schema.Message](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	builder.addNodes()
	builder.addEdges()

	if err := builder.addBranches(); err != nil {
		return nil, err
	}

	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() {
	dispatcher := dispatch.NewDispatcher(b.config.Catalog, b.config.MessagesManager)

	b.graph.AddLambdaNode(nodes.NodeInputConverter,
		nodes.NewInputConverterNode(b.config.MessagesManager, b.config.PromptConfig, b.config.Catalog),
		compose.WithStatePreHandler(nodes.NewInputConverterPreHandler()),
	)

	b.graph.AddChatModelNode(nodes.NodeClassifierChatModel,
		b.config.ChatModel,
		compose.WithStatePreHandler(nodes.NewClassifierPreHandler()),
		compose.WithStatePostHandler(nodes.NewClassifierPostHandler(b.config.ModelName)),
	)

	b.graph.AddLambdaNode(nodes.NodeDecisionParser,
		nodes.NewDecisionParserNode(),
		compose.WithStatePostHandler(nodes.NewDecisionParserPostHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeToolDispatcher,
		nodes.NewToolDispatcherNode(dispatcher),
		compose.WithStatePreHandler(nodes.NewToolDispatcherPreHandler()),
	)

	b.graph.AddLambdaNode(nodes.NodeReclassifyAssembler,
		nodes.NewReclassifyAssemblerNode(),
	)

	b.graph.AddLambdaNode(nodes.NodeReplyEmitter,
		nodes.NewReplyEmitterNode(b.config.MessagesManager),
	)

	b.graph.AddLambdaNode(nodes.NodeTurnLimitStop,
		nodes.NewTurnLimitStopNode(b.config.MessagesManager),
	)
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() {
	edges := [][2]string{
		{compose.START, nodes.NodeInputConverter},
		{nodes.NodeInputConverter, nodes.NodeClassifierChatModel},
		{nodes.NodeClassifierChatModel, nodes.NodeDecisionParser},
		{nodes.NodeToolDispatcher, nodes.NodeReclassifyAssembler},
		{nodes.NodeReclassifyAssembler, nodes.NodeClassifierChatModel},
		{nodes.NodeReplyEmitter, compose.END},
		{nodes.NodeTurnLimitStop, compose.END},
	}

	for _, edge := range edges {
		b.graph.AddEdge(edge[0], edge[1])
	}
}

// addBranches creates the decision routing branch
func (b *GraphBuilder) addBranches() error {
	decisionBranch := compose.NewGraphBranch(
		nodes.NewDecisionRouteCondition(b.config.MaxToolCalls),
		map[string]bool{
			nodes.NodeReplyEmitter:   true,
			nodes.NodeToolDispatcher: true,
			nodes.NodeTurnLimitStop:  true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeDecisionParser, decisionBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding decision branch")
		return fmt.Errorf("error adding decision branch: %w", err)
	}

	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[model.QueryInput, *schema.Message], error) {
	// Each tool hop consumes four steps (dispatch, assemble, classify, parse);
	// cap total run steps so a routing bug cannot loop forever.
	maxToolCalls := b.config.MaxToolCalls
	if maxToolCalls <= 0 {
		maxToolCalls = nodes.DefaultMaxToolCalls
	}
	maxSteps := 10 + maxToolCalls*4
	if maxSteps < 20 {
		maxSteps = 20
	}

	runnable, err := b.graph.Compile(ctx, compose.WithMaxRunSteps(maxSteps))
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}
