package provider

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// GatewayProvider implements Client for any OpenAI-compatible endpoint,
// including AI gateways that front multiple upstream models behind one
// chat-completions API.
type GatewayProvider struct {
	config *GatewayConfig

	mu     sync.Mutex
	models map[string]model.ToolCallingChatModel // keyed by model ID
}

// GatewayConfig holds configuration for the gateway provider.
type GatewayConfig struct {
	// ID is the provider identifier. Defaults to "gateway".
	ID        string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// NewGatewayProvider creates a new OpenAI-compatible gateway provider.
func NewGatewayProvider(config *GatewayConfig) (*GatewayProvider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("AETHER_AI_API_KEY")
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gateway API key not set")
	}
	config.APIKey = apiKey

	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}

	return &GatewayProvider{
		config: config,
		models: make(map[string]model.ToolCallingChatModel),
	}, nil
}

// ID returns the provider identifier.
func (p *GatewayProvider) ID() string {
	if p.config.ID != "" {
		return p.config.ID
	}
	return "gateway"
}

// chatModelFor returns a chat model bound to the given model ID, creating
// and caching it on first use. Model identity is per-request because the
// session's selected model can change between turns.
func (p *GatewayProvider) chatModelFor(ctx context.Context, modelID string) (model.ToolCallingChatModel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cm, ok := p.models[modelID]; ok {
		return cm, nil
	}

	maxTokens := p.config.MaxTokens
	cfg := &openai.ChatModelConfig{
		APIKey:              p.config.APIKey,
		Model:               modelID,
		MaxCompletionTokens: &maxTokens,
	}
	if p.config.BaseURL != "" {
		cfg.BaseURL = p.config.BaseURL
	}

	cm, err := openai.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway model %s: %w", modelID, err)
	}

	p.models[modelID] = cm
	return cm, nil
}

// prepare binds tools and builds call options for a request.
func (p *GatewayProvider) prepare(ctx context.Context, req *CompletionRequest) (model.ToolCallingChatModel, []model.Option, error) {
	cm, err := p.chatModelFor(ctx, req.Model)
	if err != nil {
		return nil, nil, err
	}

	if len(req.Tools) > 0 {
		cm, err = cm.WithTools(req.Tools)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to bind tools: %w", err)
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = p.config.MaxTokens
	}

	opts := []model.Option{openai.WithMaxCompletionTokens(maxTokens)}
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}

	return cm, opts, nil
}

// Complete generates a full completion, retrying transient failures.
func (p *GatewayProvider) Complete(ctx context.Context, req *CompletionRequest) (*schema.Message, error) {
	cm, opts, err := p.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	return withRetry(ctx, func() (*schema.Message, error) {
		return cm.Generate(ctx, req.Messages, opts...)
	})
}

// Stream opens a streaming completion, retrying transient open failures.
func (p *GatewayProvider) Stream(ctx context.Context, req *CompletionRequest) (Stream, error) {
	cm, opts, err := p.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	reader, err := withRetry(ctx, func() (*schema.StreamReader[*schema.Message], error) {
		return cm.Stream(ctx, req.Messages, opts...)
	})
	if err != nil {
		return nil, err
	}

	return &einoStream{reader: reader}, nil
}

// GatewayModels lists a few well-known models reachable through a gateway.
// The session is free to select any model ID the gateway accepts.
func GatewayModels() []string {
	return []string{
		"google-ai-studio/gemini-2.5-flash",
		"google-ai-studio/gemini-2.5-pro",
		"openai/gpt-4o",
		"openai/gpt-4o-mini",
	}
}
