package provider

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// AnthropicProvider implements Client for Anthropic Claude models.
type AnthropicProvider struct {
	config *AnthropicConfig

	mu     sync.Mutex
	models map[string]model.ToolCallingChatModel
}

// AnthropicConfig holds configuration for the Anthropic provider.
type AnthropicConfig struct {
	// ID is the provider identifier. Defaults to "anthropic".
	ID        string
	APIKey    string
	BaseURL   string
	MaxTokens int
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(config *AnthropicConfig) (*AnthropicProvider, error) {
	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY not set")
	}
	config.APIKey = apiKey

	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}

	return &AnthropicProvider{
		config: config,
		models: make(map[string]model.ToolCallingChatModel),
	}, nil
}

// ID returns the provider identifier.
func (p *AnthropicProvider) ID() string {
	if p.config.ID != "" {
		return p.config.ID
	}
	return "anthropic"
}

func (p *AnthropicProvider) chatModelFor(ctx context.Context, modelID string) (model.ToolCallingChatModel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cm, ok := p.models[modelID]; ok {
		return cm, nil
	}

	cfg := &claude.Config{
		APIKey:    p.config.APIKey,
		Model:     modelID,
		MaxTokens: p.config.MaxTokens,
	}
	if p.config.BaseURL != "" {
		cfg.BaseURL = &p.config.BaseURL
	}

	cm, err := claude.NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Claude model %s: %w", modelID, err)
	}

	p.models[modelID] = cm
	return cm, nil
}

func (p *AnthropicProvider) prepare(ctx context.Context, req *CompletionRequest) (model.ToolCallingChatModel, []model.Option, error) {
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

	var opts []model.Option
	if req.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(req.MaxTokens))
	}
	if req.Temperature > 0 {
		opts = append(opts, model.WithTemperature(float32(req.Temperature)))
	}

	return cm, opts, nil
}

// Complete generates a full completion, retrying transient failures.
func (p *AnthropicProvider) Complete(ctx context.Context, req *CompletionRequest) (*schema.Message, error) {
	cm, opts, err := p.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	return withRetry(ctx, func() (*schema.Message, error) {
		return cm.Generate(ctx, req.Messages, opts...)
	})
}

// Stream opens a streaming completion, retrying transient open failures.
func (p *AnthropicProvider) Stream(ctx context.Context, req *CompletionRequest) (Stream, error) {
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
