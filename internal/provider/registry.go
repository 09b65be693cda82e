package provider

import (
	"fmt"
	"strings"
	"sync"

	"github.com/aether-ai/aether/internal/logging"
	"github.com/aether-ai/aether/pkg/types"
)

// Registry manages registered providers keyed by provider ID.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a provider to the registry.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[c.ID()] = c
}

// Get retrieves a provider by ID.
func (r *Registry) Get(id string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.clients[id]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", id)
	}
	return c, nil
}

// IDs returns all registered provider IDs.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.clients))
	for id := range r.clients {
		ids = append(ids, id)
	}
	return ids
}

// Resolve splits a session model string of the form "provider/model" into
// the provider client and the model ID the provider should use. A string
// with no provider prefix resolves against the gateway provider, which
// forwards arbitrary model identifiers upstream.
func (r *Registry) Resolve(modelRef string) (Client, string, error) {
	providerID := "gateway"
	modelID := modelRef

	if idx := strings.IndexByte(modelRef, '/'); idx > 0 {
		if _, err := r.Get(modelRef[:idx]); err == nil {
			providerID = modelRef[:idx]
			modelID = modelRef[idx+1:]
		}
	}

	c, err := r.Get(providerID)
	if err != nil {
		return nil, "", err
	}
	return c, modelID, nil
}

// Initialize builds a registry from configuration. Providers whose
// credentials are missing are skipped with a log line rather than failing
// startup.
func Initialize(cfg *types.Config) (*Registry, error) {
	r := NewRegistry()

	gwCfg := cfg.Provider["gateway"]
	gw, err := NewGatewayProvider(&GatewayConfig{
		APIKey:    gwCfg.APIKey,
		BaseURL:   gwCfg.BaseURL,
		MaxTokens: gwCfg.MaxTokens,
	})
	if err != nil {
		logging.Warn().Err(err).Msg("gateway provider unavailable")
	} else {
		r.Register(gw)
	}

	anCfg := cfg.Provider["anthropic"]
	an, err := NewAnthropicProvider(&AnthropicConfig{
		APIKey:    anCfg.APIKey,
		BaseURL:   anCfg.BaseURL,
		MaxTokens: anCfg.MaxTokens,
	})
	if err != nil {
		logging.Warn().Err(err).Msg("anthropic provider unavailable")
	} else {
		r.Register(an)
	}

	if len(r.IDs()) == 0 {
		return nil, fmt.Errorf("no providers configured")
	}

	return r, nil
}
