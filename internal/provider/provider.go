// Package provider implements the model-client capability on the Eino
// framework. Given a message history and tool schemas it produces a
// completion, either whole or as a token stream, optionally requesting tool
// invocations. Retry policy for transient API failures lives here, not in
// the session actor.
package provider

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/eino/schema"

	"github.com/aether-ai/aether/pkg/types"
)

// Client is the model-client capability consumed by the session actor and
// the diagram tool.
type Client interface {
	// ID returns the provider identifier.
	ID() string

	// Complete generates a full completion in one call.
	Complete(ctx context.Context, req *CompletionRequest) (*schema.Message, error)

	// Stream generates a completion as a token stream.
	Stream(ctx context.Context, req *CompletionRequest) (Stream, error)
}

// CompletionRequest represents a request to generate a completion.
type CompletionRequest struct {
	Model       string             `json:"model"`
	Messages    []*schema.Message  `json:"messages"`
	Tools       []*schema.ToolInfo `json:"tools,omitempty"`
	MaxTokens   int                `json:"maxTokens,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
}

// Stream yields completion chunks in arrival order.
type Stream interface {
	// Recv returns the next chunk, or io.EOF when the stream ends.
	Recv() (*schema.Message, error)

	// Close releases the stream.
	Close()
}

// einoStream adapts an Eino stream reader to Stream.
type einoStream struct {
	reader *schema.StreamReader[*schema.Message]
}

func (s *einoStream) Recv() (*schema.Message, error) {
	return s.reader.Recv()
}

func (s *einoStream) Close() {
	s.reader.Close()
}

// ToolInfos converts published tool definitions to Eino tool infos.
func ToolInfos(defs []types.ToolDefinition) []*schema.ToolInfo {
	result := make([]*schema.ToolInfo, 0, len(defs))
	for _, d := range defs {
		paramsJSON, err := json.Marshal(d.Function.Parameters)
		if err != nil {
			continue
		}
		result = append(result, &schema.ToolInfo{
			Name:        d.Function.Name,
			Desc:        d.Function.Description,
			ParamsOneOf: schema.NewParamsOneOfByParams(parseJSONSchemaToParams(paramsJSON)),
		})
	}
	return result
}

// parseJSONSchemaToParams converts JSON Schema to Eino ParameterInfo.
func parseJSONSchemaToParams(schemaJSON json.RawMessage) map[string]*schema.ParameterInfo {
	var jsonSchema struct {
		Properties map[string]struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		} `json:"properties"`
		Required []string `json:"required"`
	}

	if err := json.Unmarshal(schemaJSON, &jsonSchema); err != nil {
		return nil
	}

	requiredSet := make(map[string]bool)
	for _, r := range jsonSchema.Required {
		requiredSet[r] = true
	}

	params := make(map[string]*schema.ParameterInfo)
	for name, prop := range jsonSchema.Properties {
		paramType := schema.String
		switch prop.Type {
		case "integer":
			paramType = schema.Integer
		case "number":
			paramType = schema.Number
		case "boolean":
			paramType = schema.Boolean
		case "array":
			paramType = schema.Array
		case "object":
			paramType = schema.Object
		}

		params[name] = &schema.ParameterInfo{
			Type:     paramType,
			Desc:     prop.Description,
			Required: requiredSet[name],
		}
	}

	return params
}
