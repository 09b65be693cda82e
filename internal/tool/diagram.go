package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/aether-ai/aether/pkg/types"
)

const (
	diagramSystemPrompt = "You are a Mermaid syntax expert. Generate only the Mermaid code for the given description. Do not include any explanations or markdown fences like ```mermaid."
	diagramMaxTokens    = 2000
)

// generateDiagram runs a nested completion against the session's current
// model to produce Mermaid syntax, then hands it to the canvas.
func generateDiagram(ctx context.Context, args map[string]any, host Host) types.ToolResult {
	description, ok := stringArg(args, "description")
	if !ok {
		return errorResult("Diagram description is required.")
	}

	user := fmt.Sprintf("Generate a Mermaid diagram for: %s", description)
	syntax, err := host.Complete(ctx, diagramSystemPrompt, user, diagramMaxTokens)
	if err != nil {
		return errorResult(err.Error())
	}

	syntax = strings.TrimSpace(syntax)
	if syntax == "" {
		return errorResult("Failed to generate diagram syntax.")
	}

	return types.CanvasContent{ContentType: "mermaid", Content: syntax}
}
