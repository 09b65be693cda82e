package tool

import "github.com/aether-ai/aether/pkg/types"

// builtinTools is the static schema table for the built-in tool surface.
var builtinTools = []types.ToolDefinition{
	{
		Type: "function",
		Function: types.ToolFunction{
			Name:        "get_weather",
			Description: "Get current weather information for a location",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"location": map[string]any{
						"type":        "string",
						"description": "The city or location name",
					},
				},
				"required": []string{"location"},
			},
		},
	},
	{
		Type: "function",
		Function: types.ToolFunction{
			Name:        "web_search",
			Description: "Search the web using Google or fetch content from a specific URL",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Search query for Google search",
					},
					"url": map[string]any{
						"type":        "string",
						"description": "Specific URL to fetch content from (alternative to search)",
					},
					"num_results": map[string]any{
						"type":        "number",
						"description": "Number of search results to return (default: 5, max: 10)",
						"default":     5,
					},
				},
				"required": []string{},
			},
		},
	},
	{
		Type: "function",
		Function: types.ToolFunction{
			Name:        "display_on_canvas",
			Description: "Display rich content like markdown or code snippets on a dedicated canvas panel in the UI.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"contentType": map[string]any{
						"type":        "string",
						"description": `The type of content to display. e.g., "markdown", "code", "mermaid".`,
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The actual content to display.",
					},
				},
				"required": []string{"contentType", "content"},
			},
		},
	},
	{
		Type: "function",
		Function: types.ToolFunction{
			Name:        "generate_diagram",
			Description: "Generate a Mermaid syntax diagram (e.g., flowchart, sequence diagram) based on a description and display it on the canvas.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"description": map[string]any{
						"type":        "string",
						"description": "A detailed description of the diagram to generate.",
					},
				},
				"required": []string{"description"},
			},
		},
	},
	{
		Type: "function",
		Function: types.ToolFunction{
			Name:        "list_files",
			Description: "List all files in the current project workspace.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	},
	{
		Type: "function",
		Function: types.ToolFunction{
			Name:        "read_file",
			Description: "Read the content of a specific file from the workspace.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filename": map[string]any{
						"type":        "string",
						"description": "The full path of the file to read.",
					},
				},
				"required": []string{"filename"},
			},
		},
	},
	{
		Type: "function",
		Function: types.ToolFunction{
			Name:        "write_file",
			Description: "Write or overwrite a file in the workspace with new content.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"filename": map[string]any{
						"type":        "string",
						"description": "The full path of the file to write.",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "The new content for the file.",
					},
				},
				"required": []string{"filename", "content"},
			},
		},
	},
}
