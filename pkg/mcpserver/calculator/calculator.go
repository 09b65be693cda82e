// Package calculator provides a small MCP server used to exercise the
// external tool-provider path: sessions reach its tools through the MCP
// client as calculator_sum and calculator_average.
package calculator

import (
	"context"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates the calculator MCP server.
func NewServer() *server.MCPServer {
	s := server.NewMCPServer(
		"calculator",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	numbersArg := []mcp.ToolOption{
		mcp.WithArray("numbers",
			mcp.Required(),
			mcp.Description("Array of numbers to operate on"),
			mcp.Items(map[string]any{"type": "number"}),
		),
	}

	s.AddTool(
		mcp.NewTool("sum", append([]mcp.ToolOption{
			mcp.WithDescription("Calculates the sum of an array of numbers"),
		}, numbersArg...)...),
		numericHandler(func(numbers []float64) float64 {
			var total float64
			for _, n := range numbers {
				total += n
			}
			return total
		}),
	)

	s.AddTool(
		mcp.NewTool("average", append([]mcp.ToolOption{
			mcp.WithDescription("Calculates the arithmetic mean of an array of numbers"),
		}, numbersArg...)...),
		numericHandler(func(numbers []float64) float64 {
			if len(numbers) == 0 {
				return 0
			}
			var total float64
			for _, n := range numbers {
				total += n
			}
			return total / float64(len(numbers))
		}),
	)

	return s
}

// numericHandler wraps a reduction over the numbers argument as a tool
// handler.
func numericHandler(reduce func([]float64) float64) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		raw, ok := args["numbers"]
		if !ok {
			return mcp.NewToolResultError("numbers argument is required"), nil
		}

		numbers, err := toFloat64Slice(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid numbers: %v", err)), nil
		}

		return mcp.NewToolResultText(formatFloat(reduce(numbers))), nil
	}
}

// toFloat64Slice converts a decoded JSON array to []float64.
func toFloat64Slice(v any) ([]float64, error) {
	switch arr := v.(type) {
	case []any:
		result := make([]float64, len(arr))
		for i, elem := range arr {
			switch n := elem.(type) {
			case float64:
				result[i] = n
			case int:
				result[i] = float64(n)
			case int64:
				result[i] = float64(n)
			default:
				return nil, fmt.Errorf("element %d is not a number: %T", i, elem)
			}
		}
		return result, nil
	case []float64:
		return arr, nil
	default:
		return nil, fmt.Errorf("expected array, got %T", v)
	}
}

// formatFloat formats a float64 without trailing zeros.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
