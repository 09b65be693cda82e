package tool

import (
	"fmt"
	"strings"

	"github.com/aether-ai/aether/pkg/types"
)

// listFiles reports the workspace contents as a bulleted list.
func listFiles(host Host) types.ToolResult {
	files := host.ListFiles()
	if len(files) == 0 {
		return types.TextResult{Content: "The workspace is empty."}
	}
	return types.TextResult{Content: "Files in workspace:\n- " + strings.Join(files, "\n- ")}
}

// readFile returns a file's content verbatim.
func readFile(args map[string]any, host Host) types.ToolResult {
	filename, ok := stringArg(args, "filename")
	if !ok {
		return errorResult("filename parameter is required")
	}

	content, ok := host.ReadFile(filename)
	if !ok {
		return errorResult(fmt.Sprintf("File not found: %s", filename))
	}
	return types.TextResult{Content: content}
}

// writeFile creates or overwrites a workspace file.
func writeFile(args map[string]any, host Host) types.ToolResult {
	filename, ok := stringArg(args, "filename")
	if !ok {
		return errorResult("filename parameter is required")
	}
	content, _ := args["content"].(string)

	host.WriteFile(filename, content)
	return types.TextResult{Content: fmt.Sprintf("File %q has been written successfully.", filename)}
}
