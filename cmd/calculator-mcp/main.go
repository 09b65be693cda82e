// Command calculator-mcp runs the calculator MCP server over stdio. Point
// an mcp entry in aether.json at this binary to expose its tools to chat
// sessions.
package main

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/aether-ai/aether/pkg/mcpserver/calculator"
)

func main() {
	if err := server.ServeStdio(calculator.NewServer()); err != nil {
		log.Fatal(err)
	}
}
