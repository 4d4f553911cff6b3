package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewAgentVetMCPServer creates an MCP server exposing the validation
// pipeline to AI coding assistants over stdio. The projectPath is the root
// whose config and hash registry apply.
func NewAgentVetMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"agentvet",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, projectPath)

	return s
}
