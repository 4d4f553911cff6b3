package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	configAdapter "github.com/agentvet/agentvet/internal/adapters/outbound/config"
	"github.com/agentvet/agentvet/internal/adapters/outbound/loader"
	registryAdapter "github.com/agentvet/agentvet/internal/adapters/outbound/registry"
	"github.com/agentvet/agentvet/internal/application"
	"github.com/agentvet/agentvet/internal/domain"
)

// registerTools registers all agentvet MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. agentvet_validate
	s.AddTool(
		mcplib.NewTool("agentvet_validate",
			mcplib.WithDescription("Validate a component document and return the aggregate result as JSON"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the component document"),
			),
			mcplib.WithString("validators",
				mcplib.Description("Comma-separated validator subset (structural,integrity,semantic,reference)"),
			),
			mcplib.WithBoolean("strict", mcplib.Description("Count semantic warnings toward invalidity")),
		),
		handleValidate(projectPath),
	)

	// 2. agentvet_security_report
	s.AddTool(
		mcplib.NewTool("agentvet_security_report",
			mcplib.WithDescription("Run the adversarial-pattern rules over a document and return the risk classification"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the component document"),
			),
		),
		handleSecurityReport(projectPath),
	)

	// 3. agentvet_link_stats
	s.AddTool(
		mcplib.NewTool("agentvet_link_stats",
			mcplib.WithDescription("Return reference counts (total, https, http, https percentage) for a document"),
			mcplib.WithString("file",
				mcplib.Required(),
				mcplib.Description("Path to the component document"),
			),
		),
		handleLinkStats(projectPath),
	)
}

// newService builds the validation service for one tool call. The registry
// store lives for the duration of the call.
func newService(projectPath string) (*application.ValidateService, domain.RegistryStore, domain.VetConfig, error) {
	cfg, err := configAdapter.New().Load(projectPath)
	if err != nil {
		return nil, nil, domain.VetConfig{}, fmt.Errorf("loading config: %w", err)
	}
	store, err := registryAdapter.Open(cfg.RegistryBackend, projectPath)
	if err != nil {
		return nil, nil, domain.VetConfig{}, err
	}
	return application.NewValidateService(store, cfg, projectPath, nil), store, cfg, nil
}

func handleValidate(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc, store, cfg, err := newService(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer func() { _ = store.Close() }()

		c, err := loader.New(cfg.ExcludePaths).LoadFile(file)
		if err != nil {
			return errorResult(fmt.Sprintf("loading component: %v", err)), nil
		}

		opts := application.Options{Strict: request.GetBool("strict", false)}
		if validators := request.GetString("validators", ""); validators != "" {
			opts.Validators = splitList(validators)
		}

		return jsonResult(svc.ValidateComponent(c, opts))
	}
}

func handleSecurityReport(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc, store, cfg, err := newService(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer func() { _ = store.Close() }()

		c, err := loader.New(cfg.ExcludePaths).LoadFile(file)
		if err != nil {
			return errorResult(fmt.Sprintf("loading component: %v", err)), nil
		}

		return jsonResult(svc.SecurityReport(c))
	}
}

func handleLinkStats(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		file, err := request.RequireString("file")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc, store, cfg, err := newService(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		defer func() { _ = store.Close() }()

		c, err := loader.New(cfg.ExcludePaths).LoadFile(file)
		if err != nil {
			return errorResult(fmt.Sprintf("loading component: %v", err)), nil
		}

		return jsonResult(svc.LinkStats(c))
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// jsonResult marshals v into a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// errorResult returns a tool error without failing the MCP call itself.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
