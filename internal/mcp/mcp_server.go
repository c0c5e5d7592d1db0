// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/afero"
)

// NewMCPServer initializes and configures the VCX MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, fs afero.Fs) *server.MCPServer {
	s := server.NewMCPServer(
		"VCX Score Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		fs:      fs,
	}

	// --- 1. Tool: score_folder ---
	s.AddTool(mcp.NewTool("score_folder",
		mcp.WithDescription("Compute the VCX image quality score of a folder of IQ analyzer results."),
		mcp.WithString("folder", mcp.Description("Capture folder holding one testcase folder per sub-score."), mcp.Required()),
		mcp.WithString("config", mcp.Description("Path to the scoring configuration (defaults to the server configuration).")),
		mcp.WithString("formula_version", mcp.Description("Formula family to score with. Defaults to the server setting."), mcp.Enum("v1.5", "v2.0")),
		mcp.WithBoolean("detail", mcp.Description("Include per-file metric results.")),
	), h.handleScoreFolder)

	// --- 2. Tool: list_metrics ---
	s.AddTool(mcp.NewTool("list_metrics",
		mcp.WithDescription("List every metric of a scoring configuration with its value type, formula and weight."),
		mcp.WithString("config", mcp.Description("Path to the scoring configuration (defaults to the server configuration).")),
		mcp.WithString("formula_version", mcp.Description("Formula family used to validate the formulas."), mcp.Enum("v1.5", "v2.0")),
	), h.handleListMetrics)

	return s
}

// StartMCPServer starts the VCX MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg, afero.NewOsFs())
	return server.ServeStdio(s)
}
