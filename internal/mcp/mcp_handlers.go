package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/vcxscore/core"
	"github.com/huangsam/vcxscore/internal/contract"
	"github.com/huangsam/vcxscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	fs      afero.Fs
}

func (h *toolHandler) handleScoreFolder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if c := request.GetString("config", ""); c != "" {
		cfg.ConfigPath = c
	}
	cfg.Detail = request.GetBool("detail", false)

	if err := contract.RevalidateScore(h.fs, cfg, request.GetString("folder", ""), request.GetString("formula_version", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid score parameters: %v", err)), nil
	}

	// Stdout carries the protocol, so the run stays silent.
	report, _, err := core.GetScoreReport(core.WithSuppressProgress(ctx), cfg, core.NewFsRunner(h.fs, nil))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}

	enriched := schema.EnrichReport(report)
	if !cfg.Detail {
		for i := range enriched.SubScores {
			enriched.SubScores[i].Files = nil
		}
	}
	jsonData, err := json.MarshalIndent(enriched, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode report: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListMetrics(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if c := request.GetString("config", ""); c != "" {
		cfg.ConfigPath = c
	}
	if v := request.GetString("formula_version", ""); v != "" {
		cfg.FormulaVersion = schema.FormulaVersion(strings.ToLower(v))
	}

	model, err := core.GetMetricDefinitions(h.fs, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load metrics: %v", err)), nil
	}

	jsonData, err := json.MarshalIndent(model, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode metrics: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
