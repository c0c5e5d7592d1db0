package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/huangsam/vcxscore/internal/contract"
	mcp_internal "github.com/huangsam/vcxscore/internal/mcp"
	"github.com/huangsam/vcxscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoringJSON = `{
  "IQ_SubScores": [
    {"name": "Texture", "subScoreWeight": 1, "Metrics": [
      {"name": "MTF", "xml_entry": "mtf", "valueType": "float", "formula": "linear", "LGC": 0, "HGC": 1, "weight": 1}
    ]}
  ]
}`

func newTestFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/configs/vcx.json", []byte(scoringJSON), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/cap/Texture/a.xml", []byte("<a><mtf>0.8</mtf></a>"), 0o644))
	return fs
}

func callTool(t *testing.T, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	baseCfg := &contract.Config{
		ConfigPath:     "/configs/vcx.json",
		FormulaVersion: schema.FormulaV15,
		Workers:        2,
	}
	s := mcp_internal.NewMCPServer(baseCfg, newTestFs(t))

	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	req := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	res, err := tool.Handler(context.Background(), req)
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	return res
}

func resultText(res *mcp.CallToolResult) string {
	return res.Content[0].(mcp.TextContent).Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		expected string
	}{
		{name: "score_folder missing folder", tool: "score_folder", args: map[string]any{}, expected: "folder is required"},
		{name: "score_folder unknown folder", tool: "score_folder", args: map[string]any{"folder": "/nowhere"}, expected: "does not exist"},
		{name: "score_folder bad version", tool: "score_folder", args: map[string]any{"folder": "/cap", "formula_version": "v9"}, expected: "invalid formula version"},
		{name: "score_folder missing config", tool: "score_folder", args: map[string]any{"folder": "/cap", "config": "/configs/none.json"}, expected: "config file does not exist"},
		{name: "list_metrics missing config", tool: "list_metrics", args: map[string]any{"config": "/configs/none.json"}, expected: "config file does not exist"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(res), tt.expected)
		})
	}
}

func TestMCPServerHandlers_ScoreFolder(t *testing.T) {
	res := callTool(t, "score_folder", map[string]any{"folder": "/cap", "formula_version": "v2.0"})
	require.False(t, res.IsError, resultText(res))

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
	assert.Equal(t, "v2.0", result["formula_version"])
	assert.InDelta(t, 80.0, result["final_score"], 1e-9)
	assert.Equal(t, "Excellent", result["final_label"])

	subScores := result["sub_scores"].([]any)
	require.Len(t, subScores, 1)
	assert.NotContains(t, subScores[0].(map[string]any), "files")

	t.Run("detail", func(t *testing.T) {
		res := callTool(t, "score_folder", map[string]any{"folder": "/cap", "detail": true})
		require.False(t, res.IsError, resultText(res))
		assert.Contains(t, resultText(res), `"files"`)
	})
}

func TestMCPServerHandlers_ListMetrics(t *testing.T) {
	res := callTool(t, "list_metrics", map[string]any{})
	require.False(t, res.IsError, resultText(res))

	var model schema.MetricsRenderModel
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &model))
	assert.Equal(t, schema.FormulaV15, model.FormulaVersion)
	require.Len(t, model.Metrics, 1)
	assert.Equal(t, "MTF", model.Metrics[0].Metric)
	assert.Equal(t, schema.LinearFormula, model.Metrics[0].Formula)
}

func TestMCPServerHandlers_ScoreFolderNonFiniteField(t *testing.T) {
	fs := newTestFs(t)
	require.NoError(t, afero.WriteFile(fs, "/cap/Texture/b.xml", []byte("<a><mtf>NaN</mtf></a>"), 0o644))
	s := mcp_internal.NewMCPServer(&contract.Config{ConfigPath: "/configs/vcx.json", FormulaVersion: schema.FormulaV15, Workers: 1}, fs)

	tool := s.GetTool("score_folder")
	require.NotNil(t, tool)
	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: "score_folder", Arguments: map[string]any{"folder": "/cap", "detail": true}},
	})
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(res))

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(res)), &result))
	assert.InDelta(t, 80.0, result["final_score"], 1e-9, "the NaN repeat is dropped and a.xml wins")
}
