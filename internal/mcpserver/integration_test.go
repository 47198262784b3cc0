package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestSession creates an in-process MCP server/client pair and returns
// the connected client session. The server is shut down when the test ends.
func startTestSession(t *testing.T) *mcp.ClientSession {
	t.Helper()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "restgen-test", Version: "test"},
		nil,
	)
	registerAllTools(server)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	done := make(chan error, 1)
	go func() {
		done <- server.Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(
		&mcp.Implementation{Name: "test-client", Version: "test"},
		nil,
	)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = session.Close()
		cancel()
		<-done
	})

	return session
}

func TestIntegration_ListTools(t *testing.T) {
	session := startTestSession(t)

	result, err := session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)
	require.NotNil(t, result)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %q has empty description", tool.Name)
	}
	assert.ElementsMatch(t, []string{"generate", "vendors"}, names)
}

func TestIntegration_CallTool_Generate(t *testing.T) {
	session := startTestSession(t)
	outDir := t.TempDir()

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "generate",
		Arguments: map[string]any{
			"spec":         map[string]any{"content": widgetsSpec},
			"package_name": "widgets",
			"vendor":       "stripe",
			"output_dir":   outDir,
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	require.False(t, result.IsError, "generate returned an error result")

	out := unmarshalStructured(t, result)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "widgets", out["package_name"])
	assert.Equal(t, float64(4), out["file_count"])

	_, err = os.Stat(filepath.Join(outDir, "widgets.go"))
	require.NoError(t, err)
}

func TestIntegration_CallTool_Vendors(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "vendors",
		Arguments: map[string]any{"name": "stripe"},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	out := unmarshalStructured(t, result)
	vendors, ok := out["vendors"].([]any)
	require.True(t, ok)
	require.Len(t, vendors, 1)
	stripe := vendors[0].(map[string]any)
	assert.Equal(t, "stripe", stripe["name"])
	assert.Equal(t, []any{"has_more"}, stripe["drivers"])
}

func TestIntegration_CallTool_Error_InvalidSpec(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "generate",
		Arguments: map[string]any{
			"spec":       map[string]any{"content": "this is not valid JSON or YAML for an OAS spec"},
			"output_dir": t.TempDir(),
		},
	})
	require.NoError(t, err, "MCP protocol call should succeed even on tool error")
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "error content should be TextContent")
	assert.NotEmpty(t, text.Text)
}

func TestIntegration_CallTool_Error_MissingSpec(t *testing.T) {
	session := startTestSession(t)

	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name: "generate",
		Arguments: map[string]any{
			"spec":       map[string]any{},
			"output_dir": t.TempDir(),
		},
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

// unmarshalStructured extracts the structured output from a CallToolResult.
// It first checks StructuredContent, then falls back to parsing the first TextContent.
func unmarshalStructured(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()

	// Prefer structured content if available.
	if result.StructuredContent != nil {
		data, err := json.Marshal(result.StructuredContent)
		require.NoError(t, err)
		var m map[string]any
		require.NoError(t, json.Unmarshal(data, &m))
		return m
	}

	// Fall back to parsing text content.
	require.NotEmpty(t, result.Content, "expected at least one content item")
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])

	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &m), "failed to parse text content as JSON")
	return m
}
