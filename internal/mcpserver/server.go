// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes restgen as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/restgen"
)

const serverInstructions = `restgen MCP server: generates Go REST client SDKs from OpenAPI 3 documents.

Configuration: All defaults are configurable via RESTGEN_* environment variables set in your MCP client config.

Key settings:
- RESTGEN_VENDOR (default: generic) - vendor profile used when a call names none
- RESTGEN_STRICT (default: false) - fail generation on warnings
- RESTGEN_CACHE_ENABLED (default: true) - reuse generation results for repeat calls
- RESTGEN_CACHE_FILE_TTL (default: 15m) - cache TTL for local files; edits to the file always miss
- RESTGEN_CACHE_URL_TTL (default: 5m) - cache TTL for fetched documents
- RESTGEN_MAX_INLINE_SIZE (default: 10MiB) - largest inline document accepted
- RESTGEN_ALLOW_PRIVATE_IPS (default: false) - allow fetching from private addresses

Call vendors first to see which pagination drivers each vendor profile permits.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "restgen", Version: restgen.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Generate a Go REST client SDK from an OpenAPI 3 document. Provide exactly one of spec.file, spec.url or spec.content, plus output_dir. Each tag becomes a resource type with one method per operation; paginated list operations get a single-page method and an all-pages method. Returns a manifest of generated files and any warnings.",
	}, handleGenerate)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "vendors",
		Description: "List the built-in vendor profiles with the pagination drivers, noise parameters and tag rules each one applies. Pass name to show a single profile.",
	}, handleVendors)
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
