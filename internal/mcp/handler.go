package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/proxasaurus/proxasaurus/internal/dispatch"
)

// errorResult creates an MCP error result. Tool failures are reported inside
// the result (IsError) rather than as JSON-RPC errors, so the agent can read
// and act on them.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// GenericToolHandler routes one MCP tool call through the dispatcher. Every
// registry tool shares this handler; the registry entry drives the behavior.
func GenericToolHandler(d *dispatch.Dispatcher, toolName string) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, perr := bindArguments(r)
		if perr != nil {
			return errorResult("Error: " + perr.Message), nil
		}

		data, derr := d.Call(ctx, toolName, args)
		if derr != nil {
			return errorResult("Error: " + derr.Message), nil
		}
		return renderResult(data), nil
	}
}

// bindArguments extracts the arguments object from the request. A request
// whose arguments are present but not a JSON object is malformed at the
// protocol level.
func bindArguments(r mcp.CallToolRequest) (map[string]interface{}, *dispatch.Error) {
	if r.Params.Arguments == nil {
		return map[string]interface{}{}, nil
	}
	args, ok := r.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, dispatch.ProtocolError("tool arguments must be an object, got %T", r.Params.Arguments)
	}
	return args, nil
}

// renderResult serializes the upstream payload as indented JSON text. Plain
// string payloads (non-JSON upstream bodies) pass through as-is.
func renderResult(data interface{}) *mcp.CallToolResult {
	if s, ok := data.(string); ok {
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(s)}}
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Error: failed to render result: %v", err))
	}
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(out))}}
}
