package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/proxasaurus/proxasaurus/internal/dispatch"
	"github.com/proxasaurus/proxasaurus/internal/registry"
)

// BuildMCPTool converts a registry entry into an mcp.Tool with the
// corresponding input schema.
func BuildMCPTool(t registry.Tool) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(t.Summary)}
	for _, p := range t.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(t.Name, opts...)
}

// buildParamOption maps a registry.Param to the appropriate mcp-go tool option.
func buildParamOption(p registry.Param) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}
	if p.Required {
		opts = append(opts, mcp.Required())
	}
	if len(p.Enum) > 0 {
		opts = append(opts, mcp.Enum(p.Enum...))
	}

	switch p.Type {
	case registry.TypeNumber:
		return mcp.WithNumber(p.Name, opts...)
	case registry.TypeBoolean:
		return mcp.WithBoolean(p.Name, opts...)
	default:
		return mcp.WithString(p.Name, opts...)
	}
}

// RegisterTools registers every registry tool on the MCP server, all routed
// through the same dispatcher.
func RegisterTools(s *server.MCPServer, d *dispatch.Dispatcher) int {
	tools := d.Registry().Tools()
	for _, t := range tools {
		s.AddTool(BuildMCPTool(t), GenericToolHandler(d, t.Name))
	}
	return len(tools)
}
