// Package mcp exposes the tool registry over the Model Context Protocol.
// It is a thin adapter: schema generation from registry entries, one generic
// handler per tool, and result rendering. All semantics live in dispatch.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/proxasaurus/proxasaurus/internal/common"
	"github.com/proxasaurus/proxasaurus/internal/dispatch"
)

// Instructions is sent to MCP clients during initialization and frames how
// an agent should use the tool set.
const Instructions = `You are connected to Proxasaurus, an infrastructure management server. ` +
	`Its tools manage Proxmox VE clusters (VMs, containers, nodes, storage, backups, ` +
	`snapshots, alerts, scheduled tasks) and Kubernetes workloads (namespaces, nodes, ` +
	`deployments, pods) through a PegaProx backend.

IMPORTANT: Before performing any destructive or irreversible action (stopping or ` +
	`deleting a VM, rolling back a snapshot, stopping a node, purging disks, draining ` +
	`a Kubernetes node, deleting a namespace), always confirm with the user first. ` +
	`Describe exactly what will happen and ask for explicit approval before proceeding.`

// NewServer builds the MCP server with every registry tool plus get_version
// registered. The caller picks the transport (stdio, SSE, streamable HTTP).
func NewServer(name string, d *dispatch.Dispatcher, upstream dispatch.Upstream, logger *common.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithInstructions(Instructions),
	)

	count := RegisterTools(s, d)
	s.AddTool(VersionTool(), VersionToolHandler(upstream))

	logger.Info().
		Int("tools", count+1).
		Msg("MCP server initialized")

	return s
}
