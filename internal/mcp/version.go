package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/proxasaurus/proxasaurus/internal/common"
	"github.com/proxasaurus/proxasaurus/internal/dispatch"
	"github.com/proxasaurus/proxasaurus/internal/pegaprox"
)

// versionInfo holds version fields for one component.
type versionInfo struct {
	Version string `json:"version"`
	Build   string `json:"build,omitempty"`
	Commit  string `json:"commit,omitempty"`
}

// VersionTool returns the tool definition for get_version.
func VersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get Proxasaurus and PegaProx version info. Use this to verify connectivity to the PegaProx backend."),
	)
}

// VersionToolHandler reports the local version and, when reachable, the
// PegaProx backend version. An unreachable backend degrades gracefully to
// local info only.
func VersionToolHandler(upstream dispatch.Upstream) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := map[string]versionInfo{
			"proxasaurus": {
				Version: common.GetVersion(),
				Build:   common.GetBuild(),
				Commit:  common.GetGitCommit(),
			},
		}

		resp, err := upstream.Do(ctx, pegaprox.Request{Method: "GET", Path: "/api/version"})
		if err == nil && resp.OK() {
			if body, ok := resp.Data.(map[string]interface{}); ok {
				version, _ := body["version"].(string)
				result["pegaprox"] = versionInfo{Version: version}
			}
		}

		out, err := json.Marshal(result)
		if err != nil {
			return errorResult("failed to marshal version info"), nil
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{mcp.NewTextContent(string(out))},
		}, nil
	}
}
