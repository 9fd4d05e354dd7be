package kubetools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func nodeMetricsTool() mcp.Tool {
	return mcp.NewTool("k8s_node_metrics",
		mcp.WithDescription("Get current CPU and memory usage per node. Requires metrics-server in the cluster."),
		contextParam(),
	)
}

func nodeMetricsHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics, err := f.MetricsForContext(r.GetString("context", ""))
		if err != nil {
			return errResult("%v", err), nil
		}
		list, err := metrics.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to fetch node metrics (is metrics-server installed?): %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(list.Items))
		for _, m := range list.Items {
			out = append(out, map[string]interface{}{
				"name":      m.Name,
				"cpu":       usageString(m.Usage, corev1.ResourceCPU),
				"memory":    usageString(m.Usage, corev1.ResourceMemory),
				"timestamp": m.Timestamp.Format(time.RFC3339),
			})
		}
		return jsonResult(out), nil
	}
}

func podMetricsTool() mcp.Tool {
	return mcp.NewTool("k8s_pod_metrics",
		mcp.WithDescription("Get current CPU and memory usage per pod, optionally scoped to a namespace. Requires metrics-server in the cluster."),
		contextParam(),
		mcp.WithString("namespace", mcp.Description("Namespace to fetch pod metrics from. Omit for all namespaces.")),
	)
}

func podMetricsHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics, err := f.MetricsForContext(r.GetString("context", ""))
		if err != nil {
			return errResult("%v", err), nil
		}
		namespace := r.GetString("namespace", "")
		list, err := metrics.MetricsV1beta1().PodMetricses(namespace).List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to fetch pod metrics (is metrics-server installed?): %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(list.Items))
		for _, m := range list.Items {
			containers := make([]map[string]interface{}, 0, len(m.Containers))
			for _, c := range m.Containers {
				containers = append(containers, map[string]interface{}{
					"name":   c.Name,
					"cpu":    usageString(c.Usage, corev1.ResourceCPU),
					"memory": usageString(c.Usage, corev1.ResourceMemory),
				})
			}
			out = append(out, map[string]interface{}{
				"name":       m.Name,
				"namespace":  m.Namespace,
				"containers": containers,
				"timestamp":  m.Timestamp.Format(time.RFC3339),
			})
		}
		return jsonResult(out), nil
	}
}

func usageString(usage corev1.ResourceList, name corev1.ResourceName) string {
	if q, ok := usage[name]; ok {
		return q.String()
	}
	return ""
}
