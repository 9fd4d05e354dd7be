package kubetools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func describeNodeTool() mcp.Tool {
	return mcp.NewTool("k8s_describe_node",
		mcp.WithDescription("Get detailed information about a node: readiness, roles, versions, capacity, allocatable resources, and conditions."),
		contextParam(),
		mcp.WithString("node_name", mcp.Required(), mcp.Description("Name of the node to describe.")),
	)
}

func describeNodeHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := r.GetString("node_name", "")
		if name == "" {
			return errResult("node_name is required"), nil
		}
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}

		node, err := clientset.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return errResult("failed to get node %q: %v", name, err), nil
		}

		roles := nodeRoles(*node)
		if len(roles) == 0 {
			roles = []string{"worker"}
		}
		conditions := map[string]string{}
		for _, cond := range node.Status.Conditions {
			conditions[string(cond.Type)] = string(cond.Status)
		}
		return jsonResult(map[string]interface{}{
			"name":            node.Name,
			"ready":           nodeReady(*node),
			"schedulable":     !node.Spec.Unschedulable,
			"roles":           roles,
			"kubelet_version": node.Status.NodeInfo.KubeletVersion,
			"os":              node.Status.NodeInfo.OSImage,
			"arch":            node.Status.NodeInfo.Architecture,
			"capacity":        resourceSummary(node.Status.Capacity),
			"allocatable":     resourceSummary(node.Status.Allocatable),
			"conditions":      conditions,
			"created":         node.CreationTimestamp.Format(time.RFC3339),
		}), nil
	}
}

func resourceSummary(list corev1.ResourceList) map[string]string {
	out := map[string]string{}
	for _, name := range []corev1.ResourceName{corev1.ResourceCPU, corev1.ResourceMemory, corev1.ResourcePods} {
		if q, ok := list[name]; ok {
			out[string(name)] = q.String()
		}
	}
	return out
}

func drainNodeTool() mcp.Tool {
	return mcp.NewTool("k8s_drain_node",
		mcp.WithDescription("Cordon a node and evict its pods in preparation for maintenance. Disruptive; confirm with the user before calling."),
		contextParam(),
		mcp.WithString("node_name", mcp.Required(), mcp.Description("Name of the node to drain.")),
		mcp.WithBoolean("ignore_daemonsets", mcp.Description("Leave DaemonSet-managed pods in place (default: true).")),
	)
}

func drainNodeHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := r.GetString("node_name", "")
		if name == "" {
			return errResult("node_name is required"), nil
		}
		ignoreDaemonSets := true
		if v, ok := r.GetArguments()["ignore_daemonsets"].(bool); ok {
			ignoreDaemonSets = v
		}
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}

		node, err := clientset.CoreV1().Nodes().Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return errResult("failed to get node %q: %v", name, err), nil
		}
		node.Spec.Unschedulable = true
		if _, err := clientset.CoreV1().Nodes().Update(ctx, node, metav1.UpdateOptions{}); err != nil {
			return errResult("failed to cordon node %q: %v", name, err), nil
		}

		pods, err := clientset.CoreV1().Pods("").List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list pods on node %q: %v", name, err), nil
		}

		evicted := []string{}
		skipped := []string{}
		evictErrs := []string{}
		for _, pod := range pods.Items {
			if pod.Spec.NodeName != name {
				continue
			}
			ref := pod.Namespace + "/" + pod.Name
			if ignoreDaemonSets && ownedByDaemonSet(pod) {
				skipped = append(skipped, ref+" (DaemonSet)")
				continue
			}
			if isStaticPod(pod) {
				skipped = append(skipped, ref+" (static pod)")
				continue
			}
			if err := clientset.CoreV1().Pods(pod.Namespace).Delete(ctx, pod.Name, metav1.DeleteOptions{}); err != nil {
				evictErrs = append(evictErrs, fmt.Sprintf("%s: %v", ref, err))
				continue
			}
			evicted = append(evicted, ref)
		}
		return jsonResult(map[string]interface{}{
			"node":     name,
			"cordoned": true,
			"evicted":  evicted,
			"skipped":  skipped,
			"errors":   evictErrs,
		}), nil
	}
}

func ownedByDaemonSet(pod corev1.Pod) bool {
	for _, owner := range pod.OwnerReferences {
		if owner.Kind == "DaemonSet" {
			return true
		}
	}
	return false
}

// isStaticPod reports whether the pod is the mirror of a kubelet static pod.
// Static pods are owned by their node, or by nothing at all.
func isStaticPod(pod corev1.Pod) bool {
	if len(pod.OwnerReferences) == 0 {
		return true
	}
	for _, owner := range pod.OwnerReferences {
		if owner.Kind != "Node" {
			return false
		}
	}
	return true
}
