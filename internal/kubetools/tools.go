package kubetools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/proxasaurus/proxasaurus/internal/common"
)

const restartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

// Register adds all Kubernetes tools to the MCP server.
func Register(s *server.MCPServer, f ClientFactory, logger *common.Logger) int {
	tools := []struct {
		tool    mcp.Tool
		handler server.ToolHandlerFunc
	}{
		{listContextsTool(), listContextsHandler(f)},
		{clusterInfoTool(), clusterInfoHandler(f)},
		{listNamespacesTool(), listNamespacesHandler(f)},
		{createNamespaceTool(), createNamespaceHandler(f)},
		{deleteNamespaceTool(), deleteNamespaceHandler(f)},
		{listNodesTool(), listNodesHandler(f)},
		{describeNodeTool(), describeNodeHandler(f)},
		{cordonNodeTool(), setNodeSchedulableHandler(f, true)},
		{uncordonNodeTool(), setNodeSchedulableHandler(f, false)},
		{drainNodeTool(), drainNodeHandler(f)},
		{nodeMetricsTool(), nodeMetricsHandler(f)},
		{podMetricsTool(), podMetricsHandler(f)},
		{listPodsTool(), listPodsHandler(f)},
		{listDeploymentsTool(), listDeploymentsHandler(f)},
		{scaleDeploymentTool(), scaleDeploymentHandler(f)},
		{restartDeploymentTool(), restartDeploymentHandler(f)},
		{listStatefulSetsTool(), listStatefulSetsHandler(f)},
		{listJobsTool(), listJobsHandler(f)},
		{podLogsTool(), podLogsHandler(f)},
		{listServicesTool(), listServicesHandler(f)},
		{listIngressesTool(), listIngressesHandler(f)},
	}
	for _, t := range tools {
		s.AddTool(t.tool, t.handler)
	}
	logger.Info().Int("tools", len(tools)).Msg("kubernetes tools registered")
	return len(tools)
}

// errResult creates an MCP error result.
func errResult(format string, args ...interface{}) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent("Error: " + fmt.Sprintf(format, args...))},
		IsError: true,
	}
}

// jsonResult renders a payload as indented JSON text.
func jsonResult(v interface{}) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errResult("failed to render result: %v", err)
	}
	return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(out))}}
}

// contextParam is the shared optional kubeconfig context argument.
func contextParam() mcp.ToolOption {
	return mcp.WithString("context",
		mcp.Description("Kubeconfig context to use. Defaults to the current context."),
	)
}

func clientFor(f ClientFactory, r mcp.CallToolRequest) (kubernetes.Interface, *mcp.CallToolResult) {
	clientset, err := f.ForContext(r.GetString("context", ""))
	if err != nil {
		return nil, errResult("%v", err)
	}
	return clientset, nil
}

// --- Contexts / cluster ---

func listContextsTool() mcp.Tool {
	return mcp.NewTool("k8s_list_contexts",
		mcp.WithDescription("List all Kubernetes contexts from the kubeconfig and show which one is current."),
	)
}

func listContextsHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		names, current, err := f.Contexts()
		if err != nil {
			return errResult("%v", err), nil
		}
		return jsonResult(map[string]interface{}{
			"contexts": names,
			"current":  current,
		}), nil
	}
}

func clusterInfoTool() mcp.Tool {
	return mcp.NewTool("k8s_cluster_info",
		mcp.WithDescription("Get Kubernetes cluster version, node count, and namespace count."),
		contextParam(),
	)
}

func clusterInfoHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}

		info := map[string]interface{}{}
		if version, err := clientset.Discovery().ServerVersion(); err == nil {
			info["server_version"] = version.GitVersion
		}
		nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list nodes: %v", err), nil
		}
		info["node_count"] = len(nodes.Items)
		namespaces, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list namespaces: %v", err), nil
		}
		info["namespace_count"] = len(namespaces.Items)
		return jsonResult(info), nil
	}
}

func listNamespacesTool() mcp.Tool {
	return mcp.NewTool("k8s_list_namespaces",
		mcp.WithDescription("List all namespaces in a Kubernetes cluster."),
		contextParam(),
	)
}

func listNamespacesHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		namespaces, err := clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list namespaces: %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(namespaces.Items))
		for _, ns := range namespaces.Items {
			out = append(out, map[string]interface{}{
				"name":   ns.Name,
				"status": string(ns.Status.Phase),
			})
		}
		return jsonResult(out), nil
	}
}

func createNamespaceTool() mcp.Tool {
	return mcp.NewTool("k8s_create_namespace",
		mcp.WithDescription("Create a namespace, optionally with labels."),
		contextParam(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the namespace to create.")),
		mcp.WithString("labels", mcp.Description("Labels as comma-separated key=value pairs, e.g. 'team=infra,env=prod'.")),
	)
}

func createNamespaceHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := r.GetString("name", "")
		if name == "" {
			return errResult("name is required"), nil
		}
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}

		ns := &corev1.Namespace{
			ObjectMeta: metav1.ObjectMeta{
				Name:   name,
				Labels: parseLabels(r.GetString("labels", "")),
			},
		}
		if _, err := clientset.CoreV1().Namespaces().Create(ctx, ns, metav1.CreateOptions{}); err != nil {
			return errResult("failed to create namespace %q: %v", name, err), nil
		}
		return jsonResult(map[string]interface{}{
			"namespace": name,
			"created":   true,
		}), nil
	}
}

// parseLabels converts "k=v,k2=v2" into a label map. Malformed pairs are
// skipped.
func parseLabels(s string) map[string]string {
	if s == "" {
		return nil
	}
	labels := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || key == "" {
			continue
		}
		labels[key] = value
	}
	if len(labels) == 0 {
		return nil
	}
	return labels
}

func deleteNamespaceTool() mcp.Tool {
	return mcp.NewTool("k8s_delete_namespace",
		mcp.WithDescription("Delete a namespace and everything in it. Destructive and irreversible; confirm with the user before calling."),
		contextParam(),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the namespace to delete.")),
	)
}

func deleteNamespaceHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name := r.GetString("name", "")
		if name == "" {
			return errResult("name is required"), nil
		}
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		if err := clientset.CoreV1().Namespaces().Delete(ctx, name, metav1.DeleteOptions{}); err != nil {
			return errResult("failed to delete namespace %q: %v", name, err), nil
		}
		return jsonResult(map[string]interface{}{
			"namespace": name,
			"deleted":   true,
		}), nil
	}
}

// --- Nodes ---

func listNodesTool() mcp.Tool {
	return mcp.NewTool("k8s_list_nodes",
		mcp.WithDescription("List Kubernetes nodes with readiness, roles, kubelet version, and schedulability."),
		contextParam(),
	)
}

func listNodesHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list nodes: %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(nodes.Items))
		for _, node := range nodes.Items {
			out = append(out, map[string]interface{}{
				"name":            node.Name,
				"ready":           nodeReady(node),
				"roles":           nodeRoles(node),
				"kubelet_version": node.Status.NodeInfo.KubeletVersion,
				"unschedulable":   node.Spec.Unschedulable,
			})
		}
		return jsonResult(out), nil
	}
}

func nodeReady(node corev1.Node) bool {
	for _, cond := range node.Status.Conditions {
		if cond.Type == corev1.NodeReady {
			return cond.Status == corev1.ConditionTrue
		}
	}
	return false
}

func nodeRoles(node corev1.Node) []string {
	roles := []string{}
	for label := range node.Labels {
		if role, ok := strings.CutPrefix(label, "node-role.kubernetes.io/"); ok && role != "" {
			roles = append(roles, role)
		}
	}
	return roles
}

func cordonNodeTool() mcp.Tool {
	return mcp.NewTool("k8s_cordon_node",
		mcp.WithDescription("Mark a Kubernetes node unschedulable so no new pods land on it. Typically done before node maintenance."),
		contextParam(),
		mcp.WithString("node_name", mcp.Required(), mcp.Description("Name of the node to cordon.")),
	)
}

func uncordonNodeTool() mcp.Tool {
	return mcp.NewTool("k8s_uncordon_node",
		mcp.WithDescription("Mark a Kubernetes node schedulable again after maintenance."),
		contextParam(),
		mcp.WithString("node_name", mcp.Required(), mcp.Description("Name of the node to uncordon.")),
	)
}

func setNodeSchedulableHandler(f ClientFactory, unschedulable bool) server.ToolHandlerFunc {
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
		node.Spec.Unschedulable = unschedulable
		if _, err := clientset.CoreV1().Nodes().Update(ctx, node, metav1.UpdateOptions{}); err != nil {
			return errResult("failed to update node %q: %v", name, err), nil
		}
		return jsonResult(map[string]interface{}{
			"node":          name,
			"unschedulable": unschedulable,
		}), nil
	}
}

// --- Workloads ---

func listPodsTool() mcp.Tool {
	return mcp.NewTool("k8s_list_pods",
		mcp.WithDescription("List pods with phase, restarts, and node, optionally scoped to a namespace or node."),
		contextParam(),
		mcp.WithString("namespace", mcp.Description("Namespace to list pods from. Omit for all namespaces.")),
		mcp.WithString("node", mcp.Description("If provided, only return pods scheduled on this node.")),
	)
}

func listPodsHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		pods, err := clientset.CoreV1().Pods(r.GetString("namespace", "")).List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list pods: %v", err), nil
		}
		node := r.GetString("node", "")
		out := make([]map[string]interface{}, 0, len(pods.Items))
		for _, pod := range pods.Items {
			if node != "" && pod.Spec.NodeName != node {
				continue
			}
			restarts := int32(0)
			for _, cs := range pod.Status.ContainerStatuses {
				restarts += cs.RestartCount
			}
			out = append(out, map[string]interface{}{
				"name":      pod.Name,
				"namespace": pod.Namespace,
				"phase":     string(pod.Status.Phase),
				"restarts":  restarts,
				"node":      pod.Spec.NodeName,
			})
		}
		return jsonResult(out), nil
	}
}

func listDeploymentsTool() mcp.Tool {
	return mcp.NewTool("k8s_list_deployments",
		mcp.WithDescription("List deployments with ready and desired replica counts, optionally scoped to a namespace."),
		contextParam(),
		mcp.WithString("namespace", mcp.Description("Namespace to list deployments from. Omit for all namespaces.")),
	)
}

func listDeploymentsHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		deployments, err := clientset.AppsV1().Deployments(r.GetString("namespace", "")).List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list deployments: %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(deployments.Items))
		for _, d := range deployments.Items {
			desired := int32(1)
			if d.Spec.Replicas != nil {
				desired = *d.Spec.Replicas
			}
			out = append(out, map[string]interface{}{
				"name":      d.Name,
				"namespace": d.Namespace,
				"ready":     d.Status.ReadyReplicas,
				"desired":   desired,
			})
		}
		return jsonResult(out), nil
	}
}

func scaleDeploymentTool() mcp.Tool {
	return mcp.NewTool("k8s_scale_deployment",
		mcp.WithDescription("Scale a deployment to a given replica count."),
		contextParam(),
		mcp.WithString("namespace", mcp.Required(), mcp.Description("Namespace of the deployment.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the deployment.")),
		mcp.WithNumber("replicas", mcp.Required(), mcp.Description("Desired replica count.")),
	)
}

func scaleDeploymentHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		namespace := r.GetString("namespace", "")
		name := r.GetString("name", "")
		replicas, ok := numberArg(r, "replicas")
		if namespace == "" || name == "" || !ok {
			return errResult("namespace, name, and replicas are required"), nil
		}
		if replicas < 0 {
			return errResult("replicas must not be negative"), nil
		}
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}

		deployment, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return errResult("failed to get deployment %s/%s: %v", namespace, name, err), nil
		}
		target := int32(replicas)
		deployment.Spec.Replicas = &target
		if _, err := clientset.AppsV1().Deployments(namespace).Update(ctx, deployment, metav1.UpdateOptions{}); err != nil {
			return errResult("failed to scale deployment %s/%s: %v", namespace, name, err), nil
		}
		return jsonResult(map[string]interface{}{
			"deployment": name,
			"namespace":  namespace,
			"replicas":   target,
		}), nil
	}
}

func restartDeploymentTool() mcp.Tool {
	return mcp.NewTool("k8s_restart_deployment",
		mcp.WithDescription("Trigger a rolling restart of a deployment, the same way kubectl rollout restart does."),
		contextParam(),
		mcp.WithString("namespace", mcp.Required(), mcp.Description("Namespace of the deployment.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the deployment.")),
	)
}

func restartDeploymentHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		namespace := r.GetString("namespace", "")
		name := r.GetString("name", "")
		if namespace == "" || name == "" {
			return errResult("namespace and name are required"), nil
		}
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}

		deployment, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			return errResult("failed to get deployment %s/%s: %v", namespace, name, err), nil
		}
		if deployment.Spec.Template.Annotations == nil {
			deployment.Spec.Template.Annotations = map[string]string{}
		}
		restartedAt := time.Now().Format(time.RFC3339)
		deployment.Spec.Template.Annotations[restartedAtAnnotation] = restartedAt
		if _, err := clientset.AppsV1().Deployments(namespace).Update(ctx, deployment, metav1.UpdateOptions{}); err != nil {
			return errResult("failed to restart deployment %s/%s: %v", namespace, name, err), nil
		}
		return jsonResult(map[string]interface{}{
			"deployment":   name,
			"namespace":    namespace,
			"restarted_at": restartedAt,
		}), nil
	}
}

func podLogsTool() mcp.Tool {
	return mcp.NewTool("k8s_get_pod_logs",
		mcp.WithDescription("Fetch recent logs from a pod, optionally from a specific container."),
		contextParam(),
		mcp.WithString("namespace", mcp.Required(), mcp.Description("Namespace of the pod.")),
		mcp.WithString("pod_name", mcp.Required(), mcp.Description("Name of the pod.")),
		mcp.WithString("container", mcp.Description("Container name for multi-container pods.")),
		mcp.WithNumber("tail_lines", mcp.Description("Number of trailing log lines to return (default: 100).")),
	)
}

func podLogsHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		namespace := r.GetString("namespace", "")
		podName := r.GetString("pod_name", "")
		if namespace == "" || podName == "" {
			return errResult("namespace and pod_name are required"), nil
		}
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}

		tailLines := int64(100)
		if n, ok := numberArg(r, "tail_lines"); ok && n > 0 {
			tailLines = int64(n)
		}
		opts := &corev1.PodLogOptions{
			Container: r.GetString("container", ""),
			TailLines: &tailLines,
		}
		raw, err := clientset.CoreV1().Pods(namespace).GetLogs(podName, opts).Do(ctx).Raw()
		if err != nil {
			return errResult("failed to fetch logs for %s/%s: %v", namespace, podName, err), nil
		}
		return &mcp.CallToolResult{Content: []mcp.Content{mcp.NewTextContent(string(raw))}}, nil
	}
}

func listServicesTool() mcp.Tool {
	return mcp.NewTool("k8s_list_services",
		mcp.WithDescription("List services with type, cluster IP, and ports, optionally scoped to a namespace."),
		contextParam(),
		mcp.WithString("namespace", mcp.Description("Namespace to list services from. Omit for all namespaces.")),
	)
}

func listServicesHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		services, err := clientset.CoreV1().Services(r.GetString("namespace", "")).List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list services: %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(services.Items))
		for _, svc := range services.Items {
			ports := make([]string, 0, len(svc.Spec.Ports))
			for _, p := range svc.Spec.Ports {
				ports = append(ports, fmt.Sprintf("%d/%s", p.Port, p.Protocol))
			}
			out = append(out, map[string]interface{}{
				"name":       svc.Name,
				"namespace":  svc.Namespace,
				"type":       string(svc.Spec.Type),
				"cluster_ip": svc.Spec.ClusterIP,
				"ports":      ports,
			})
		}
		return jsonResult(out), nil
	}
}

// numberArg reads a numeric argument from the raw arguments map. JSON
// numbers decode as float64.
func numberArg(r mcp.CallToolRequest, name string) (float64, bool) {
	args := r.GetArguments()
	if args == nil {
		return 0, false
	}
	switch v := args[name].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}
