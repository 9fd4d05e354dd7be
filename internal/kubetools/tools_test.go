package kubetools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	metricsclient "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/proxasaurus/proxasaurus/internal/common"
)

// fakeFactory serves a fixed fake clientset for every context.
type fakeFactory struct {
	clientset kubernetes.Interface
	metrics   metricsclient.Interface
	contexts  []string
	current   string
}

func (f *fakeFactory) ForContext(name string) (kubernetes.Interface, error) {
	if name != "" && !contains(f.contexts, name) {
		return nil, fmt.Errorf("context %q not found in kubeconfig", name)
	}
	return f.clientset, nil
}

func (f *fakeFactory) MetricsForContext(name string) (metricsclient.Interface, error) {
	if name != "" && !contains(f.contexts, name) {
		return nil, fmt.Errorf("context %q not found in kubeconfig", name)
	}
	if f.metrics == nil {
		return nil, fmt.Errorf("no metrics client for context %q", name)
	}
	return f.metrics, nil
}

func (f *fakeFactory) Contexts() ([]string, string, error) {
	return f.contexts, f.current, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func callReq(args map[string]interface{}) mcp.CallToolRequest {
	r := mcp.CallToolRequest{}
	r.Params.Arguments = args
	return r
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	raw, _ := json.Marshal(res.Content[0])
	var tc struct {
		Text string `json:"text"`
	}
	json.Unmarshal(raw, &tc)
	return tc.Text
}

func TestListContexts(t *testing.T) {
	f := &fakeFactory{contexts: []string{"lab", "prod"}, current: "prod"}
	res, err := listContextsHandler(f)(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var payload struct {
		Contexts []string `json:"contexts"`
		Current  string   `json:"current"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &payload); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if payload.Current != "prod" || len(payload.Contexts) != 2 {
		t.Errorf("payload = %+v", payload)
	}
}

func TestUnknownContextIsError(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset(), contexts: []string{"prod"}}
	res, err := listNodesHandler(f)(context.Background(), callReq(map[string]interface{}{"context": "staging"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected tool error for unknown context")
	}
	if !strings.Contains(resultText(t, res), "staging") {
		t.Errorf("error %q does not name the context", resultText(t, res))
	}
}

func TestListNodes(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset(
		&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{
				Name:   "cp-1",
				Labels: map[string]string{"node-role.kubernetes.io/control-plane": ""},
			},
			Status: corev1.NodeStatus{
				Conditions: []corev1.NodeCondition{{Type: corev1.NodeReady, Status: corev1.ConditionTrue}},
				NodeInfo:   corev1.NodeSystemInfo{KubeletVersion: "v1.33.0"},
			},
		},
		&corev1.Node{
			ObjectMeta: metav1.ObjectMeta{Name: "worker-1"},
			Spec:       corev1.NodeSpec{Unschedulable: true},
		},
	)}

	res, err := listNodesHandler(f)(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}

	var nodes []map[string]interface{}
	if err := json.Unmarshal([]byte(resultText(t, res)), &nodes); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(nodes))
	}
	byName := map[string]map[string]interface{}{}
	for _, n := range nodes {
		byName[n["name"].(string)] = n
	}
	if byName["cp-1"]["ready"] != true {
		t.Error("cp-1 should be ready")
	}
	if byName["worker-1"]["unschedulable"] != true {
		t.Error("worker-1 should be unschedulable")
	}
}

func TestCordonAndUncordonNode(t *testing.T) {
	clientset := fake.NewSimpleClientset(&corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: "worker-1"},
	})
	f := &fakeFactory{clientset: clientset}

	res, err := setNodeSchedulableHandler(f, true)(context.Background(), callReq(map[string]interface{}{"node_name": "worker-1"}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("cordon failed: %s", resultText(t, res))
	}
	node, _ := clientset.CoreV1().Nodes().Get(context.Background(), "worker-1", metav1.GetOptions{})
	if !node.Spec.Unschedulable {
		t.Error("node not cordoned")
	}

	res, _ = setNodeSchedulableHandler(f, false)(context.Background(), callReq(map[string]interface{}{"node_name": "worker-1"}))
	if res.IsError {
		t.Fatalf("uncordon failed: %s", resultText(t, res))
	}
	node, _ = clientset.CoreV1().Nodes().Get(context.Background(), "worker-1", metav1.GetOptions{})
	if node.Spec.Unschedulable {
		t.Error("node still cordoned")
	}
}

func TestCordonMissingNodeName(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset()}
	res, _ := setNodeSchedulableHandler(f, true)(context.Background(), callReq(nil))
	if !res.IsError {
		t.Fatal("expected error for missing node_name")
	}
}

func TestListPodsScopedToNamespace(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset(
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "api-1", Namespace: "prod"}},
		&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "api-2", Namespace: "staging"}},
	)}

	res, _ := listPodsHandler(f)(context.Background(), callReq(map[string]interface{}{"namespace": "prod"}))
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var pods []map[string]interface{}
	json.Unmarshal([]byte(resultText(t, res)), &pods)
	if len(pods) != 1 || pods[0]["name"] != "api-1" {
		t.Errorf("pods = %v, want only api-1", pods)
	}

	// no namespace means all namespaces
	res, _ = listPodsHandler(f)(context.Background(), callReq(nil))
	json.Unmarshal([]byte(resultText(t, res)), &pods)
	if len(pods) != 2 {
		t.Errorf("got %d pods across namespaces, want 2", len(pods))
	}
}

func TestListPodsFilteredByNode(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset(
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "api-1", Namespace: "prod"},
			Spec:       corev1.PodSpec{NodeName: "worker-1"},
		},
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "api-2", Namespace: "prod"},
			Spec:       corev1.PodSpec{NodeName: "worker-2"},
		},
	)}

	res, _ := listPodsHandler(f)(context.Background(), callReq(map[string]interface{}{"node": "worker-2"}))
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var pods []map[string]interface{}
	json.Unmarshal([]byte(resultText(t, res)), &pods)
	if len(pods) != 1 || pods[0]["name"] != "api-2" {
		t.Errorf("pods = %v, want only api-2", pods)
	}
}

func TestScaleDeployment(t *testing.T) {
	two := int32(2)
	clientset := fake.NewSimpleClientset(&appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "api", Namespace: "prod"},
		Spec:       appsv1.DeploymentSpec{Replicas: &two},
	})
	f := &fakeFactory{clientset: clientset}

	res, _ := scaleDeploymentHandler(f)(context.Background(), callReq(map[string]interface{}{
		"namespace": "prod",
		"name":      "api",
		"replicas":  float64(5),
	}))
	if res.IsError {
		t.Fatalf("scale failed: %s", resultText(t, res))
	}

	d, _ := clientset.AppsV1().Deployments("prod").Get(context.Background(), "api", metav1.GetOptions{})
	if d.Spec.Replicas == nil || *d.Spec.Replicas != 5 {
		t.Errorf("replicas = %v, want 5", d.Spec.Replicas)
	}
}

func TestScaleDeploymentRejectsNegative(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset()}
	res, _ := scaleDeploymentHandler(f)(context.Background(), callReq(map[string]interface{}{
		"namespace": "prod",
		"name":      "api",
		"replicas":  float64(-1),
	}))
	if !res.IsError {
		t.Fatal("expected error for negative replicas")
	}
}

func TestRestartDeployment(t *testing.T) {
	clientset := fake.NewSimpleClientset(&appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: "api", Namespace: "prod"},
	})
	f := &fakeFactory{clientset: clientset}

	res, _ := restartDeploymentHandler(f)(context.Background(), callReq(map[string]interface{}{
		"namespace": "prod",
		"name":      "api",
	}))
	if res.IsError {
		t.Fatalf("restart failed: %s", resultText(t, res))
	}

	d, _ := clientset.AppsV1().Deployments("prod").Get(context.Background(), "api", metav1.GetOptions{})
	if d.Spec.Template.Annotations[restartedAtAnnotation] == "" {
		t.Error("restartedAt annotation not set")
	}
}

func TestGetPodLogs(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset(&corev1.Pod{
		ObjectMeta: metav1.ObjectMeta{Name: "api-1", Namespace: "prod"},
	})}

	res, _ := podLogsHandler(f)(context.Background(), callReq(map[string]interface{}{
		"namespace": "prod",
		"pod_name":  "api-1",
	}))
	if res.IsError {
		t.Fatalf("logs failed: %s", resultText(t, res))
	}
	// the fake clientset serves a fixed log body
	if resultText(t, res) == "" {
		t.Error("empty log payload")
	}
}

func TestListServices(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset(&corev1.Service{
		ObjectMeta: metav1.ObjectMeta{Name: "api", Namespace: "prod"},
		Spec: corev1.ServiceSpec{
			Type:      corev1.ServiceTypeClusterIP,
			ClusterIP: "10.0.0.10",
			Ports:     []corev1.ServicePort{{Port: 443, Protocol: corev1.ProtocolTCP}},
		},
	})}

	res, _ := listServicesHandler(f)(context.Background(), callReq(nil))
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var services []map[string]interface{}
	json.Unmarshal([]byte(resultText(t, res)), &services)
	if len(services) != 1 || services[0]["cluster_ip"] != "10.0.0.10" {
		t.Errorf("services = %v", services)
	}
}

func TestRegisterAllTools(t *testing.T) {
	s := server.NewMCPServer("test", "0.0.0", server.WithToolCapabilities(true))
	f := &fakeFactory{clientset: fake.NewSimpleClientset()}
	count := Register(s, f, common.NewSilentLogger())

	want := []string{
		"k8s_list_contexts",
		"k8s_cluster_info",
		"k8s_list_namespaces",
		"k8s_create_namespace",
		"k8s_delete_namespace",
		"k8s_list_nodes",
		"k8s_describe_node",
		"k8s_cordon_node",
		"k8s_uncordon_node",
		"k8s_drain_node",
		"k8s_node_metrics",
		"k8s_pod_metrics",
		"k8s_list_pods",
		"k8s_list_deployments",
		"k8s_scale_deployment",
		"k8s_restart_deployment",
		"k8s_list_statefulsets",
		"k8s_list_jobs",
		"k8s_get_pod_logs",
		"k8s_list_services",
		"k8s_list_ingresses",
	}
	if count != len(want) {
		t.Fatalf("registered %d tools, want %d", count, len(want))
	}

	msg := json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	result := s.HandleMessage(context.Background(), msg)
	resp, ok := result.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("expected JSONRPCResponse, got %T", result)
	}
	resultJSON, _ := json.Marshal(resp.Result)
	var listed mcp.ListToolsResult
	if err := json.Unmarshal(resultJSON, &listed); err != nil {
		t.Fatalf("failed to unmarshal ListToolsResult: %v", err)
	}
	names := map[string]bool{}
	for _, tool := range listed.Tools {
		names[tool.Name] = true
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestCreateNamespace(t *testing.T) {
	clientset := fake.NewSimpleClientset()
	f := &fakeFactory{clientset: clientset}

	res, err := createNamespaceHandler(f)(context.Background(), callReq(map[string]interface{}{
		"name":   "staging",
		"labels": "team=infra,env=staging",
	}))
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if res.IsError {
		t.Fatalf("create failed: %s", resultText(t, res))
	}

	ns, err := clientset.CoreV1().Namespaces().Get(context.Background(), "staging", metav1.GetOptions{})
	if err != nil {
		t.Fatalf("namespace not created: %v", err)
	}
	if ns.Labels["team"] != "infra" || ns.Labels["env"] != "staging" {
		t.Errorf("labels = %v", ns.Labels)
	}
}

func TestCreateNamespaceMissingName(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset()}
	res, _ := createNamespaceHandler(f)(context.Background(), callReq(nil))
	if !res.IsError {
		t.Fatal("expected error for missing name")
	}
}

func TestDeleteNamespace(t *testing.T) {
	clientset := fake.NewSimpleClientset(&corev1.Namespace{
		ObjectMeta: metav1.ObjectMeta{Name: "staging"},
	})
	f := &fakeFactory{clientset: clientset}

	res, _ := deleteNamespaceHandler(f)(context.Background(), callReq(map[string]interface{}{"name": "staging"}))
	if res.IsError {
		t.Fatalf("delete failed: %s", resultText(t, res))
	}
	if _, err := clientset.CoreV1().Namespaces().Get(context.Background(), "staging", metav1.GetOptions{}); err == nil {
		t.Error("namespace should be gone")
	}
}

func TestDeleteNamespaceMissing(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset()}
	res, _ := deleteNamespaceHandler(f)(context.Background(), callReq(map[string]interface{}{"name": "ghost"}))
	if !res.IsError {
		t.Fatal("expected error deleting an unknown namespace")
	}
}

func TestParseLabels(t *testing.T) {
	cases := []struct {
		in   string
		want map[string]string
	}{
		{"", nil},
		{"team=infra", map[string]string{"team": "infra"}},
		{"team=infra, env=prod", map[string]string{"team": "infra", "env": "prod"}},
		{"noequals", nil},
		{"a=1,broken,b=2", map[string]string{"a": "1", "b": "2"}},
	}
	for _, tc := range cases {
		got := parseLabels(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("parseLabels(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for k, v := range tc.want {
			if got[k] != v {
				t.Errorf("parseLabels(%q)[%s] = %q, want %q", tc.in, k, got[k], v)
			}
		}
	}
}

func TestListNamespaces(t *testing.T) {
	f := &fakeFactory{clientset: fake.NewSimpleClientset(
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
		&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "prod"}},
	)}

	res, _ := listNamespacesHandler(f)(context.Background(), callReq(nil))
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, res))
	}
	var namespaces []map[string]interface{}
	json.Unmarshal([]byte(resultText(t, res)), &namespaces)
	if len(namespaces) != 2 {
		t.Errorf("got %d namespaces, want 2", len(namespaces))
	}
}
