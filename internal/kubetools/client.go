// Package kubetools exposes Kubernetes management tools over MCP, covering
// the clusters that run alongside the Proxmox fleet. Clients are built per
// kubeconfig context and cached for the lifetime of the process.
package kubetools

import (
	"fmt"
	"sort"
	"sync"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	metricsclient "k8s.io/metrics/pkg/client/clientset/versioned"
)

// ClientFactory builds Kubernetes clients for named kubeconfig contexts.
// Tests substitute a fake-backed factory.
type ClientFactory interface {
	// ForContext returns a client for the named context; empty name means
	// the current context.
	ForContext(name string) (kubernetes.Interface, error)
	// MetricsForContext returns a metrics.k8s.io client for the named
	// context. It only works on clusters running metrics-server.
	MetricsForContext(name string) (metricsclient.Interface, error)
	// Contexts returns all context names and the current one.
	Contexts() ([]string, string, error)
}

// kubeconfigFactory loads clients from a kubeconfig file.
type kubeconfigFactory struct {
	path string // explicit kubeconfig path; empty uses the default chain

	mu      sync.Mutex
	clients map[string]kubernetes.Interface
	metrics map[string]metricsclient.Interface
}

// NewClientFactory creates a factory over the given kubeconfig path. An
// empty path falls back to $KUBECONFIG and ~/.kube/config.
func NewClientFactory(path string) ClientFactory {
	return &kubeconfigFactory{
		path:    path,
		clients: make(map[string]kubernetes.Interface),
		metrics: make(map[string]metricsclient.Interface),
	}
}

func (f *kubeconfigFactory) loadingRules() *clientcmd.ClientConfigLoadingRules {
	rules := clientcmd.NewDefaultClientConfigLoadingRules()
	if f.path != "" {
		rules.ExplicitPath = f.path
	}
	return rules
}

func (f *kubeconfigFactory) restConfig(name string) (*rest.Config, error) {
	overrides := &clientcmd.ConfigOverrides{CurrentContext: name}
	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(f.loadingRules(), overrides)
	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig for context %q: %w", name, err)
	}
	return restConfig, nil
}

func (f *kubeconfigFactory) ForContext(name string) (kubernetes.Interface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[name]; ok {
		return c, nil
	}

	restConfig, err := f.restConfig(name)
	if err != nil {
		return nil, err
	}
	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build client for context %q: %w", name, err)
	}
	f.clients[name] = clientset
	return clientset, nil
}

func (f *kubeconfigFactory) MetricsForContext(name string) (metricsclient.Interface, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.metrics[name]; ok {
		return c, nil
	}

	restConfig, err := f.restConfig(name)
	if err != nil {
		return nil, err
	}
	clientset, err := metricsclient.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to build metrics client for context %q: %w", name, err)
	}
	f.metrics[name] = clientset
	return clientset, nil
}

func (f *kubeconfigFactory) Contexts() ([]string, string, error) {
	cfg, err := f.loadingRules().Load()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	names := make([]string, 0, len(cfg.Contexts))
	for name := range cfg.Contexts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, cfg.CurrentContext, nil
}
