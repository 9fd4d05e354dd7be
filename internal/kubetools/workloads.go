package kubetools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

func listStatefulSetsTool() mcp.Tool {
	return mcp.NewTool("k8s_list_statefulsets",
		mcp.WithDescription("List statefulsets with replica status and container images, optionally scoped to a namespace."),
		contextParam(),
		mcp.WithString("namespace", mcp.Description("Namespace to list statefulsets from. Omit for all namespaces.")),
	)
}

func listStatefulSetsHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		sets, err := clientset.AppsV1().StatefulSets(r.GetString("namespace", "")).List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list statefulsets: %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(sets.Items))
		for _, s := range sets.Items {
			desired := int32(1)
			if s.Spec.Replicas != nil {
				desired = *s.Spec.Replicas
			}
			images := make([]string, 0, len(s.Spec.Template.Spec.Containers))
			for _, c := range s.Spec.Template.Spec.Containers {
				images = append(images, c.Image)
			}
			out = append(out, map[string]interface{}{
				"name":      s.Name,
				"namespace": s.Namespace,
				"replicas": map[string]int32{
					"desired": desired,
					"ready":   s.Status.ReadyReplicas,
					"current": s.Status.CurrentReplicas,
				},
				"images": images,
				"age":    ageOf(s.CreationTimestamp.Time),
			})
		}
		return jsonResult(out), nil
	}
}

func listJobsTool() mcp.Tool {
	return mcp.NewTool("k8s_list_jobs",
		mcp.WithDescription("List jobs with completion status and timing, optionally scoped to a namespace."),
		contextParam(),
		mcp.WithString("namespace", mcp.Description("Namespace to list jobs from. Omit for all namespaces.")),
	)
}

func listJobsHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		jobs, err := clientset.BatchV1().Jobs(r.GetString("namespace", "")).List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list jobs: %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(jobs.Items))
		for _, job := range jobs.Items {
			completions := int32(1)
			if job.Spec.Completions != nil {
				completions = *job.Spec.Completions
			}
			entry := map[string]interface{}{
				"name":        job.Name,
				"namespace":   job.Namespace,
				"completions": fmt.Sprintf("%d/%d", job.Status.Succeeded, completions),
				"active":      job.Status.Active,
				"failed":      job.Status.Failed,
			}
			if job.Status.StartTime != nil {
				entry["start_time"] = job.Status.StartTime.Format(time.RFC3339)
			}
			if job.Status.CompletionTime != nil {
				entry["completion_time"] = job.Status.CompletionTime.Format(time.RFC3339)
			}
			out = append(out, entry)
		}
		return jsonResult(out), nil
	}
}

func listIngressesTool() mcp.Tool {
	return mcp.NewTool("k8s_list_ingresses",
		mcp.WithDescription("List ingresses with their hosts, paths, and backend services, optionally scoped to a namespace."),
		contextParam(),
		mcp.WithString("namespace", mcp.Description("Namespace to list ingresses from. Omit for all namespaces.")),
	)
}

func listIngressesHandler(f ClientFactory) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		clientset, errRes := clientFor(f, r)
		if errRes != nil {
			return errRes, nil
		}
		ingresses, err := clientset.NetworkingV1().Ingresses(r.GetString("namespace", "")).List(ctx, metav1.ListOptions{})
		if err != nil {
			return errResult("failed to list ingresses: %v", err), nil
		}
		out := make([]map[string]interface{}, 0, len(ingresses.Items))
		for _, ing := range ingresses.Items {
			rules := make([]map[string]interface{}, 0, len(ing.Spec.Rules))
			for _, rule := range ing.Spec.Rules {
				paths := []map[string]interface{}{}
				if rule.HTTP != nil {
					for _, p := range rule.HTTP.Paths {
						entry := map[string]interface{}{"path": p.Path}
						if p.Backend.Service != nil {
							entry["service"] = p.Backend.Service.Name
							entry["port"] = p.Backend.Service.Port.Number
						}
						paths = append(paths, entry)
					}
				}
				rules = append(rules, map[string]interface{}{
					"host":  rule.Host,
					"paths": paths,
				})
			}
			out = append(out, map[string]interface{}{
				"name":      ing.Name,
				"namespace": ing.Namespace,
				"rules":     rules,
			})
		}
		return jsonResult(out), nil
	}
}

// ageOf renders the elapsed time since t, rounded to the second.
func ageOf(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return time.Since(t).Round(time.Second).String()
}
