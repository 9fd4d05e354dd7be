// Package dispatch executes tool calls against the upstream API. A single
// generic pipeline serves every registry entry: resolve the tool, validate
// the arguments, build the HTTP request, call upstream, normalize the result.
package dispatch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/proxasaurus/proxasaurus/internal/common"
	"github.com/proxasaurus/proxasaurus/internal/pegaprox"
	"github.com/proxasaurus/proxasaurus/internal/registry"
)

// Upstream is the transport the dispatcher calls tools against. *pegaprox.Client
// satisfies it; tests substitute a stub.
type Upstream interface {
	Do(ctx context.Context, r pegaprox.Request) (*pegaprox.Response, error)
}

// Dispatcher routes validated tool calls to the upstream. It is safe for
// concurrent use; each call is independent.
type Dispatcher struct {
	reg      *registry.Registry
	upstream Upstream
	logger   *common.Logger
}

// New creates a Dispatcher over the given registry and upstream.
func New(reg *registry.Registry, upstream Upstream, logger *common.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, upstream: upstream, logger: logger}
}

// Call executes one tool invocation. On success it returns the decoded
// upstream payload; on failure the error is always a *Error carrying the
// failure kind. Validation failures never reach the upstream.
func (d *Dispatcher) Call(ctx context.Context, name string, args map[string]interface{}) (interface{}, *Error) {
	correlationID := uuid.New().String()
	log := d.logger.WithCorrelationId(correlationID)

	tool, ok := d.reg.Resolve(name)
	if !ok {
		log.Warn().Str("tool", name).Msg("unknown tool requested")
		return nil, unknownTool(name)
	}

	if args == nil {
		args = map[string]interface{}{}
	}
	if err := validateArgs(tool, args); err != nil {
		log.Warn().Str("tool", name).Str("error", err.Message).Msg("argument validation failed")
		return nil, err
	}

	req, err := buildRequest(tool, args)
	if err != nil {
		log.Warn().Str("tool", name).Str("error", err.Message).Msg("request construction failed")
		return nil, err
	}

	log.Info().Str("tool", name).Str("method", req.Method).Str("path", req.Path).Msg("dispatching tool call")

	resp, callErr := d.upstream.Do(ctx, req)
	if callErr != nil {
		if fault, ok := callErr.(*pegaprox.Fault); ok {
			return nil, transportError(fault)
		}
		return nil, &Error{Kind: KindTransport, Fault: pegaprox.FaultConnectionFailed, Message: callErr.Error(), err: callErr}
	}

	if !resp.OK() {
		log.Warn().Str("tool", name).Int("status", resp.Status).Msg("upstream returned error status")
		return nil, upstreamError(resp)
	}

	return resp.Data, nil
}

// Registry exposes the dispatcher's tool table for listing.
func (d *Dispatcher) Registry() *registry.Registry {
	return d.reg
}

// validateArgs checks the arguments against the tool's parameter spec.
// Unknown fields are rejected so typos surface as errors instead of being
// silently dropped.
func validateArgs(tool registry.Tool, args map[string]interface{}) *Error {
	byName := make(map[string]registry.Param, len(tool.Params))
	for _, p := range tool.Params {
		byName[p.Name] = p
	}

	for name := range args {
		if _, ok := byName[name]; !ok {
			return invalidArgument("tool %q has no argument %q", tool.Name, name)
		}
	}

	for _, p := range tool.Params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				return invalidArgument("tool %q requires argument %q", tool.Name, p.Name)
			}
			continue
		}
		if err := checkType(tool.Name, p, v); err != nil {
			return err
		}
	}
	return nil
}

// checkType verifies one argument value against its declared type and enum.
func checkType(toolName string, p registry.Param, v interface{}) *Error {
	switch p.Type {
	case registry.TypeString:
		s, ok := v.(string)
		if !ok {
			return invalidArgument("tool %q argument %q must be a string, got %T", toolName, p.Name, v)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			return invalidArgument("tool %q argument %q must be one of [%s], got %q",
				toolName, p.Name, strings.Join(p.Enum, ", "), s)
		}
	case registry.TypeNumber:
		switch v.(type) {
		case float64, int, int64:
		default:
			return invalidArgument("tool %q argument %q must be a number, got %T", toolName, p.Name, v)
		}
	case registry.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return invalidArgument("tool %q argument %q must be a boolean, got %T", toolName, p.Name, v)
		}
	}
	return nil
}

// buildRequest partitions validated arguments into path, query, and body
// per each parameter's declared location.
func buildRequest(tool registry.Tool, args map[string]interface{}) (pegaprox.Request, *Error) {
	path := tool.Path
	query := url.Values{}
	var body map[string]interface{}

	for _, p := range tool.Params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Default == nil {
				continue
			}
			// omitted arguments with a declared default still go on the wire
			v = p.Default
		}
		switch p.In {
		case registry.InPath:
			path = strings.ReplaceAll(path, "{"+p.Name+"}", url.PathEscape(formatValue(v)))
		case registry.InQuery:
			if p.Type == registry.TypeBoolean {
				// booleans encode as presence flags: true is "1", false is omitted
				if v.(bool) {
					query.Set(p.WireKey(), "1")
				}
				continue
			}
			query.Set(p.WireKey(), formatValue(v))
		case registry.InBody:
			if tool.BuildBody != nil {
				continue // builder consumes body arguments itself
			}
			if body == nil {
				body = map[string]interface{}{}
			}
			body[p.WireKey()] = v
		}
	}

	if tool.BuildBody != nil {
		body = tool.BuildBody(args)
	}

	if strings.Contains(path, "{") {
		// unreachable for a validated registry; kept as a hard stop
		return pegaprox.Request{}, invalidArgument("tool %q path %q has unresolved placeholders", tool.Name, path)
	}

	return pegaprox.Request{
		Method: tool.Method,
		Path:   path,
		Query:  query.Encode(),
		Body:   body,
	}, nil
}

// formatValue renders an argument for use in a path segment or query value.
// JSON numbers arrive as float64; integral values must not grow a decimal
// point (vmid 101 renders as "101").
func formatValue(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	case bool:
		if n {
			return "1"
		}
		return "0"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
