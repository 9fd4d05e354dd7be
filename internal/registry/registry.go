// Package registry defines the declarative tool table: every tool Proxasaurus
// exposes over MCP is one Tool entry mapping a name and argument spec onto a
// PegaProx endpoint. Adding a tool is a table edit in catalog.go, never new
// dispatch code.
package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// ParamLocation says where an argument lands on the upstream request.
type ParamLocation string

const (
	InPath  ParamLocation = "path"
	InQuery ParamLocation = "query"
	InBody  ParamLocation = "body"
)

// ParamType is the declared argument type. JSON has no integer type, so
// numeric arguments are all "number".
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
)

// Param describes one tool argument.
type Param struct {
	Name        string
	Key         string // wire name on the upstream request; defaults to Name
	In          ParamLocation
	Type        ParamType
	Required    bool
	Enum        []string    // string-enum constraint, empty for unrestricted
	Default     interface{} // sent on the wire when the argument is omitted
	Description string
}

// WireKey returns the name used on the upstream request.
func (p Param) WireKey() string {
	if p.Key != "" {
		return p.Key
	}
	return p.Name
}

// BodyBuilder assembles a request body from validated arguments. Only tools
// whose upstream contract is not a 1:1 key mapping (VM/container provisioning
// with Proxmox device strings) carry one; everything else is mapped generically.
type BodyBuilder func(args map[string]interface{}) map[string]interface{}

// Tool is one immutable registry entry.
type Tool struct {
	Name      string
	Method    string
	Path      string
	Summary   string
	Params    []Param
	BuildBody BodyBuilder
}

// Registry is the fixed name -> Tool mapping, built once at startup.
type Registry struct {
	tools map[string]Tool
	order []string
}

// allowedMethods is the whitelist of HTTP methods for registry tools.
var allowedMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
}

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z0-9_]+)\}`)

// New builds a Registry from a tool table, validating every entry. It fails
// on the first inconsistent descriptor; a malformed table is a programming
// error and must refuse startup.
func New(tools []Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]Tool, len(tools)),
		order: make([]string, 0, len(tools)),
	}
	for _, t := range tools {
		if err := validateTool(t); err != nil {
			return nil, err
		}
		if _, dup := r.tools[t.Name]; dup {
			return nil, fmt.Errorf("duplicate tool name %q", t.Name)
		}
		r.tools[t.Name] = t
		r.order = append(r.order, t.Name)
	}
	return r, nil
}

// MustNew is New for static tables known to be valid; it panics on error.
func MustNew(tools []Tool) *Registry {
	r, err := New(tools)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve looks up a tool by name.
func (r *Registry) Resolve(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	return len(r.order)
}

// validateTool checks a single descriptor for internal consistency:
// well-formed method and path, unique argument names, and the placeholder
// invariant: every {placeholder} in the path has a matching required
// path-location argument, and vice versa.
func validateTool(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("tool has empty name")
	}
	if !allowedMethods[t.Method] {
		return fmt.Errorf("tool %q has unsupported method %q", t.Name, t.Method)
	}
	if !strings.HasPrefix(t.Path, "/api/") {
		return fmt.Errorf("tool %q has invalid path %q (must start with /api/)", t.Name, t.Path)
	}
	if strings.Contains(t.Path, "..") {
		return fmt.Errorf("tool %q has invalid path %q (contains ..)", t.Name, t.Path)
	}
	if t.Summary == "" {
		return fmt.Errorf("tool %q has no summary", t.Name)
	}

	seen := make(map[string]bool, len(t.Params))
	pathParams := make(map[string]bool)
	for _, p := range t.Params {
		if p.Name == "" {
			return fmt.Errorf("tool %q has a parameter with empty name", t.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("tool %q has duplicate parameter %q", t.Name, p.Name)
		}
		seen[p.Name] = true

		switch p.In {
		case InPath, InQuery, InBody:
		default:
			return fmt.Errorf("tool %q parameter %q has invalid location %q", t.Name, p.Name, p.In)
		}
		switch p.Type {
		case TypeString, TypeNumber, TypeBoolean:
		default:
			return fmt.Errorf("tool %q parameter %q has invalid type %q", t.Name, p.Name, p.Type)
		}
		if len(p.Enum) > 0 && p.Type != TypeString {
			return fmt.Errorf("tool %q parameter %q declares an enum but is not a string", t.Name, p.Name)
		}
		if p.Default != nil {
			if err := validateDefault(t.Name, p); err != nil {
				return err
			}
		}
		if p.In == InPath {
			if !p.Required {
				return fmt.Errorf("tool %q path parameter %q must be required", t.Name, p.Name)
			}
			pathParams[p.Name] = true
		}
	}

	placeholders := placeholderRe.FindAllStringSubmatch(t.Path, -1)
	inPath := make(map[string]bool, len(placeholders))
	for _, m := range placeholders {
		name := m[1]
		if !pathParams[name] {
			return fmt.Errorf("tool %q path placeholder {%s} has no required path parameter", t.Name, name)
		}
		inPath[name] = true
	}
	for name := range pathParams {
		if !inPath[name] {
			return fmt.Errorf("tool %q path parameter %q does not appear in path %s", t.Name, name, t.Path)
		}
	}

	return nil
}

// validateDefault checks that a parameter default is usable: defaults only
// make sense for optional non-path arguments, and must satisfy the declared
// type and enum the same way a client-supplied value would.
func validateDefault(toolName string, p Param) error {
	if p.Required {
		return fmt.Errorf("tool %q parameter %q is required and cannot have a default", toolName, p.Name)
	}
	if p.In == InPath {
		return fmt.Errorf("tool %q path parameter %q cannot have a default", toolName, p.Name)
	}
	switch p.Type {
	case TypeString:
		s, ok := p.Default.(string)
		if !ok {
			return fmt.Errorf("tool %q parameter %q default %v is not a string", toolName, p.Name, p.Default)
		}
		if len(p.Enum) > 0 {
			found := false
			for _, e := range p.Enum {
				if e == s {
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("tool %q parameter %q default %q is not in its enum", toolName, p.Name, s)
			}
		}
	case TypeNumber:
		switch p.Default.(type) {
		case float64, int, int64:
		default:
			return fmt.Errorf("tool %q parameter %q default %v is not a number", toolName, p.Name, p.Default)
		}
	case TypeBoolean:
		if _, ok := p.Default.(bool); !ok {
			return fmt.Errorf("tool %q parameter %q default %v is not a boolean", toolName, p.Name, p.Default)
		}
	}
	return nil
}
