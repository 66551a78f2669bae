package tools

import (
	"context"
	"errors"
)

// ErrUnknownTool is returned when an invocation names a tool that was never
// registered.
var ErrUnknownTool = errors.New("unknown tool")

// HandlerFunc executes a tool with already-validated arguments.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Tool is one remote procedure the agent can invoke.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema *Schema     `json:"input_schema"`
	Handler     HandlerFunc `json:"-"`
}

// Registry holds the tool set in registration order.
type Registry struct {
	order []string
	tools map[string]*Tool
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

func (r *Registry) Register(t *Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get returns the named tool or nil.
func (r *Registry) Get(name string) *Tool {
	return r.tools[name]
}

// List returns all tools in registration order.
func (r *Registry) List() []*Tool {
	result := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		result = append(result, r.tools[name])
	}
	return result
}

// Invoke validates args against the tool's schema and runs its handler.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	t := r.Get(name)
	if t == nil {
		return nil, ErrUnknownTool
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	if err := t.InputSchema.Validate(args); err != nil {
		return nil, err
	}
	return t.Handler(ctx, args)
}
