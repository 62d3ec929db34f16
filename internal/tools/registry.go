// Package tools implements the Tool Registry (C6): thin, typed wrappers
// exposing the ESPN client, optimizer, and snapshot builder to the agent
// with descriptions rich enough for an LLM to select correctly. Grounded
// on the teacher's internal/api/router.go one-constructor-per-concern
// registration pattern, generalized from HTTP routes to LLM-callable
// tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
)

// Tool is one LLM-callable function. InputSchema is a JSON Schema object
// describing the tool's arguments.
type Tool struct {
	Name          string
	Description   string
	InputSchema   map[string]interface{}
	RequiresTeam  bool
	RequiresLeague bool
	Handler       func(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.tools[t.Name]; !exists {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// All returns every registered tool in registration order.
func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Invoke runs a named tool's handler, returning its result JSON-encoded
// (tool results in the agent's message history are always strings — spec
// §4.2 "tool-call normalization").
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]interface{}) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("tools: unknown tool %q", name)
	}
	result, err := t.Handler(ctx, args)
	if err != nil {
		return "", fmt.Errorf("tools: %s: %w", name, err)
	}
	data, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("tools: %s: marshal result: %w", name, err)
	}
	return string(data), nil
}
