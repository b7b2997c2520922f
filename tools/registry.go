package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry keeps the mapping between capability names and implementations
// and routes dispatch through parameter validation. Registration is
// expected during setup only; dispatch treats the mapping as read-only.
type Registry struct {
	mu           sync.RWMutex
	capabilities map[string]Capability
	definitions  map[string]Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		capabilities: make(map[string]Capability),
		definitions:  make(map[string]Definition),
	}
}

// Register inserts or replaces the entry under the capability's name.
// Last write wins.
func (r *Registry) Register(c Capability, def Definition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := c.Name()
	r.capabilities[name] = c
	def.Name = name
	r.definitions[name] = def
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (Capability, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.capabilities[name]
	return c, ok
}

// Names returns the registered capability names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.capabilities))
	for n := range r.capabilities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the model-facing definitions in name order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.definitions))
	for _, n := range r.namesLocked() {
		defs = append(defs, r.definitions[n])
	}
	return defs
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.capabilities))
	for n := range r.capabilities {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DescribeForPrompt renders the registered definitions as a plain-text
// listing suitable for inclusion in a system prompt.
func (r *Registry) DescribeForPrompt() string {
	defs := r.Definitions()
	if len(defs) == 0 {
		return "No tools are available."
	}
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, d := range defs {
		fmt.Fprintf(&b, "- %s: %s\n", d.Name, d.Description)
	}
	return b.String()
}

// Dispatch routes a tool call to the capability registered under name.
//
// Failure modes all surface as failure Results, never as panics or errors:
// an unknown name, a validation failure (Execute is never invoked in that
// case), or whatever failure Execute itself reports. A successful or failed
// Execute result is returned verbatim.
func (r *Registry) Dispatch(ctx context.Context, name string, params map[string]any) Result {
	c, ok := r.Lookup(name)
	if !ok {
		return Fail("tool not registered: %s", name)
	}
	if err := c.Validate(params); err != nil {
		return FailDetails(map[string]any{
			"tool":           name,
			"invalid_params": params,
		}, "parameter validation failed: %s", err)
	}
	return c.Execute(ctx, params)
}
