package agent

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

// ErrToolNotFound is matched by every *NotFoundError.
var ErrToolNotFound = errors.New("tool not found")

// NotFoundError reports a tool name that is not registered.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Tool '%s' not found. Available tools: [%s]", e.Name, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrToolNotFound }

// Catalog is the in-memory tool registry used by the agent. Tools are keyed
// by their exact name. It is not safe for concurrent use.
type Catalog struct {
	tools map[string]*tooldef.Tool
}

// NewCatalog constructs a catalog seeded with the provided tools.
func NewCatalog(tools ...*tooldef.Tool) *Catalog {
	c := &Catalog{tools: make(map[string]*tooldef.Tool)}
	for _, tool := range tools {
		_ = c.Register(tool) // nil entries are skipped
	}
	return c
}

// Register adds tool, replacing any tool with the same name.
func (c *Catalog) Register(tool *tooldef.Tool) error {
	if tool == nil {
		return fmt.Errorf("tool is nil")
	}
	if tool.Name() == "" {
		return fmt.Errorf("tool name is empty")
	}
	c.tools[tool.Name()] = tool
	return nil
}

// Lookup returns the tool registered under name.
func (c *Catalog) Lookup(name string) (*tooldef.Tool, bool) {
	tool, ok := c.tools[name]
	return tool, ok
}

func (c *Catalog) Len() int { return len(c.tools) }

// Names returns the registered tool names in sorted order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.tools))
	for name := range c.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptors returns a snapshot of every descriptor, sorted by name.
func (c *Catalog) Descriptors() []tooldef.Descriptor {
	names := c.Names()
	out := make([]tooldef.Descriptor, 0, len(names))
	for _, name := range names {
		out = append(out, c.tools[name].Descriptor())
	}
	return out
}

// Invoke calls the named tool and returns its result verbatim. Tool level
// failures are part of the result string; only an unknown name is an error.
func (c *Catalog) Invoke(ctx context.Context, name string, args tooldef.Args) (string, error) {
	tool, ok := c.tools[name]
	if !ok {
		return "", &NotFoundError{Name: name, Available: c.Names()}
	}
	return tool.Call(ctx, args), nil
}
