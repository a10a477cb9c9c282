package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	utcp "github.com/universal-tool-calling-protocol/go-utcp"
	utcptools "github.com/universal-tool-calling-protocol/go-utcp/src/tools"

	"github.com/Protocol-Lattice/planagent/pkg/logger"
	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

// UTCPInvoker is the subset of the UTCP client used by the tool bridge.
type UTCPInvoker interface {
	SearchTools(query string, limit int) ([]utcptools.Tool, error)
	CallTool(ctx context.Context, name string, args map[string]any) (any, error)
}

// NewUTCPClient loads the providers listed in providersFile.
func NewUTCPClient(ctx context.Context, providersFile string) (utcp.UtcpClientInterface, error) {
	cfg := &utcp.UtcpClientConfig{ProvidersFilePath: providersFile}
	client, err := utcp.NewUTCPClient(ctx, cfg, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("utcp client: %w", err)
	}
	return client, nil
}

// UTCPTools searches client for tools matching query and wraps each of them.
// Tools whose schema cannot be described are skipped.
func UTCPTools(client UTCPInvoker, query string, limit int) ([]*tooldef.Tool, error) {
	if client == nil {
		return nil, fmt.Errorf("utcp client is not initialised")
	}
	found, err := client.SearchTools(query, limit)
	if err != nil {
		return nil, fmt.Errorf("utcp search: %w", err)
	}

	out := make([]*tooldef.Tool, 0, len(found))
	for _, remote := range found {
		tool, err := NewUTCPTool(client, remote)
		if err != nil {
			logger.Warn("[UTCP] skipping tool %s: %v", remote.Name, err)
			continue
		}
		out = append(out, tool)
	}
	return out, nil
}

// NewUTCPTool adapts one UTCP tool definition. Its parameters come from the
// input schema properties, required ones first.
func NewUTCPTool(client UTCPInvoker, remote utcptools.Tool) (*tooldef.Tool, error) {
	name := strings.TrimSpace(remote.Name)
	if name == "" {
		return nil, fmt.Errorf("utcp tool has no name")
	}

	names := schemaOrder(remote.Inputs.Properties, remote.Inputs.Required)
	params := make([]tooldef.ParamSpec, 0, len(names))

	summary := oneLine(remote.Description)
	if summary == "" {
		summary = tooldef.NoDescription
	}
	var doc strings.Builder
	doc.WriteString(summary)
	doc.WriteString("\n\n")
	doc.WriteString(tooldef.ParametersHeader)
	doc.WriteByte('\n')
	for _, pname := range names {
		prop, _ := remote.Inputs.Properties[pname].(map[string]any)
		params = append(params, tooldef.Param(pname, schemaType(prop)))
		if desc := oneLine(stringField(prop, "description")); desc != "" {
			fmt.Fprintf(&doc, "    - %s: %s\n", pname, desc)
		}
	}

	return tooldef.New(func(ctx context.Context, args tooldef.Args) string {
		result, err := client.CallTool(ctx, remote.Name, map[string]any(args))
		if err != nil {
			return fmt.Sprintf("Error calling tool %s: %v", remote.Name, err)
		}
		switch v := result.(type) {
		case nil:
			return ""
		case string:
			return v
		default:
			return json.MarshalString(v)
		}
	},
		tooldef.WithName(name),
		tooldef.WithDoc(doc.String()),
		tooldef.WithParams(params...),
	)
}

func schemaOrder(props map[string]any, required []string) []string {
	seen := make(map[string]bool, len(props))
	names := make([]string, 0, len(props))
	for _, r := range required {
		if _, ok := props[r]; ok && !seen[r] {
			seen[r] = true
			names = append(names, r)
		}
	}
	rest := make([]string, 0, len(props))
	for name := range props {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// schemaType renders a JSON schema property as a tooldef type.
func schemaType(prop map[string]any) tooldef.Type {
	if prop == nil {
		return nil
	}
	if enum, ok := prop["enum"].([]any); ok && len(enum) > 0 {
		return tooldef.OneOf(enum...)
	}
	switch typ := stringField(prop, "type"); typ {
	case "":
		return nil
	case "array":
		items, _ := prop["items"].(map[string]any)
		return tooldef.List(schemaType(items))
	case "integer":
		return tooldef.Int
	case "number":
		return tooldef.Float
	case "boolean":
		return tooldef.Bool
	case "object":
		return tooldef.Object
	default:
		return tooldef.Named(typ)
	}
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// oneLine collapses whitespace so that the text fits on a single doc line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
