// Package tooldef turns plain Go functions plus a short documentation block into
// tools the model can be told about and the agent can call.
//
// A tool doc looks like:
//
//	Converts currency using latest exchange rates.
//
//	Parameters:
//	    - amount: The amount of money in old currency
//	    - from_currency: Source currency code (e.g., USD)
//
// Go has no runtime parameter names or type hints, so the registrant declares
// each parameter explicitly with Param.
package tooldef

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
)

// Func is the callable behind a tool. Failures are reported in the returned
// string ("Error: ..."), never as a Go error.
type Func func(ctx context.Context, args Args) string

// Parameter is one entry of a descriptor's parameter list.
type Parameter struct {
	Name        string `json:"-"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Parameters keeps declaration order and marshals as a JSON object.
type Parameters []Parameter

// Get returns the parameter with the given name.
func (p Parameters) Get(name string) (Parameter, bool) {
	for _, param := range p {
		if param.Name == name {
			return param, true
		}
	}
	return Parameter{}, false
}

// Names lists parameter names in declaration order.
func (p Parameters) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

func (p Parameters) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(struct {
			Type        string `json:"type"`
			Description string `json:"description"`
		}{param.Type, param.Description})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Descriptor is the machine-readable contract of a tool.
type Descriptor struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  Parameters `json:"parameters"`
}

func (d Descriptor) clone() Descriptor {
	d.Parameters = append(Parameters(nil), d.Parameters...)
	return d
}

// Tool pairs a descriptor with its function. It is immutable once built.
type Tool struct {
	desc Descriptor
	fn   Func
}

func (t *Tool) Name() string { return t.desc.Name }

// Descriptor returns a copy of the tool's descriptor.
func (t *Tool) Descriptor() Descriptor { return t.desc.clone() }

// Call invokes the underlying function and returns its result verbatim.
func (t *Tool) Call(ctx context.Context, args Args) string {
	if args == nil {
		args = Args{}
	}
	return t.fn(ctx, args)
}

func (t *Tool) String() string {
	return fmt.Sprintf("Tool(name=%q, description=%q, parameters=%v)", t.desc.Name, t.desc.Description, t.desc.Parameters.Names())
}

// ParamSpec is a declared parameter before documentation is merged in.
type ParamSpec struct {
	Name string
	Type Type
}

// Param declares a parameter. A nil type renders as "Any".
func Param(name string, typ Type) ParamSpec {
	return ParamSpec{Name: name, Type: typ}
}

type buildOptions struct {
	name   string
	doc    string
	params []ParamSpec
}

type Option func(*buildOptions)

// WithName overrides the tool name derived from the function identifier.
func WithName(name string) Option {
	return func(o *buildOptions) { o.name = strings.TrimSpace(name) }
}

// WithDoc sets the documentation block.
func WithDoc(doc string) Option {
	return func(o *buildOptions) { o.doc = doc }
}

// WithParams declares the function's parameters in call order.
func WithParams(params ...ParamSpec) Option {
	return func(o *buildOptions) { o.params = append(o.params, params...) }
}

// New builds a tool from fn. It fails with a *FormatError when the doc is
// malformed.
func New(fn Func, opts ...Option) (*Tool, error) {
	if fn == nil {
		return nil, errors.New("tool function is nil")
	}
	o := buildOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	name := o.name
	if name == "" {
		name = funcName(fn)
	}
	if name == "" {
		return nil, errors.New("tool name is empty; anonymous functions need WithName")
	}

	docs, err := ParseDocParams(o.doc)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}

	params := make(Parameters, 0, len(o.params))
	seen := make(map[string]struct{}, len(o.params))
	for _, spec := range o.params {
		pname := strings.TrimSpace(spec.Name)
		if pname == "" {
			return nil, fmt.Errorf("tool %s: parameter name is empty", name)
		}
		if _, dup := seen[pname]; dup {
			return nil, fmt.Errorf("tool %s: parameter %s declared twice", name, pname)
		}
		seen[pname] = struct{}{}

		desc, ok := docs[pname]
		if !ok {
			desc = NoDescription
		}
		params = append(params, Parameter{
			Name:        pname,
			Type:        Label(spec.Type),
			Description: desc,
		})
	}

	return &Tool{
		desc: Descriptor{
			Name:        name,
			Description: Description(o.doc),
			Parameters:  params,
		},
		fn: fn,
	}, nil
}

// MustNew is New for package-level tool declarations; a malformed doc panics
// so that startup aborts.
func MustNew(fn Func, opts ...Option) *Tool {
	t, err := New(fn, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// funcName returns the bare identifier of fn from the runtime symbol table,
// e.g. "convertCurrency" for "github.com/x/tools.convertCurrency".
func funcName(fn Func) string {
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return ""
	}
	full := rf.Name()
	if i := strings.LastIndex(full, "/"); i >= 0 {
		full = full[i+1:]
	}
	last := strings.TrimSuffix(full[strings.LastIndex(full, ".")+1:], "-fm")
	// Anonymous functions have no identifier of their own; callers must use WithName.
	if isClosureSegment(last) {
		return ""
	}
	return last
}

// isClosureSegment matches compiler generated names such as "func1" or "1".
func isClosureSegment(s string) bool {
	rest := strings.TrimPrefix(s, "func")
	if rest == "" {
		return false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
