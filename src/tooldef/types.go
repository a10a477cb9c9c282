package tooldef

import (
	"fmt"
	"strings"
)

// AnyLabel is rendered for parameters that carry no type information.
const AnyLabel = "Any"

// Type describes a parameter type in a form the model can read.
type Type interface {
	Label() string
}

// Label renders t, falling back to AnyLabel for a nil type.
func Label(t Type) string {
	if t == nil {
		return AnyLabel
	}
	label := strings.TrimSpace(t.Label())
	if label == "" {
		return AnyLabel
	}
	return label
}

type named string

func (n named) Label() string { return string(n) }

// Named returns a plain named type rendered as its name.
func Named(name string) Type { return named(name) }

var (
	String Type = Named("string")
	Bool   Type = Named("bool")
	Int    Type = Named("int")
	Float  Type = Named("float")
	Object Type = Named("object")
)

type oneOf struct {
	values []any
}

// OneOf is a constrained-choice type, rendered as `one of ("A", "B")`.
func OneOf(values ...any) Type {
	return oneOf{values: append([]any(nil), values...)}
}

func (o oneOf) Label() string {
	parts := make([]string, len(o.values))
	for i, v := range o.values {
		if s, ok := v.(string); ok {
			parts[i] = fmt.Sprintf("%q", s)
			continue
		}
		parts[i] = fmt.Sprintf("%v", v)
	}
	return "one of (" + strings.Join(parts, ", ") + ")"
}

type generic struct {
	outer string
	args  []Type
}

// Generic is a parameterised container rendered as `Outer[Inner, ...]`.
func Generic(outer string, args ...Type) Type {
	return generic{outer: outer, args: append([]Type(nil), args...)}
}

// List is shorthand for Generic("list", elem).
func List(elem Type) Type { return Generic("list", elem) }

// Map is shorthand for Generic("map", key, value).
func Map(key, value Type) Type { return Generic("map", key, value) }

func (g generic) Label() string {
	if len(g.args) == 0 {
		return g.outer
	}
	parts := make([]string, len(g.args))
	for i, a := range g.args {
		parts[i] = Label(a)
	}
	return g.outer + "[" + strings.Join(parts, ", ") + "]"
}
