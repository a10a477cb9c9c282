// Package json wraps sonic with encoding/json compatible behaviour so callers can
// import it under the usual name.
package json

import (
	"github.com/bytedance/sonic"
)

// api matches sonic.ConfigStd except that <, > and & are written as is, so
// prompts and tool results read the way the model should see them.
var api = sonic.Config{
	SortMapKeys:      true,
	CompactMarshaler: true,
	CopyString:       true,
	ValidateString:   true,
}.Froze()

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return api.Unmarshal(data, v)
}

// MarshalString is Marshal returning a string, falling back to "{}" on error.
func MarshalString(v any) string {
	data, err := api.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}
