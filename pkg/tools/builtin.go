package tools

import (
	"net/http"

	"github.com/Protocol-Lattice/planagent/src/tooldef"
)

// Builtin returns the tools registered by default: currency conversion,
// weather lookup, arithmetic and the current date. client may be nil.
func Builtin(client *http.Client) ([]*tooldef.Tool, error) {
	client = defaultClient(client)
	factories := []interface {
		Tool() (*tooldef.Tool, error)
	}{
		NewCurrencyConverter(client),
		&WeatherService{Client: client},
		&Calculator{},
		&Clock{},
	}

	out := make([]*tooldef.Tool, 0, len(factories))
	for _, f := range factories {
		tool, err := f.Tool()
		if err != nil {
			return nil, err
		}
		out = append(out, tool)
	}
	return out, nil
}
