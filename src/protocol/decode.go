package protocol

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Protocol-Lattice/planagent/pkg/utils/json"
)

// ErrInvalidResponse is matched by every *InvalidResponseError.
var ErrInvalidResponse = errors.New("invalid JSON content")

// InvalidResponseError carries the raw model output and the parser diagnostic.
type InvalidResponseError struct {
	Raw string
	Err error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrInvalidResponse, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

func (e *InvalidResponseError) Is(target error) bool { return target == ErrInvalidResponse }

var fencedObject = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ExtractJSON returns the first fenced JSON object in text, or the trimmed
// text when there is none.
func ExtractJSON(text string) string {
	if m := fencedObject.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// DecodeInto parses the JSON carried by text into v. Shape is not validated.
func DecodeInto(text string, v any) error {
	payload := ExtractJSON(text)
	if payload == "" {
		return &InvalidResponseError{Raw: text, Err: errors.New("empty response")}
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return &InvalidResponseError{Raw: text, Err: err}
	}
	return nil
}

// Decode parses text into a generic JSON object.
func Decode(text string) (map[string]any, error) {
	var out map[string]any
	if err := DecodeInto(text, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, &InvalidResponseError{Raw: text, Err: errors.New("expected a JSON object")}
	}
	return out, nil
}

func DecodePlan(text string) (PlanResponse, error) {
	var plan PlanResponse
	err := DecodeInto(text, &plan)
	return plan, err
}

func DecodeReflection(text string) (ReflectionResult, error) {
	var res ReflectionResult
	err := DecodeInto(text, &res)
	return res, err
}
