package tooldef

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ParametersHeader must appear on a line of its own in every non-empty tool doc.
	ParametersHeader = "Parameters:"
	// NoDescription is used when a tool or parameter is undocumented.
	NoDescription = "No description available"
)

// ErrFormat is matched by every *FormatError.
var ErrFormat = errors.New("tool documentation format is incorrect")

// FormatError reports a malformed documentation block.
type FormatError struct {
	Line   string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Line == "" {
		return fmt.Sprintf("%v: %s", ErrFormat, e.Reason)
	}
	return fmt.Sprintf("%v: %s: %q", ErrFormat, e.Reason, e.Line)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ParseDocParams extracts the "- name: description" entries listed under the
// Parameters: header. An empty doc yields an empty map.
func ParseDocParams(doc string) (map[string]string, error) {
	params := map[string]string{}
	if strings.TrimSpace(doc) == "" {
		return params, nil
	}

	lines := strings.Split(doc, "\n")
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == ParametersHeader {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, &FormatError{Reason: "missing " + ParametersHeader + " header"}
	}

	for _, raw := range lines[start:] {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(strings.TrimLeft(line, "-"))
		name, desc, ok := strings.Cut(line, ":")
		if !ok {
			return nil, &FormatError{Line: strings.TrimSpace(raw), Reason: "parameter entry has no ':' separator"}
		}
		params[strings.TrimSpace(name)] = strings.TrimSpace(desc)
	}
	return params, nil
}

// Description returns the first paragraph of doc, or NoDescription.
func Description(doc string) string {
	cleaned := cleanDoc(doc)
	if cleaned == "" {
		return NoDescription
	}
	first, _, _ := strings.Cut(cleaned, "\n\n")
	return strings.TrimSpace(first)
}

// cleanDoc drops outer blank lines and the common indentation so that docs
// written as indented raw strings behave like flush-left text.
func cleanDoc(doc string) string {
	lines := strings.Split(strings.ReplaceAll(doc, "\t", "    "), "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return ""
	}

	indent := -1
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " "))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = strings.TrimRight(line[indent:], " ")
	}
	return strings.Join(lines, "\n")
}
