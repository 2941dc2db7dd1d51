package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultIndent is used when pretty output is requested without an indent.
const DefaultIndent = "  "

// Formatter is responsible for laying out JSON text for output
type Formatter struct {
	pretty bool
	indent string
}

// NewFormatter creates a Formatter that writes compact JSON
func NewFormatter() *Formatter {
	return &Formatter{}
}

// NewPrettyFormatter creates a Formatter that indents nested values with indent
func NewPrettyFormatter(indent string) *Formatter {
	if indent == "" {
		indent = DefaultIndent
	}
	return &Formatter{pretty: true, indent: indent}
}

// Pretty reports whether the formatter indents its output
func (f *Formatter) Pretty() bool {
	return f.pretty
}

// Format takes JSON text and returns it compacted or indented, with a
// trailing newline when indenting.
func (f *Formatter) Format(data []byte) ([]byte, error) {
	// Handle empty input
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	if f.pretty {
		if err := json.Indent(&buf, data, "", f.indent); err != nil {
			return nil, fmt.Errorf("failed to indent JSON: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}

	if err := json.Compact(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to compact JSON: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatString is Format for strings
func (f *Formatter) FormatString(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	out, err := f.Format([]byte(text))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
