package workflow

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// RawTextKey is the single key of the container used when an input file is not JSON.
const RawTextKey = "rawText"

// Input is a JSON payload handed to a phase, either read from disk or supplied by the
// caller. Fallback is set when the source was not valid JSON and has been wrapped as
// {"rawText": "<contents>"}.
type Input struct {
	Source   string
	Raw      json.RawMessage
	Fallback bool
}

// NewInput wraps an in-memory value. Byte slices and json.RawMessage are parsed the
// same way a file would be; other values are marshaled.
func NewInput(source string, v any) (Input, error) {
	switch x := v.(type) {
	case json.RawMessage:
		return ParseInput(source, x), nil
	case []byte:
		return ParseInput(source, x), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return Input{}, fmt.Errorf("failed to encode %s: %w", source, err)
	}
	return Input{Source: source, Raw: b}, nil
}

// LoadInput reads path as a phase input. A missing file is a *MissingInputError; a file
// that is not JSON is recovered into the raw-text container rather than failing.
func LoadInput(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Input{}, &MissingInputError{Path: path}
	}
	if err != nil {
		return Input{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseInput(path, data), nil
}

// ParseInput applies the JSON-or-raw-text rule to data.
func ParseInput(source string, data []byte) Input {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return Input{Source: source, Raw: json.RawMessage(trimmed)}
	}
	wrapped, _ := json.Marshal(map[string]string{RawTextKey: string(data)})
	return Input{Source: source, Raw: wrapped, Fallback: true}
}

// IsArray reports whether the payload is a JSON array.
func (in Input) IsArray() bool {
	return len(in.Raw) > 0 && in.Raw[0] == '['
}

// Indented renders the payload with two-space indentation, keeping key order and
// leaving <, > and & unescaped. An empty input renders as null.
func (in Input) Indented() string {
	if len(in.Raw) == 0 {
		return "null"
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, in.Raw, "", "  "); err != nil {
		return string(in.Raw)
	}
	return buf.String()
}
