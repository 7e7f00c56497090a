package response

import (
	"encoding/json"
	"strings"
)

const (
	FenceOpenJSON = "```json"
	FenceOpen     = "```"
	FenceClose    = "```"
)

// Outcome tells callers whether a normalized model reply is usable as structured data.
type Outcome string

const (
	OutcomeStructured   Outcome = "structured"
	OutcomeUnstructured Outcome = "unstructured"
)

// Normalize removes an optional leading ```json (or bare ```) marker and an optional
// trailing ``` marker, then trims surrounding whitespace. Markers are checked
// independently. Stripping repeats until no marker is left, so the result is stable
// under reapplication.
func Normalize(raw string) string {
	clean := strip(raw)
	for {
		next := strip(clean)
		if next == clean {
			return clean
		}
		clean = next
	}
}

func strip(input string) string {
	clean := strings.TrimSpace(input)

	if strings.HasPrefix(clean, FenceOpenJSON) {
		clean = strings.TrimPrefix(clean, FenceOpenJSON)
	} else if strings.HasPrefix(clean, FenceOpen) {
		clean = strings.TrimPrefix(clean, FenceOpen)
	}

	clean = strings.TrimSuffix(clean, FenceClose)

	return strings.TrimSpace(clean)
}

// Classify reports OutcomeStructured only when out is valid JSON. Prose replies,
// including a model declining to score, come back as OutcomeUnstructured.
func Classify(out string) Outcome {
	if out != "" && json.Valid([]byte(out)) {
		return OutcomeStructured
	}
	return OutcomeUnstructured
}
