package workflow

import "fmt"

// MissingInputError reports a required input file that does not exist. It is raised
// before any model call is attempted.
type MissingInputError struct {
	Path string
	Hint string
}

func (e *MissingInputError) Error() string {
	if e.Hint == "" {
		return fmt.Sprintf("required input not found: %s", e.Path)
	}
	return fmt.Sprintf("required input not found: %s (%s)", e.Path, e.Hint)
}
