package phase

import (
	"fmt"

	"github.com/muhammadolammi/recruitflow/internal/workflow"
)

// ExternalCallError wraps a failed model call. Nothing is written when it is returned.
type ExternalCallError struct {
	Phase workflow.Phase
	Err   error
}

func (e *ExternalCallError) Error() string {
	return fmt.Sprintf("%s: model call failed: %v", e.Phase, e.Err)
}

func (e *ExternalCallError) Unwrap() error { return e.Err }
