package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/muhammadolammi/recruitflow/internal/phase"
	"github.com/muhammadolammi/recruitflow/internal/workflow"
)

// exitCode maps a command error onto the process exit status. A missing input exits
// 1; a failed model call has already been logged and exits 0.
func exitCode(err error) int {
	var (
		missing *workflow.MissingInputError
		callErr *phase.ExternalCallError
	)
	switch {
	case err == nil:
		return 0
	case errors.As(err, &missing):
		return 1
	case errors.As(err, &callErr):
		return 0
	default:
		return 1
	}
}

// printResult writes the model output and the saved files to w.
func printResult(w io.Writer, res *phase.Result) {
	c := workflow.ContractFor(res.Phase)
	fmt.Fprintf(w, "\n=== PHASE %d: %s ===\n", c.Number, c.Title)
	if !res.Structured() {
		fmt.Fprintln(w, "(low confidence: the model did not answer with JSON)")
	}
	fmt.Fprintln(w, res.Output)
	for _, f := range res.Files {
		fmt.Fprintf(w, "saved: %s\n", f)
	}
}
