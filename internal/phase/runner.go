// Package phase runs the individual pipeline phases. Every phase builds one request,
// makes exactly one model call, normalizes the reply and persists it through the
// workflow store.
package phase

import (
	"context"
	"fmt"
	"strings"

	"github.com/muhammadolammi/recruitflow/internal/llm"
	"github.com/muhammadolammi/recruitflow/internal/response"
	"github.com/muhammadolammi/recruitflow/internal/workflow"
	"go.uber.org/zap"
)

// Result is a successful phase run. Outcome is OutcomeUnstructured when the model
// answered with prose instead of JSON, such as a refusal to score on thin data.
type Result struct {
	Phase   workflow.Phase
	Output  string
	Outcome response.Outcome
	Files   []string
}

func (r *Result) Structured() bool { return r.Outcome == response.OutcomeStructured }

type Runner struct {
	gen    llm.Generator
	store  *workflow.Store
	logger *zap.Logger
}

func NewRunner(gen llm.Generator, store *workflow.Store, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{gen: gen, store: store, logger: logger}
}

func (r *Runner) Store() *workflow.Store { return r.store }

// execute sends parts to the model and persists the normalized reply.
func (r *Runner) execute(ctx context.Context, p workflow.Phase, parts []llm.Part) (*Result, error) {
	log := r.logger.With(zap.String("phase", p.String()))
	log.Info("sending request", zap.String("model", r.gen.Name()), zap.Int("parts", len(parts)))

	raw, err := r.gen.Generate(ctx, llm.Request{Phase: p.String(), Parts: parts})
	if err == nil && strings.TrimSpace(raw) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		log.Error("model call failed", zap.Error(err), zap.String("error_type", fmt.Sprintf("%T", err)))
		return nil, &ExternalCallError{Phase: p, Err: err}
	}

	out := response.Normalize(raw)
	if out == "" {
		log.Error("model reply was only fence markers")
		return nil, &ExternalCallError{Phase: p, Err: llm.ErrEmptyResponse}
	}
	res := &Result{Phase: p, Output: out, Outcome: response.Classify(out)}
	log.Info("response received", zap.Int("raw_bytes", len(raw)), zap.Int("clean_bytes", len(out)),
		zap.String("outcome", string(res.Outcome)))
	if !res.Structured() {
		log.Warn("model reply is not JSON; keeping it as a low-confidence result")
	}

	files, err := r.store.Save(p, out)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to save output: %w", p, err)
	}
	res.Files = files
	for _, f := range files {
		log.Info("saved", zap.String("file", f))
	}
	return res, nil
}

func systemPart(text string, err error) ([]llm.Part, error) {
	if err != nil {
		return nil, err
	}
	return []llm.Part{llm.TextPart(text)}, nil
}
