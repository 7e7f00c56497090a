package phase

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"

	"github.com/muhammadolammi/recruitflow/internal/document"
	"github.com/muhammadolammi/recruitflow/internal/llm"
	"github.com/muhammadolammi/recruitflow/internal/prompt"
	"github.com/muhammadolammi/recruitflow/internal/workflow"
	"go.uber.org/zap"
)

// AnalyzeCV extracts structured candidate information from the CV (phase 0).
func (r *Runner) AnalyzeCV(ctx context.Context, doc *document.Document, job prompt.JobContext) (*Result, error) {
	if doc.InspectErr != nil {
		r.logger.Warn("could not parse pdf locally; sending it anyway",
			zap.String("file", doc.Source), zap.Error(doc.InspectErr))
	} else if doc.Pages > 0 {
		r.logger.Info("cv loaded", zap.String("file", doc.Source), zap.Int("pages", doc.Pages))
	}
	parts, err := systemPart(prompt.CVAnalysis(job))
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, workflow.PhaseCVAnalysis, append(parts, doc.Part()))
}

// Screen scores the candidate against the job (phase 1). source is either inline
// JSON starting with "{" or a file path; an empty source reads the phase 0 workflow
// file. The candidate text is embedded as-is.
func (r *Runner) Screen(ctx context.Context, source, jobDescription string) (*Result, error) {
	candidate, err := r.screeningCandidate(source)
	if err != nil {
		return nil, err
	}
	parts, err := systemPart(prompt.System(prompt.KindScreening))
	if err != nil {
		return nil, err
	}
	parts = append(parts, llm.TextPart(prompt.ScreeningInput(jobDescription, candidate)))
	return r.execute(ctx, workflow.PhaseScreening, parts)
}

func (r *Runner) screeningCandidate(source string) (string, error) {
	if strings.HasPrefix(strings.TrimSpace(source), "{") {
		return source, nil
	}
	if source == "" {
		data, err := r.store.ReadWorkflow(workflow.PhaseCVAnalysis)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := os.ReadFile(source)
	if errors.Is(err, os.ErrNotExist) {
		return "", &workflow.MissingInputError{Path: source, Hint: "run CV Analysis first"}
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Assess evaluates interview question/answer pairs (phase 2).
func (r *Runner) Assess(ctx context.Context, responses workflow.Input) (*Result, error) {
	parts, err := systemPart(prompt.System(prompt.KindAssessment))
	if err != nil {
		return nil, err
	}
	parts = append(parts, llm.TextPart(prompt.AssessmentInput(responses.Indented())))
	return r.execute(ctx, workflow.PhaseAssessment, parts)
}

// Brief builds the interviewer briefing from the phase 1 and phase 2 workflow files
// (phase 3a). Files that are not JSON are passed on in the raw-text container. The
// phase fails only when both files are missing.
func (r *Runner) Brief(ctx context.Context, jobDescription string) (*Result, error) {
	screening, screeningErr := r.loadPrior(workflow.PhaseScreening)
	assessment, assessmentErr := r.loadPrior(workflow.PhaseAssessment)
	if screeningErr != nil && assessmentErr != nil {
		return nil, errors.Join(screeningErr, assessmentErr)
	}
	for _, err := range []error{screeningErr, assessmentErr} {
		var missing *workflow.MissingInputError
		if errors.As(err, &missing) {
			r.logger.Warn("briefing input missing; continuing without it", zap.String("file", missing.Path))
		} else if err != nil {
			return nil, err
		}
	}

	parts, err := systemPart(prompt.System(prompt.KindBriefing))
	if err != nil {
		return nil, err
	}
	parts = append(parts, llm.TextPart(prompt.BriefingInput(jobDescription, screening.Indented(), assessment.Indented())))
	return r.execute(ctx, workflow.PhaseBriefing, parts)
}

func (r *Runner) loadPrior(p workflow.Phase) (workflow.Input, error) {
	in, err := workflow.LoadInput(r.store.WorkflowPath(p))
	if err != nil {
		return workflow.Input{}, err
	}
	if in.Fallback {
		r.logger.Warn("prior artifact is not valid JSON; passing it as raw text",
			zap.String("phase", p.String()), zap.String("file", in.Source))
	}
	return in, nil
}

// EvaluateInterview scores a finished interview (phase 3b). previous may be empty.
func (r *Runner) EvaluateInterview(ctx context.Context, interview workflow.Input, previous *workflow.Input) (*Result, error) {
	parts, err := systemPart(prompt.System(prompt.KindInterviewEvaluation))
	if err != nil {
		return nil, err
	}
	var prev string
	if previous != nil {
		prev = previous.Indented()
	}
	parts = append(parts, llm.TextPart(prompt.InterviewEvaluationInput(interview.Indented(), prev)))
	return r.execute(ctx, workflow.PhaseInterviewEvaluation, parts)
}

// GenerateChecklist produces the team observation checklist (phase 4a).
func (r *Runner) GenerateChecklist(ctx context.Context) (*Result, error) {
	parts, err := systemPart(prompt.System(prompt.KindCultureFit))
	if err != nil {
		return nil, err
	}
	parts = append(parts, llm.TextPart(prompt.ChecklistInput()))
	return r.execute(ctx, workflow.PhaseChecklist, parts)
}

// AnalyzeCultureFit summarizes team feedback (phase 4b). An array of entries is sent
// as a numbered list; any other JSON value is sent indented.
func (r *Runner) AnalyzeCultureFit(ctx context.Context, feedback workflow.Input) (*Result, error) {
	parts, err := systemPart(prompt.System(prompt.KindCultureFit))
	if err != nil {
		return nil, err
	}
	parts = append(parts, llm.TextPart(prompt.CultureFitInput(prompt.FormatTeamFeedback(feedback.Raw))))
	return r.execute(ctx, workflow.PhaseCultureFit, parts)
}

// LoadTeamFeedback reads a feedback file. Text that is not JSON becomes a single
// feedback entry.
func LoadTeamFeedback(path string) (workflow.Input, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return workflow.Input{}, &workflow.MissingInputError{Path: path, Hint: "collect team member feedback first"}
	}
	if err != nil {
		return workflow.Input{}, err
	}
	in := workflow.ParseInput(path, data)
	if !in.Fallback {
		return in, nil
	}
	wrapped, err := json.Marshal([]string{string(data)})
	if err != nil {
		return workflow.Input{}, err
	}
	return workflow.Input{Source: path, Raw: wrapped, Fallback: true}, nil
}
