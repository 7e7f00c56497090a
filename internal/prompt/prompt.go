// Package prompt holds the fixed instructions sent to the model for each phase and
// the small builders that wrap phase input into the accompanying text block.
package prompt

import (
	"embed"
	"fmt"
	"strings"
)

//go:embed templates/*.md
var templates embed.FS

type Kind string

const (
	KindCVAnalysis          Kind = "cv_analysis"
	KindScreening           Kind = "screening"
	KindAssessment          Kind = "assessment"
	KindBriefing            Kind = "briefing"
	KindInterviewEvaluation Kind = "interview_evaluation"
	KindCultureFit          Kind = "culture_fit"
)

// JobContext fills the position placeholders of the CV analysis prompt.
type JobContext struct {
	Title       string
	Department  string
	Location    string
	Description string
}

// System returns the instruction text for kind.
func System(kind Kind) (string, error) {
	b, err := templates.ReadFile("templates/" + string(kind) + ".md")
	if err != nil {
		return "", fmt.Errorf("no prompt template for %q: %w", kind, err)
	}
	return string(b), nil
}

// CVAnalysis returns the phase 0 prompt with the position fields filled in. Empty
// fields are left as "not specified".
func CVAnalysis(job JobContext) (string, error) {
	text, err := System(KindCVAnalysis)
	if err != nil {
		return "", err
	}
	r := strings.NewReplacer(
		"{{JOB_TITLE}}", orUnspecified(job.Title),
		"{{DEPARTMENT}}", orUnspecified(job.Department),
		"{{OFFICE_LOCATION}}", orUnspecified(job.Location),
	)
	return r.Replace(text), nil
}

func orUnspecified(s string) string {
	if strings.TrimSpace(s) == "" {
		return "not specified"
	}
	return s
}
