package pipeline

import (
	"bytes"
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/recruitflow/internal/phase"
	"github.com/muhammadolammi/recruitflow/internal/workflow"
)

// Recommendation bands applied to the average of the model's screening and
// assessment scores.
const (
	RecommendHighly      = "HIGHLY RECOMMENDED"
	Recommend            = "RECOMMENDED"
	RecommendConditional = "CONDITIONAL RECOMMENDATION"
	RecommendNot         = "NOT RECOMMENDED"
)

type Report struct {
	RunID             string            `json:"run_id"`
	CandidateID       string            `json:"candidate_id,omitempty"`
	CandidateSummary  CandidateSummary  `json:"candidate_summary"`
	PhaseScores       PhaseScores       `json:"phase_scores"`
	OverallAssessment OverallAssessment `json:"overall_assessment"`
	PhaseOutcomes     map[string]string `json:"phase_outcomes"`
	OutputFiles       map[string]string `json:"output_files"`
	SuccessfulPhases  int               `json:"successful_phases"`
	TotalPhases       int               `json:"total_phases"`
}

type CandidateSummary struct {
	CVFile         string `json:"cv_file"`
	JobDescription string `json:"job_description"`
	AssessmentDate string `json:"assessment_date"`
}

type PhaseScores struct {
	ScreeningScore       *float64 `json:"screening_score,omitempty"`
	AssessmentScore      *float64 `json:"assessment_score,omitempty"`
	InterviewPreparation string   `json:"interview_preparation,omitempty"`
	CultureFit           string   `json:"culture_fit,omitempty"`
}

type OverallAssessment struct {
	AverageScore   *float64 `json:"average_score,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
}

func buildReport(runID uuid.UUID, opts Options, at time.Time, results map[workflow.Phase]*phase.Result, outputs map[string]string, total int) *Report {
	r := &Report{
		RunID:       runID.String(),
		CandidateID: opts.CandidateID,
		CandidateSummary: CandidateSummary{
			CVFile:         opts.CVSource,
			JobDescription: opts.Job.Description,
			AssessmentDate: at.Format("2006-01-02 15:04:05"),
		},
		PhaseOutcomes:    map[string]string{},
		OutputFiles:      outputs,
		SuccessfulPhases: len(results),
		TotalPhases:      total,
	}
	for ph, res := range results {
		r.PhaseOutcomes[ph.String()] = string(res.Outcome)
	}

	var scores []float64
	if res, ok := results[workflow.PhaseScreening]; ok {
		if s, ok := topLevelScore(res.Output, "screening_score"); ok {
			r.PhaseScores.ScreeningScore = &s
			scores = append(scores, s)
		}
	}
	if res, ok := results[workflow.PhaseAssessment]; ok {
		if s, ok := topLevelScore(res.Output, "assessment_score"); ok {
			r.PhaseScores.AssessmentScore = &s
			scores = append(scores, s)
		}
	}
	if _, ok := results[workflow.PhaseBriefing]; ok {
		r.PhaseScores.InterviewPreparation = "Completed"
	}
	if _, ok := results[workflow.PhaseCultureFit]; ok {
		r.PhaseScores.CultureFit = "Assessed"
	}

	if len(scores) > 0 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		avg := sum / float64(len(scores))
		rounded := math.Round(avg*100) / 100
		r.OverallAssessment.AverageScore = &rounded
		r.OverallAssessment.Recommendation = Recommendation(avg)
	}
	return r
}

// Recommendation maps an average score onto the recommendation bands.
func Recommendation(avg float64) string {
	switch {
	case avg >= 85:
		return RecommendHighly
	case avg >= 75:
		return Recommend
	case avg >= 65:
		return RecommendConditional
	default:
		return RecommendNot
	}
}

// topLevelScore reads a numeric top-level key from a JSON object. Outputs that are
// not objects or carry a non-numeric value yield no score.
func topLevelScore(output, key string) (float64, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(output), &obj); err != nil {
		return 0, false
	}
	raw, ok := obj[key]
	if !ok {
		return 0, false
	}
	var s float64
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, false
	}
	return s, true
}

// Marshal renders the report as indented JSON without HTML escaping.
func (r *Report) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
