// Package workflow defines the on-disk hand-off between pipeline phases: which files
// each phase writes, which files it reads, and how prior artifacts are loaded.
package workflow

import "fmt"

type Phase string

const (
	PhaseCVAnalysis          Phase = "phase0_cv_analysis"
	PhaseScreening           Phase = "phase1_screening"
	PhaseAssessment          Phase = "phase2_assessment"
	PhaseBriefing            Phase = "phase3_briefing"
	PhaseInterviewEvaluation Phase = "phase3_interview_evaluation"
	PhaseChecklist           Phase = "phase4_checklist"
	PhaseCultureFit          Phase = "phase4_culture_fit"
)

// Auxiliary files written by the full pipeline run.
const (
	SampleResponsesFile = "[SAMPLE]_Interview_Responses.json"
	TeamFeedbackFile    = "[PHASE_4][OUTPUT]_Team_Feedback.json"
	FinalReportFile     = "[FINAL][OUTPUT]_Recruitment_Summary.json"
)

// Contract is the fixed file layout of one phase.
type Contract struct {
	Phase        Phase
	Number       int
	Title        string
	TraceFile    string
	WorkflowFile string
	Inputs       []Phase
	// ExpectedKeys are top-level keys a well-formed workflow file usually carries.
	ExpectedKeys []string
}

var contracts = []Contract{
	{
		Phase:        PhaseCVAnalysis,
		Number:       0,
		Title:        "CV Analysis",
		TraceFile:    "phase0_raw_output.txt",
		WorkflowFile: "[PHASE_0][OUTPUT]_CV_Analysis.json",
		ExpectedKeys: []string{"candidate_info", "extraction_quality"},
	},
	{
		Phase:        PhaseScreening,
		Number:       1,
		Title:        "Initial Screening",
		TraceFile:    "phase1_raw_output.txt",
		WorkflowFile: "[PHASE_1][OUTPUT]_Initial_Screening.json",
		Inputs:       []Phase{PhaseCVAnalysis},
		ExpectedKeys: []string{"screening_score"},
	},
	{
		Phase:        PhaseAssessment,
		Number:       2,
		Title:        "Technical Assessment",
		TraceFile:    "phase2_raw_output.txt",
		WorkflowFile: "[PHASE_2][OUTPUT]_Technical_Assessment.json",
		ExpectedKeys: []string{"assessment_score"},
	},
	{
		Phase:        PhaseBriefing,
		Number:       3,
		Title:        "Interview Briefing",
		TraceFile:    "phase3_briefing_raw_output.txt",
		WorkflowFile: "[PHASE_3][OUTPUT]_Interview_Briefing.json",
		Inputs:       []Phase{PhaseScreening, PhaseAssessment},
	},
	{
		Phase:        PhaseInterviewEvaluation,
		Number:       3,
		Title:        "Interview Evaluation",
		TraceFile:    "phase3_evaluation_raw_output.txt",
		WorkflowFile: "[PHASE_3][OUTPUT]_Interview_Evaluation.json",
	},
	{
		Phase:        PhaseChecklist,
		Number:       4,
		Title:        "Team Checklist",
		TraceFile:    "phase4_checklist_raw_output.txt",
		WorkflowFile: "[PHASE_4][OUTPUT]_Team_Checklist.json",
	},
	{
		Phase:        PhaseCultureFit,
		Number:       4,
		Title:        "Culture Fit Report",
		TraceFile:    "phase4_raw_output.txt",
		WorkflowFile: "[PHASE_4][OUTPUT]_Culture_Fit_Report.json",
	},
}

// ContractFor returns the file layout for p. It panics on an unknown phase since
// the table is closed.
func ContractFor(p Phase) Contract {
	for _, c := range contracts {
		if c.Phase == p {
			return c
		}
	}
	panic(fmt.Sprintf("workflow: unknown phase %q", p))
}

// Contracts returns every phase contract in pipeline order.
func Contracts() []Contract {
	out := make([]Contract, len(contracts))
	copy(out, contracts)
	return out
}

func (p Phase) String() string { return string(p) }
