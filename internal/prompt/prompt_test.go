package prompt

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_AllKindsPresent(t *testing.T) {
	kinds := []Kind{
		KindCVAnalysis, KindScreening, KindAssessment,
		KindBriefing, KindInterviewEvaluation, KindCultureFit,
	}
	for _, k := range kinds {
		text, err := System(k)
		require.NoError(t, err, k)
		assert.Contains(t, text, "<role>", k)
		assert.Contains(t, text, "```json", k)
	}
}

func TestSystem_UnknownKind(t *testing.T) {
	_, err := System("payroll")
	assert.Error(t, err)
}

func TestCVAnalysis_FillsPosition(t *testing.T) {
	text, err := CVAnalysis(JobContext{Title: "QA Engineer", Department: "QA Team"})
	require.NoError(t, err)
	assert.Contains(t, text, "Position title: QA Engineer")
	assert.Contains(t, text, "Department: QA Team")
	assert.Contains(t, text, "Office location: not specified")
	assert.NotContains(t, text, "{{")
}

func TestFormatTeamFeedback_NumberedInOrder(t *testing.T) {
	got := FormatTeamFeedback(json.RawMessage(`["fb1","fb2"]`))
	assert.Equal(t, "Team Member 1 Feedback: fb1\n\nTeam Member 2 Feedback: fb2", got)
}

func TestFormatTeamFeedback_NonStringItems(t *testing.T) {
	got := FormatTeamFeedback(json.RawMessage(`[{"role":"dev"},3]`))
	assert.Equal(t, "Team Member 1 Feedback: {\"role\":\"dev\"}\n\nTeam Member 2 Feedback: 3", got)
}

func TestFormatTeamFeedback_LegacyObject(t *testing.T) {
	got := FormatTeamFeedback(json.RawMessage(`{"member_1":{"overall_impression":"Positive & <calm>"}}`))
	assert.Equal(t, "{\n  \"member_1\": {\n    \"overall_impression\": \"Positive & <calm>\"\n  }\n}", got)
}

func TestFormatTeamFeedback_EmptyArray(t *testing.T) {
	assert.Equal(t, "", FormatTeamFeedback(json.RawMessage(`[]`)))
}

func TestInterviewEvaluationInput_PreviousScoresOptional(t *testing.T) {
	without := InterviewEvaluationInput(`{"notes":"ok"}`, "")
	assert.NotContains(t, without, "Previous scores")

	with := InterviewEvaluationInput(`{"notes":"ok"}`, `{"screening_score":80}`)
	assert.Contains(t, with, "**Previous scores:**\n{\"screening_score\":80}")
	assert.Less(t, strings.Index(with, "Previous scores"), strings.Index(with, "Interview data"))
}

func TestScreeningInput_EmbedsCandidateVerbatim(t *testing.T) {
	candidate := "```json\n{\"candidate_info\":{}}\n```"
	got := ScreeningInput("Backend engineer", candidate)
	assert.Contains(t, got, "**Job context:** Backend engineer")
	assert.Contains(t, got, candidate)
}

func TestSamples_AreValidJSON(t *testing.T) {
	assert.True(t, json.Valid(SampleInterviewResponses()))
	var fb []string
	require.NoError(t, json.Unmarshal(SampleTeamFeedback(), &fb))
	assert.Len(t, fb, 3)
}
