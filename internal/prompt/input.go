package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

func ScreeningInput(jobDescription, candidate string) string {
	return fmt.Sprintf(`Analyze the following candidate data for screening:

**Job context:** %s

**Candidate information:**
%s

Provide a complete screening analysis in the structured format given in the instructions.`, jobDescription, candidate)
}

func AssessmentInput(responses string) string {
	return fmt.Sprintf(`Analyze the following interview answers against the assessment criteria:

**Candidate interview answers:**
%s

Provide a complete assessment in the structured format given in the instructions.`, responses)
}

func BriefingInput(jobDescription, screening, assessment string) string {
	return fmt.Sprintf(`Generate an interviewer briefing sheet from the following data:

**Job description:** %s

**Screening data:**
%s

**Assessment data:**
%s

Provide a complete interviewer briefing sheet in the structured format given in the instructions.`, jobDescription, screening, assessment)
}

// InterviewEvaluationInput omits the previous scores block when previous is empty.
func InterviewEvaluationInput(interview, previous string) string {
	var b strings.Builder
	b.WriteString("Analyze and evaluate the following interview data:\n\n")
	if previous != "" {
		fmt.Fprintf(&b, "**Previous scores:**\n%s\n\n", previous)
	}
	fmt.Fprintf(&b, "**Interview data:**\n%s\n\n", interview)
	b.WriteString("Provide a complete interview evaluation in the structured format given in the instructions.")
	return b.String()
}

func ChecklistInput() string {
	return "Generate a complete team member observation checklist in the structured format given in the instructions."
}

func CultureFitInput(feedback string) string {
	return fmt.Sprintf(`Analyze the following team member feedback and produce a complete culture fit summary report:

**Team member feedback:**
%s

Provide a detailed culture fit assessment in the structured format given in the instructions.`, feedback)
}

// FormatTeamFeedback renders an array of feedback entries as numbered lines
// ("Team Member 1 Feedback: ...") separated by blank lines, in array order. Any other
// JSON value is rendered as indented JSON.
func FormatTeamFeedback(raw json.RawMessage) string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return indent(raw)
	}
	lines := make([]string, 0, len(items))
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("Team Member %d Feedback: %s", i+1, feedbackText(item)))
	}
	return strings.Join(lines, "\n\n")
}

func feedbackText(item json.RawMessage) string {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s
	}
	return string(item)
}

func indent(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
