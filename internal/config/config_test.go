package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PIPELINE_CONFIG", "VERTEX_KEY_PATH", "VERTEX_PROJECT", "VERTEX_LOCATION", "VERTEX_MODEL",
		"MODEL_TRANSPORT", "JOB_TITLE", "JOB_DEPARTMENT", "JOB_LOCATION", "JOB_DESCRIPTION",
		"CV_FILE", "SCREENING_SOURCE", "INTERVIEW_RESPONSES_FILE", "INTERVIEW_TRANSCRIPT_FILE",
		"PREVIOUS_SCORES_FILE", "TEAM_FEEDBACK_FILE", "WORKDIR", "CANDIDATE_ID", "OUTPUT_DIR",
		"R2_ACCOUNT_ID", "R2_BUCKET", "R2_ACCESS_KEY", "R2_SECRET_KEY", "DB_URL", "RABBITMQ_URL",
		"LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultLocation, cfg.Vertex.Location)
	assert.Equal(t, DefaultModel, cfg.Vertex.Model)
	assert.Equal(t, TransportDirect, cfg.Vertex.Transport)
	assert.Equal(t, DefaultCVFile, cfg.Inputs.CVFile)
	assert.Equal(t, ".", cfg.Workspace.Dir)
	assert.Equal(t, DefaultOutput, cfg.Workspace.OutputDir)
	assert.False(t, cfg.HasR2())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
vertex:
  project: from-yaml
  model: gemini-2.5-flash
job:
  title: Software Engineer
  location: Hanoi
inputs:
  team_feedback_file: feedback.json
workspace:
  candidate_id: cand-7
`), 0o644))
	t.Setenv("PIPELINE_CONFIG", path)
	t.Setenv("VERTEX_PROJECT", "from-env")
	t.Setenv("MODEL_TRANSPORT", "agent")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Vertex.Project)
	assert.Equal(t, "gemini-2.5-flash", cfg.Vertex.Model)
	assert.Equal(t, DefaultLocation, cfg.Vertex.Location)
	assert.Equal(t, TransportAgent, cfg.Vertex.Transport)
	assert.Equal(t, "feedback.json", cfg.Inputs.TeamFeedback)
	assert.Equal(t, "cand-7", cfg.Workspace.CandidateID)
	assert.Equal(t, "Software Engineer - Hanoi", cfg.JobDescription())

	llmCfg := cfg.LLM()
	assert.Equal(t, "from-env", llmCfg.Project)
	assert.Equal(t, "gemini-2.5-flash", llmCfg.Model)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIPELINE_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Vertex.Transport = "grpc"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Workspace.CandidateID = "../etc"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Workspace.CandidateID = "cand-1"
	assert.NoError(t, cfg.Validate())
}

func TestJobContext(t *testing.T) {
	cfg := Default()
	cfg.Job = JobConfig{Title: "QA", Description: "QA engineer for the payments team"}

	job := cfg.JobContext()
	assert.Equal(t, "QA", job.Title)
	assert.Equal(t, "QA engineer for the payments team", job.Description)
}

func TestStorage(t *testing.T) {
	cfg := Default()
	cfg.R2 = R2Config{AccountID: "acc", Bucket: "cvs"}
	assert.True(t, cfg.HasR2())
	assert.Error(t, cfg.Storage().Validate())
}
