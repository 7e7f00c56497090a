// Package config loads the process-wide pipeline settings once at start-up. Values
// come from an optional YAML file and are then overridden by the environment (a
// .env file in the working directory is loaded first).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/muhammadolammi/recruitflow/internal/llm"
	"github.com/muhammadolammi/recruitflow/internal/prompt"
	"github.com/muhammadolammi/recruitflow/internal/storage"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile     = "pipeline.yaml"
	DefaultLocation = "us-central1"
	DefaultModel    = "gemini-2.5-pro"
	DefaultCVFile   = "cv.pdf"
	DefaultOutput   = "Output"

	TransportDirect = "direct"
	TransportAgent  = "agent"
)

type Config struct {
	Vertex    VertexConfig    `yaml:"vertex"`
	Job       JobConfig       `yaml:"job"`
	Inputs    InputsConfig    `yaml:"inputs"`
	Workspace WorkspaceConfig `yaml:"workspace"`
	R2        R2Config        `yaml:"r2"`

	DatabaseURL string `yaml:"database_url"`
	RabbitMQURL string `yaml:"rabbitmq_url"`
	LogLevel    string `yaml:"log_level"`
}

type VertexConfig struct {
	KeyPath   string `yaml:"key_path"`
	Project   string `yaml:"project"`
	Location  string `yaml:"location"`
	Model     string `yaml:"model"`
	Transport string `yaml:"transport"`
}

type JobConfig struct {
	Title       string `yaml:"title"`
	Department  string `yaml:"department"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
}

// InputsConfig points at the caller-supplied inputs of each phase. Empty paths fall
// back to the workflow files of earlier phases or to the built-in sample sets.
type InputsConfig struct {
	CVFile              string `yaml:"cv_file"`
	ScreeningSource     string `yaml:"screening_source"`
	InterviewResponses  string `yaml:"interview_responses_file"`
	InterviewTranscript string `yaml:"interview_transcript_file"`
	PreviousScores      string `yaml:"previous_scores_file"`
	TeamFeedback        string `yaml:"team_feedback_file"`
}

type WorkspaceConfig struct {
	Dir         string `yaml:"dir"`
	CandidateID string `yaml:"candidate_id"`
	OutputDir   string `yaml:"output_dir"`
}

type R2Config struct {
	AccountID string `yaml:"account_id"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

func Default() *Config {
	return &Config{
		Vertex: VertexConfig{
			Location:  DefaultLocation,
			Model:     DefaultModel,
			Transport: TransportDirect,
		},
		Inputs:    InputsConfig{CVFile: DefaultCVFile},
		Workspace: WorkspaceConfig{Dir: ".", OutputDir: DefaultOutput},
		LogLevel:  "info",
	}
}

// Load reads .env, then the YAML file named by PIPELINE_CONFIG (pipeline.yaml when
// unset; a missing default file is not an error), then applies environment
// overrides.
func Load() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv("PIPELINE_CONFIG")
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	overrides := []struct {
		key string
		dst *string
	}{
		{"VERTEX_KEY_PATH", &c.Vertex.KeyPath},
		{"VERTEX_PROJECT", &c.Vertex.Project},
		{"VERTEX_LOCATION", &c.Vertex.Location},
		{"VERTEX_MODEL", &c.Vertex.Model},
		{"MODEL_TRANSPORT", &c.Vertex.Transport},
		{"JOB_TITLE", &c.Job.Title},
		{"JOB_DEPARTMENT", &c.Job.Department},
		{"JOB_LOCATION", &c.Job.Location},
		{"JOB_DESCRIPTION", &c.Job.Description},
		{"CV_FILE", &c.Inputs.CVFile},
		{"SCREENING_SOURCE", &c.Inputs.ScreeningSource},
		{"INTERVIEW_RESPONSES_FILE", &c.Inputs.InterviewResponses},
		{"INTERVIEW_TRANSCRIPT_FILE", &c.Inputs.InterviewTranscript},
		{"PREVIOUS_SCORES_FILE", &c.Inputs.PreviousScores},
		{"TEAM_FEEDBACK_FILE", &c.Inputs.TeamFeedback},
		{"WORKDIR", &c.Workspace.Dir},
		{"CANDIDATE_ID", &c.Workspace.CandidateID},
		{"OUTPUT_DIR", &c.Workspace.OutputDir},
		{"R2_ACCOUNT_ID", &c.R2.AccountID},
		{"R2_BUCKET", &c.R2.Bucket},
		{"R2_ACCESS_KEY", &c.R2.AccessKey},
		{"R2_SECRET_KEY", &c.R2.SecretKey},
		{"DB_URL", &c.DatabaseURL},
		{"RABBITMQ_URL", &c.RabbitMQURL},
		{"LOG_LEVEL", &c.LogLevel},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.key)); v != "" {
			*o.dst = v
		}
	}
}

func (c *Config) Validate() error {
	switch c.Vertex.Transport {
	case TransportDirect, TransportAgent:
	default:
		return fmt.Errorf("unknown MODEL_TRANSPORT %q (want %s or %s)", c.Vertex.Transport, TransportDirect, TransportAgent)
	}
	if strings.ContainsAny(c.Workspace.CandidateID, `/\`) || c.Workspace.CandidateID == ".." {
		return fmt.Errorf("invalid CANDIDATE_ID %q", c.Workspace.CandidateID)
	}
	return nil
}

func (c *Config) LLM() llm.VertexConfig {
	return llm.VertexConfig{
		KeyPath:  c.Vertex.KeyPath,
		Project:  c.Vertex.Project,
		Location: c.Vertex.Location,
		Model:    c.Vertex.Model,
	}
}

func (c *Config) JobContext() prompt.JobContext {
	return prompt.JobContext{
		Title:       c.Job.Title,
		Department:  c.Job.Department,
		Location:    c.Job.Location,
		Description: c.JobDescription(),
	}
}

// JobDescription returns the configured description, or one assembled from the
// position fields when none is set.
func (c *Config) JobDescription() string {
	if d := strings.TrimSpace(c.Job.Description); d != "" {
		return d
	}
	var parts []string
	for _, s := range []string{c.Job.Title, c.Job.Department, c.Job.Location} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " - ")
}

// HasR2 reports whether any R2 setting is present. Partial settings are caught by
// storage.R2Config.Validate.
func (c *Config) HasR2() bool {
	return c.R2 != R2Config{}
}

func (c *Config) Storage() storage.R2Config {
	return storage.R2Config{
		AccountID: c.R2.AccountID,
		Bucket:    c.R2.Bucket,
		AccessKey: c.R2.AccessKey,
		SecretKey: c.R2.SecretKey,
	}
}
