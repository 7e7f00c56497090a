package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/lib/pq"
	"github.com/muhammadolammi/recruitflow/internal/config"
	"github.com/muhammadolammi/recruitflow/internal/database"
	"github.com/muhammadolammi/recruitflow/internal/document"
	"github.com/muhammadolammi/recruitflow/internal/notify"
	"github.com/muhammadolammi/recruitflow/internal/phase"
	"github.com/muhammadolammi/recruitflow/internal/pipeline"
	"github.com/muhammadolammi/recruitflow/internal/storage"
	"github.com/muhammadolammi/recruitflow/internal/workflow"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

// App holds the clients a command needs. Optional services stay nil when they are
// not configured.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	bucket *storage.Bucket
	db     *sql.DB
	dbq    *database.Queries
	rabbit *amqp.Connection
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{cfg: cfg, logger: logger}
	if cfg.HasR2() {
		bucket, err := storage.NewR2Bucket(ctx, cfg.Storage())
		if err != nil {
			return nil, err
		}
		app.bucket = bucket
	}
	return app, nil
}

// connectServices opens the database and broker connections used by full runs.
func (a *App) connectServices() error {
	if a.cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", a.cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("error opening db: %w", err)
		}
		a.db = db
		a.dbq = database.New(db)
	}
	if a.cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(a.cfg.RabbitMQURL)
		if err != nil {
			return fmt.Errorf("error connecting to RabbitMQ: %w", err)
		}
		a.rabbit = conn
	}
	return nil
}

func (a *App) Close() error {
	var errs []error
	if a.rabbit != nil {
		errs = append(errs, a.rabbit.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) store(scope string) *workflow.Store {
	return workflow.NewStore(a.cfg.Workspace.Dir, scope)
}

func (a *App) runner(store *workflow.Store) (*phase.Runner, error) {
	gen, err := newLazyGenerator(a.cfg)
	if err != nil {
		return nil, err
	}
	return phase.NewRunner(gen, store, a.logger), nil
}

func (a *App) fetcher() document.Fetcher {
	if a.bucket == nil {
		return nil
	}
	return a.bucket
}

// mirror copies run outputs to OUTPUT_DIR and, with R2 configured, to the bucket
// under runs/<scope>.
func (a *App) mirror(scope string) storage.Mirror {
	var ms storage.Mirrors
	if a.cfg.Workspace.OutputDir != "" {
		ms = append(ms, storage.DirMirror{Dir: filepath.Join(a.cfg.Workspace.OutputDir, scope)})
	}
	if a.bucket != nil {
		prefix := "runs"
		if scope != "" {
			prefix = "runs/" + scope
		}
		ms = append(ms, storage.BucketMirror{Bucket: a.bucket, Prefix: prefix})
	}
	return ms
}

func (a *App) notifier() (notify.Notifier, error) {
	if a.rabbit == nil {
		return notify.Nop{}, nil
	}
	return notify.NewAMQPNotifier(a.rabbit)
}

func (a *App) recorder() pipeline.Recorder {
	if a.dbq == nil {
		return pipeline.NopRecorder{}
	}
	return pipeline.NewDBRecorder(a.dbq)
}

// PipelineJob is the message the worker consumes from the pipeline_jobs queue.
// Empty job fields fall back to the process configuration.
type PipelineJob struct {
	CandidateID        string `json:"candidate_id"`
	CVSource           string `json:"cv_source"`
	JobTitle           string `json:"job_title"`
	JobDepartment      string `json:"job_department"`
	JobLocation        string `json:"job_location"`
	JobDescription     string `json:"job_description"`
	InterviewResponses string `json:"interview_responses_file"`
	TeamFeedback       string `json:"team_feedback_file"`
}

func (j PipelineJob) Validate() error {
	switch {
	case j.CandidateID == "":
		return errors.New("job has no candidate_id")
	case strings.ContainsAny(j.CandidateID, `/\`) || j.CandidateID == "." || j.CandidateID == "..":
		return fmt.Errorf("invalid candidate_id %q", j.CandidateID)
	case j.CVSource == "":
		return errors.New("job has no cv_source")
	}
	return nil
}

// options merges the job over the configured defaults.
func (j PipelineJob) options(cfg *config.Config) pipeline.Options {
	job := cfg.Job
	if j.JobTitle != "" {
		job.Title = j.JobTitle
	}
	if j.JobDepartment != "" {
		job.Department = j.JobDepartment
	}
	if j.JobLocation != "" {
		job.Location = j.JobLocation
	}
	if j.JobDescription != "" {
		job.Description = j.JobDescription
	}
	merged := *cfg
	merged.Job = job
	return pipeline.Options{
		CandidateID:        j.CandidateID,
		CVSource:           j.CVSource,
		Job:                merged.JobContext(),
		InterviewResponses: firstNonEmpty(j.InterviewResponses, cfg.Inputs.InterviewResponses),
		TeamFeedback:       firstNonEmpty(j.TeamFeedback, cfg.Inputs.TeamFeedback),
	}
}

func pipelineOptions(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		CandidateID:        cfg.Workspace.CandidateID,
		CVSource:           cfg.Inputs.CVFile,
		Job:                cfg.JobContext(),
		InterviewResponses: cfg.Inputs.InterviewResponses,
		TeamFeedback:       cfg.Inputs.TeamFeedback,
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
