package pipeline

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/muhammadolammi/recruitflow/internal/database"
	"github.com/muhammadolammi/recruitflow/internal/phase"
)

// Run identifies a pipeline run for the recorder.
type Run struct {
	ID             uuid.UUID
	CandidateID    string
	CVSource       string
	JobDescription string
}

// Recorder keeps a durable history of runs and their phase artifacts.
type Recorder interface {
	StartRun(ctx context.Context, run Run) error
	RecordPhase(ctx context.Context, runID uuid.UUID, res *phase.Result) error
	UpdateStatus(ctx context.Context, runID uuid.UUID, status string) error
	FinishRun(ctx context.Context, runID uuid.UUID, status string, report json.RawMessage) error
}

type NopRecorder struct{}

func (NopRecorder) StartRun(context.Context, Run) error { return nil }
func (NopRecorder) RecordPhase(context.Context, uuid.UUID, *phase.Result) error { return nil }
func (NopRecorder) UpdateStatus(context.Context, uuid.UUID, string) error { return nil }
func (NopRecorder) FinishRun(context.Context, uuid.UUID, string, json.RawMessage) error { return nil }

// Queries is the subset of *database.Queries the recorder needs.
type Queries interface {
	CreatePipelineRun(ctx context.Context, arg database.CreatePipelineRunParams) (database.PipelineRun, error)
	UpdatePipelineRunStatus(ctx context.Context, arg database.UpdatePipelineRunStatusParams) error
	SavePipelineReport(ctx context.Context, arg database.SavePipelineReportParams) error
	UpsertPhaseArtifact(ctx context.Context, arg database.UpsertPhaseArtifactParams) error
}

// DBRecorder stores runs in Postgres.
type DBRecorder struct {
	q Queries
}

func NewDBRecorder(q Queries) *DBRecorder {
	return &DBRecorder{q: q}
}

func (r *DBRecorder) StartRun(ctx context.Context, run Run) error {
	_, err := r.q.CreatePipelineRun(ctx, database.CreatePipelineRunParams{
		ID:             run.ID,
		CandidateID:    run.CandidateID,
		CvSource:       run.CVSource,
		JobDescription: run.JobDescription,
		Status:         "processing",
	})
	return err
}

func (r *DBRecorder) RecordPhase(ctx context.Context, runID uuid.UUID, res *phase.Result) error {
	return r.q.UpsertPhaseArtifact(ctx, database.UpsertPhaseArtifactParams{
		ID:      uuid.New(),
		RunID:   runID,
		Phase:   res.Phase.String(),
		Outcome: string(res.Outcome),
		Output:  res.Output,
	})
}

func (r *DBRecorder) UpdateStatus(ctx context.Context, runID uuid.UUID, status string) error {
	return r.q.UpdatePipelineRunStatus(ctx, database.UpdatePipelineRunStatusParams{
		Status: status,
		ID:     runID,
	})
}

func (r *DBRecorder) FinishRun(ctx context.Context, runID uuid.UUID, status string, report json.RawMessage) error {
	return r.q.SavePipelineReport(ctx, database.SavePipelineReportParams{
		Report: report,
		Status: status,
		ID:     runID,
	})
}
