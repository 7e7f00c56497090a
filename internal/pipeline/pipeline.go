// Package pipeline runs every phase for one candidate in order, writes the final
// recruitment summary and fans the produced files out to the configured mirrors.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/recruitflow/internal/document"
	"github.com/muhammadolammi/recruitflow/internal/notify"
	"github.com/muhammadolammi/recruitflow/internal/phase"
	"github.com/muhammadolammi/recruitflow/internal/prompt"
	"github.com/muhammadolammi/recruitflow/internal/storage"
	"github.com/muhammadolammi/recruitflow/internal/workflow"
	"go.uber.org/zap"
)

// Options are the inputs of one run. Empty InterviewResponses and TeamFeedback
// paths select the built-in sample sets.
type Options struct {
	// RunID identifies the run in updates and records. A new one is generated
	// when it is zero.
	RunID              uuid.UUID
	CandidateID        string
	CVSource           string
	Job                prompt.JobContext
	InterviewResponses string
	TeamFeedback       string
}

// Deps are optional collaborators; nil fields are replaced with no-ops.
type Deps struct {
	Fetcher  document.Fetcher
	Mirror   storage.Mirror
	Notifier notify.Notifier
	Recorder Recorder
	Logger   *zap.Logger
}

type Pipeline struct {
	runner   *phase.Runner
	opts     Options
	fetcher  document.Fetcher
	mirror   storage.Mirror
	notifier notify.Notifier
	recorder Recorder
	logger   *zap.Logger
	now      func() time.Time
}

func New(runner *phase.Runner, opts Options, deps Deps) *Pipeline {
	p := &Pipeline{
		runner:   runner,
		opts:     opts,
		fetcher:  deps.Fetcher,
		mirror:   deps.Mirror,
		notifier: deps.Notifier,
		recorder: deps.Recorder,
		logger:   deps.Logger,
		now:      time.Now,
	}
	if p.mirror == nil {
		p.mirror = storage.Mirrors(nil)
	}
	if p.notifier == nil {
		p.notifier = notify.Nop{}
	}
	if p.recorder == nil {
		p.recorder = NopRecorder{}
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	return p
}

// Summary is what a finished run produced. Failures holds the error of every phase
// that did not complete; the run itself still succeeds.
type Summary struct {
	RunID    uuid.UUID
	Report   *Report
	Results  map[workflow.Phase]*phase.Result
	Failures map[workflow.Phase]error
	Files    []string
}

func (s *Summary) Complete() bool { return len(s.Failures) == 0 }

type step struct {
	phase workflow.Phase
	run   func(ctx context.Context) (*phase.Result, error)
}

// Run executes phases 0, 1, 2, 3a and 4b. A failed phase is logged and the run
// continues; phases whose inputs were not produced in this run fail with a
// *workflow.MissingInputError without calling the model. The returned error is
// only set when the final report cannot be written.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	store := p.runner.Store()
	runID := p.opts.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}
	sum := &Summary{
		RunID:    runID,
		Results:  map[workflow.Phase]*phase.Result{},
		Failures: map[workflow.Phase]error{},
	}
	log := p.logger.With(zap.String("run_id", sum.RunID.String()))
	if p.opts.CandidateID != "" {
		log = log.With(zap.String("candidate_id", p.opts.CandidateID))
	}

	if err := p.recorder.StartRun(ctx, Run{
		ID:             sum.RunID,
		CandidateID:    p.opts.CandidateID,
		CVSource:       p.opts.CVSource,
		JobDescription: p.opts.Job.Description,
	}); err != nil {
		log.Warn("failed to record run start", zap.Error(err))
	}
	p.notify(ctx, log, sum.RunID, "", notify.StatusStarted, "pipeline started")

	outputs := map[string]string{}
	var aux []string

	steps := []step{
		{workflow.PhaseCVAnalysis, func(ctx context.Context) (*phase.Result, error) {
			doc, err := document.Open(ctx, p.opts.CVSource, p.fetcher)
			if err != nil {
				return nil, err
			}
			return p.runner.AnalyzeCV(ctx, doc, p.opts.Job)
		}},
		{workflow.PhaseScreening, func(ctx context.Context) (*phase.Result, error) {
			if err := requireDone(store, sum.Results, workflow.PhaseCVAnalysis); err != nil {
				return nil, err
			}
			return p.runner.Screen(ctx, "", p.opts.Job.Description)
		}},
		{workflow.PhaseAssessment, func(ctx context.Context) (*phase.Result, error) {
			responses, err := loadOrSample(p.opts.InterviewResponses, prompt.SampleInterviewResponses())
			if err != nil {
				return nil, err
			}
			res, err := p.runner.Assess(ctx, responses)
			if err != nil {
				return nil, err
			}
			path, err := store.WriteAux(workflow.SampleResponsesFile, []byte(responses.Indented()))
			if err != nil {
				log.Warn("failed to save interview responses", zap.Error(err))
			} else {
				outputs["interview_responses"] = filepath.Base(path)
				aux = append(aux, path)
			}
			return res, nil
		}},
		{workflow.PhaseBriefing, func(ctx context.Context) (*phase.Result, error) {
			if err := requireDone(store, sum.Results, workflow.PhaseScreening, workflow.PhaseAssessment); err != nil {
				return nil, err
			}
			return p.runner.Brief(ctx, p.opts.Job.Description)
		}},
		{workflow.PhaseCultureFit, func(ctx context.Context) (*phase.Result, error) {
			feedback, err := p.teamFeedback()
			if err != nil {
				return nil, err
			}
			res, err := p.runner.AnalyzeCultureFit(ctx, feedback)
			if err != nil {
				return nil, err
			}
			path, err := store.WriteAux(workflow.TeamFeedbackFile, []byte(feedback.Indented()))
			if err != nil {
				log.Warn("failed to save team feedback", zap.Error(err))
			} else {
				outputs["team_feedback"] = filepath.Base(path)
				aux = append(aux, path)
			}
			return res, nil
		}},
	}

	for _, s := range steps {
		c := workflow.ContractFor(s.phase)
		plog := log.With(zap.String("phase", s.phase.String()))
		plog.Info("phase started", zap.String("title", c.Title))
		p.notify(ctx, log, sum.RunID, s.phase, notify.StatusProcessing, c.Title+" started")

		res, err := s.run(ctx)
		if err != nil {
			sum.Failures[s.phase] = err
			plog.Error("phase failed; continuing with remaining phases", zap.Error(err))
			p.notify(ctx, log, sum.RunID, s.phase, notify.StatusFailed, err.Error())
			continue
		}
		sum.Results[s.phase] = res
		outputs[s.phase.String()] = c.WorkflowFile
		sum.Files = append(sum.Files, store.WorkflowPath(s.phase))

		if err := p.recorder.RecordPhase(ctx, sum.RunID, res); err != nil {
			plog.Warn("failed to record phase artifact", zap.Error(err))
		}
		status := notify.StatusSucceeded
		if !res.Structured() {
			status = notify.StatusLowConf
		}
		p.notify(ctx, log, sum.RunID, s.phase, status, c.Title+" saved")
	}
	sum.Files = append(sum.Files, aux...)

	outputs["final_report"] = workflow.FinalReportFile
	sum.Report = buildReport(sum.RunID, p.opts, p.now(), sum.Results, outputs, len(steps))
	data, err := sum.Report.Marshal()
	if err != nil {
		return sum, err
	}
	reportPath, err := store.WriteAux(workflow.FinalReportFile, data)
	if err != nil {
		p.fail(ctx, log, sum.RunID, err)
		return sum, fmt.Errorf("failed to save final report: %w", err)
	}
	sum.Files = append(sum.Files, reportPath)
	log.Info("final report saved", zap.String("file", reportPath),
		zap.Int("successful_phases", sum.Report.SuccessfulPhases), zap.Int("total_phases", sum.Report.TotalPhases))

	for _, f := range sum.Files {
		if err := p.mirrorFile(ctx, f); err != nil {
			log.Warn("failed to mirror output", zap.String("file", f), zap.Error(err))
		}
	}

	runStatus := notify.StatusCompleted
	if !sum.Complete() {
		runStatus = "completed_with_failures"
	}
	if err := p.recorder.FinishRun(ctx, sum.RunID, runStatus, data); err != nil {
		log.Warn("failed to record final report", zap.Error(err))
	}
	p.notify(ctx, log, sum.RunID, "", notify.StatusCompleted,
		fmt.Sprintf("%d/%d phases completed", sum.Report.SuccessfulPhases, sum.Report.TotalPhases))
	return sum, nil
}

func (p *Pipeline) teamFeedback() (workflow.Input, error) {
	if p.opts.TeamFeedback == "" {
		return workflow.NewInput("sample team feedback", prompt.SampleTeamFeedback())
	}
	return phase.LoadTeamFeedback(p.opts.TeamFeedback)
}

func (p *Pipeline) mirrorFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return p.mirror.Mirror(ctx, filepath.Base(path), data)
}

func (p *Pipeline) notify(ctx context.Context, log *zap.Logger, runID uuid.UUID, ph workflow.Phase, status, msg string) {
	err := p.notifier.Notify(ctx, notify.Update{
		RunID:       runID.String(),
		CandidateID: p.opts.CandidateID,
		Phase:       string(ph),
		Status:      status,
		Message:     msg,
		Timestamp:   p.now().UTC(),
	})
	if err != nil {
		log.Warn("failed to publish update", zap.Error(err))
	}
}

func (p *Pipeline) fail(ctx context.Context, log *zap.Logger, runID uuid.UUID, cause error) {
	if err := p.recorder.UpdateStatus(ctx, runID, notify.StatusFailed); err != nil {
		log.Warn("failed to record run failure", zap.Error(err))
	}
	p.notify(ctx, log, runID, "", notify.StatusFailed, cause.Error())
}

// requireDone fails unless every phase in deps produced a result in this run.
func requireDone(store *workflow.Store, done map[workflow.Phase]*phase.Result, deps ...workflow.Phase) error {
	for _, d := range deps {
		if _, ok := done[d]; !ok {
			c := workflow.ContractFor(d)
			return &workflow.MissingInputError{
				Path: store.WorkflowPath(d),
				Hint: c.Title + " did not complete in this run",
			}
		}
	}
	return nil
}

func loadOrSample(path string, sample []byte) (workflow.Input, error) {
	if path == "" {
		return workflow.ParseInput("sample interview responses", sample), nil
	}
	return workflow.LoadInput(path)
}
