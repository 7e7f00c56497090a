package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/muhammadolammi/recruitflow/internal/document"
	"github.com/muhammadolammi/recruitflow/internal/phase"
	"github.com/muhammadolammi/recruitflow/internal/pipeline"
	"github.com/muhammadolammi/recruitflow/internal/prompt"
	"github.com/muhammadolammi/recruitflow/internal/workflow"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// phaseFunc runs one phase with a ready runner.
type phaseFunc func(ctx context.Context, app *App, r *phase.Runner) (*phase.Result, error)

func (c *cli) phaseCommands() []*cobra.Command {
	return []*cobra.Command{
		c.phaseCmd("cv-analysis", "Phase 0: extract structured candidate data from the CV", c.cvAnalysis),
		c.phaseCmd("screening", "Phase 1: score the candidate against the job", c.screening),
		c.phaseCmd("assessment", "Phase 2: evaluate interview question/answer pairs", c.assessment),
		c.phaseCmd("briefing", "Phase 3: build the interviewer briefing sheet", c.briefing),
		c.phaseCmd("interview-evaluation", "Phase 3: evaluate a finished interview", c.interviewEvaluation),
		c.phaseCmd("checklist", "Phase 4: generate the team observation checklist", c.checklist),
		c.phaseCmd("culture-fit", "Phase 4: summarize team feedback into a culture fit report", c.cultureFit),
	}
}

func (c *cli) phaseCmd(use, short string, fn phaseFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := newApp(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()

			r, err := app.runner(app.store(c.cfg.Workspace.CandidateID))
			if err != nil {
				return err
			}
			res, err := fn(ctx, app, r)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func (c *cli) cvAnalysis(ctx context.Context, app *App, r *phase.Runner) (*phase.Result, error) {
	doc, err := document.Open(ctx, c.cfg.Inputs.CVFile, app.fetcher())
	if err != nil {
		return nil, err
	}
	return r.AnalyzeCV(ctx, doc, c.cfg.JobContext())
}

func (c *cli) screening(ctx context.Context, _ *App, r *phase.Runner) (*phase.Result, error) {
	return r.Screen(ctx, c.cfg.Inputs.ScreeningSource, c.cfg.JobDescription())
}

func (c *cli) assessment(ctx context.Context, _ *App, r *phase.Runner) (*phase.Result, error) {
	responses := workflow.ParseInput("sample interview responses", prompt.SampleInterviewResponses())
	if path := c.cfg.Inputs.InterviewResponses; path != "" {
		in, err := workflow.LoadInput(path)
		if err != nil {
			return nil, err
		}
		responses = in
	}
	return r.Assess(ctx, responses)
}

func (c *cli) briefing(ctx context.Context, _ *App, r *phase.Runner) (*phase.Result, error) {
	return r.Brief(ctx, c.cfg.JobDescription())
}

func (c *cli) interviewEvaluation(ctx context.Context, _ *App, r *phase.Runner) (*phase.Result, error) {
	path := c.cfg.Inputs.InterviewTranscript
	if path == "" {
		return nil, &workflow.MissingInputError{Path: "INTERVIEW_TRANSCRIPT_FILE", Hint: "set it to the interview transcript file"}
	}
	interview, err := workflow.LoadInput(path)
	if err != nil {
		return nil, err
	}
	var previous *workflow.Input
	if p := c.cfg.Inputs.PreviousScores; p != "" {
		in, err := workflow.LoadInput(p)
		if err != nil {
			return nil, err
		}
		previous = &in
	}
	return r.EvaluateInterview(ctx, interview, previous)
}

func (c *cli) checklist(ctx context.Context, _ *App, r *phase.Runner) (*phase.Result, error) {
	return r.GenerateChecklist(ctx)
}

func (c *cli) cultureFit(ctx context.Context, _ *App, r *phase.Runner) (*phase.Result, error) {
	feedback, err := workflow.NewInput("sample team feedback", prompt.SampleTeamFeedback())
	if err != nil {
		return nil, err
	}
	if path := c.cfg.Inputs.TeamFeedback; path != "" {
		if feedback, err = phase.LoadTeamFeedback(path); err != nil {
			return nil, err
		}
	}
	res, err := r.AnalyzeCultureFit(ctx, feedback)
	if err != nil {
		return nil, err
	}
	if _, err := r.Store().WriteAux(workflow.TeamFeedbackFile, []byte(feedback.Indented())); err != nil {
		c.logger.Warn("failed to save team feedback", zap.Error(err))
	}
	return res, nil
}

func (c *cli) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run every phase in order and write the final recruitment summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts := pipelineOptions(c.cfg)
			if err := requireLocalCV(opts.CVSource); err != nil {
				return err
			}
			app, err := newApp(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.connectServices(); err != nil {
				return err
			}

			sum, err := c.runPipeline(ctx, app, opts)
			if err != nil {
				return err
			}
			printSummary(cmd, sum)
			return runOutcome(sum)
		},
	}
}

func (c *cli) runPipeline(ctx context.Context, app *App, opts pipeline.Options) (*pipeline.Summary, error) {
	r, err := app.runner(app.store(opts.CandidateID))
	if err != nil {
		return nil, err
	}
	notifier, err := app.notifier()
	if err != nil {
		return nil, err
	}
	p := pipeline.New(r, opts, pipeline.Deps{
		Fetcher:  app.fetcher(),
		Mirror:   app.mirror(opts.CandidateID),
		Notifier: notifier,
		Recorder: app.recorder(),
		Logger:   c.logger,
	})
	return p.Run(ctx)
}

// requireLocalCV fails a run whose CV is a missing local file before any service is
// contacted. Remote sources are checked when they are fetched.
func requireLocalCV(src string) error {
	if strings.HasPrefix(src, document.RemotePrefix) {
		return nil
	}
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		return &workflow.MissingInputError{Path: src, Hint: "place the CV file there or set CV_FILE"}
	}
	return nil
}

// runOutcome turns a finished run into the command's error. A missing CV keeps its
// *workflow.MissingInputError; any other failed phase is reported as a count.
func runOutcome(sum *pipeline.Summary) error {
	if sum.Complete() {
		return nil
	}
	var missing *workflow.MissingInputError
	if errors.As(sum.Failures[workflow.PhaseCVAnalysis], &missing) {
		return missing
	}
	return fmt.Errorf("%d/%d phases failed", len(sum.Failures), sum.Report.TotalPhases)
}

func printSummary(cmd *cobra.Command, sum *pipeline.Summary) {
	w := cmd.OutOrStdout()
	r := sum.Report
	fmt.Fprintf(w, "\nRun %s: %d/%d phases completed\n", sum.RunID, r.SuccessfulPhases, r.TotalPhases)
	for _, f := range sum.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	for ph, err := range sum.Failures {
		fmt.Fprintf(w, "  failed %s: %v\n", ph, err)
	}
	if avg := r.OverallAssessment.AverageScore; avg != nil {
		fmt.Fprintf(w, "Overall score: %.2f/100\n", *avg)
		fmt.Fprintf(w, "Recommendation: %s\n", r.OverallAssessment.Recommendation)
	}
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which phase artifacts exist and whether they are valid JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := workflow.NewStore(c.cfg.Workspace.Dir, c.cfg.Workspace.CandidateID)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PHASE\tFILE\tEXISTS\tJSON\tMISSING KEYS")
			for _, st := range workflow.Inspect(store) {
				fmt.Fprintf(tw, "%d %s\t%s\t%t\t%t\t%v\n",
					st.Contract.Number, st.Contract.Title, st.Contract.WorkflowFile, st.Exists, st.ValidJSON, st.MissingKeys)
			}
			return tw.Flush()
		},
	}
}
