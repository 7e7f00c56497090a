package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/muhammadolammi/recruitflow/internal/notify"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const jobsQueue = "pipeline_jobs"

func (c *cli) workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume pipeline jobs from RabbitMQ, one candidate at a time",
		Long: `worker reads jobs from the pipeline_jobs queue and runs the full pipeline for
each one before taking the next. Artifacts of every job are written under
<WORKDIR>/<candidate_id> so candidates never overwrite each other.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.RabbitMQURL == "" {
				return errors.New("empty RABBITMQ_URL in environment")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := newApp(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.connectServices(); err != nil {
				return err
			}
			return c.consume(ctx, app)
		},
	}
}

func (c *cli) consume(ctx context.Context, app *App) error {
	ch, err := app.rabbit.Channel()
	if err != nil {
		return fmt.Errorf("error connecting to rabbitmq channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		jobsQueue, // queue name
		true,      // durable (survives broker restarts)
		false,     // auto-delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set prefetch: %w", err)
	}

	msgs, err := ch.Consume(
		jobsQueue, // queue name
		"",        // consumer tag
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("error consuming rabbitmq message: %w", err)
	}
	n, err := app.notifier()
	if err != nil {
		return err
	}

	c.logger.Info("worker started", zap.String("queue", jobsQueue))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("worker stopping")
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			c.handleJob(ctx, app, n, msg)
		}
	}
}

// handleJob runs one job to completion and acknowledges it. Failed jobs are
// reported and dropped; they are not requeued. The run ID is assigned before the
// body is decoded so even a rejected job is reported under its own routing key.
func (c *cli) handleJob(ctx context.Context, app *App, n notify.Notifier, msg amqp.Delivery) {
	defer func() {
		if err := msg.Ack(false); err != nil {
			c.logger.Warn("failed to ack job", zap.Error(err))
		}
	}()

	runID := uuid.New()
	job, err := decodeJob(msg.Body)
	if err != nil {
		c.logger.Error("invalid pipeline job", zap.String("run_id", runID.String()), zap.Error(err))
		c.reportJobFailure(ctx, n, runID, job.CandidateID, err)
		return
	}
	log := c.logger.With(zap.String("candidate_id", job.CandidateID), zap.String("run_id", runID.String()))
	log.Info("processing pipeline job", zap.String("cv_source", job.CVSource))

	opts := job.options(c.cfg)
	opts.RunID = runID
	sum, err := c.runPipeline(ctx, app, opts)
	if err != nil {
		log.Error("pipeline job failed", zap.Error(err))
		c.reportJobFailure(ctx, n, runID, job.CandidateID, err)
		return
	}
	log.Info("pipeline job finished",
		zap.Int("successful_phases", sum.Report.SuccessfulPhases), zap.Int("failed_phases", len(sum.Failures)))
}

func decodeJob(body []byte) (PipelineJob, error) {
	var job PipelineJob
	if err := json.Unmarshal(body, &job); err != nil {
		return job, fmt.Errorf("error unmarshalling message body: %w", err)
	}
	return job, job.Validate()
}

func (c *cli) reportJobFailure(ctx context.Context, n notify.Notifier, runID uuid.UUID, candidateID string, cause error) {
	err := n.Notify(ctx, notify.Update{
		RunID:       runID.String(),
		CandidateID: candidateID,
		Status:      notify.StatusFailed,
		Message:     cause.Error(),
	})
	if err != nil {
		c.logger.Warn("failed to publish update", zap.Error(err))
	}
}
