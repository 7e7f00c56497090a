package main

import (
	"context"
	"fmt"
	"os"

	"github.com/muhammadolammi/recruitflow/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cli carries the state shared by every subcommand. It is filled in once by the
// root command's pre-run hook.
type cli struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "recruitflow",
		Short: "Five-phase recruitment pipeline backed by Gemini on Vertex AI",
		Long: `recruitflow runs a candidate through CV analysis, screening, technical
assessment, interview briefing and culture fit analysis. Every phase sends one
request to the model and hands its output to the next phase through fixed files
in the working directory.

Settings come from the environment, a .env file and an optional pipeline.yaml.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}
	root.AddCommand(c.phaseCommands()...)
	root.AddCommand(c.runCmd(), c.checkCmd(), c.workerCmd())
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logCfg := zap.NewProductionConfig()
	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	logCfg.Level = level
	logger, err := logCfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	c.cfg = cfg
	c.logger = logger
	return nil
}

func main() {
	root := newRootCmd()
	err := root.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(exitCode(err))
}
