package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-comments/internal/bank"
	"github.com/mind-engage/mindengage-comments/internal/comment"
	"github.com/mind-engage/mindengage-comments/internal/config"
	"github.com/mind-engage/mindengage-comments/internal/logging"
	"github.com/mind-engage/mindengage-comments/internal/report"
)

var (
	verbose bool
	bankDir string
	target  int
	seed    uint64

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "commentgen",
	Short: "Generate English report comments from score bands",
	Long: `commentgen assembles report-card comments for English from per-grade
sentence banks, one student at a time or in batches, and exports them as a
Word document or plain text.

Configuration is read from .env and the environment (DB_DRIVER, DB_DSN,
TARGET_CHARS, REPORT_TITLE, LOG_LEVEL).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&bankDir, "dir", "", "directory of <grade>.yaml banks layered over the built-in ones")

	for _, c := range []*cobra.Command{generateCmd, batchCmd} {
		c.Flags().IntVar(&target, "target", 0, "character budget (default TARGET_CHARS or 499)")
		c.Flags().Uint64Var(&seed, "seed", 0, "seed for reproducible phrase choice; 0 picks randomly")
	}

	rootCmd.AddCommand(generateCmd, batchCmd, banksCmd, hashPasswordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// banks returns the built-in banks, with --dir layered on top when given.
func banks() (bank.Source, error) {
	builtin, err := bank.Builtin()
	if err != nil {
		return nil, err
	}
	if bankDir == "" {
		return builtin, nil
	}
	dir, err := bank.LoadDir(bankDir)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", bankDir, err)
	}
	logger.Debug("loaded bank dir", zap.String("dir", bankDir), zap.Int("grades", len(dir)))
	return bank.Chain{dir, builtin}, nil
}

func newService() (*report.Service, error) {
	src, err := banks()
	if err != nil {
		return nil, err
	}
	t := target
	if t <= 0 {
		t = cfg.TargetChars
	}
	opts := []comment.Option{comment.WithTarget(t)}
	if seed != 0 {
		opts = append(opts, comment.WithChooser(comment.SeededChooser(seed)))
	}
	return report.NewService(src, comment.New(opts...),
		report.WithLogger(logger),
		report.WithTitle(cfg.ReportTitle),
	), nil
}
