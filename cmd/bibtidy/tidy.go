package main

import (
	"fmt"

	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// loadConfig resolves and loads the configuration, exiting on failure.
func loadConfig() (*config.Config, string) {
	path := config.ResolvePath(configPath)
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(exitCodeFor(err), "loading config: %v", err)
	}
	return cfg, path
}

// newLogger builds the stderr logger for the configured level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: log_level: %v", config.ErrInvalidConfig, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.Sampling = nil
	return zc.Build()
}

func runTidy(cmd *cobra.Command, args []string) error {
	cfg, _ := loadConfig()

	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	defer log.Sync()

	report, err := pipeline.Execute(cfg, log)
	if err != nil {
		log.Sync()
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if !humanOutput {
		return outputJSON(report)
	}

	outputHuman("Wrote %d entries to %s\n", report.Entries, report.Output)
	if report.TextOutput != "" {
		outputHuman("Wrote text rendering to %s\n", report.TextOutput)
	}
	for _, d := range report.Duplicates {
		action := "kept"
		if d.Stripped {
			action = "stripped"
		}
		outputHuman("Duplicate title: %s duplicates %s (%s)\n", d.Key, d.OriginalKey, action)
	}
	outputHuman("\nStats:\n")
	printStatsHuman(report.Stats)
	return nil
}
