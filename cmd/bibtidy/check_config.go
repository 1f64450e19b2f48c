package main

import (
	"github.com/matsen/bibtidy/internal/bibtex"
	"github.com/matsen/bibtidy/internal/citation"
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/pipeline"
	"github.com/matsen/bibtidy/internal/render"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkConfigCmd)
}

var checkConfigCmd = &cobra.Command{
	Use:   "check-config",
	Short: "Validate the configuration without reading any input",
	Long: `Load the configuration and compile everything a run would compile:
venue and URL patterns, title phrases, the citation pattern, the text
template, the encoding and the log level. Input files are not read.`,
	Args: cobra.NoArgs,
	RunE: runCheckConfig,
}

// checkConfig compiles every pattern and template in cfg.
func checkConfig(cfg *config.Config) error {
	if _, err := newLogger(cfg.LogLevel); err != nil {
		return err
	}
	if _, err := bibtex.LookupEncoding(cfg.Encoding); err != nil {
		return err
	}
	if _, err := pipeline.New(cfg, nil); err != nil {
		return err
	}
	if len(cfg.Citations.Sources) > 0 {
		if _, err := citation.NewExtractor(cfg.Citations.Pattern); err != nil {
			return err
		}
	}
	if cfg.TextOutput.Path != "" {
		if _, err := render.New(cfg.TextOutput.Template); err != nil {
			return err
		}
	}
	return nil
}

func runCheckConfig(cmd *cobra.Command, args []string) error {
	cfg, path := loadConfig()

	if err := checkConfig(cfg); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if humanOutput {
		outputHuman("%s: configuration is valid\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "valid", Path: path})
}
