package main

import (
	"os"

	"github.com/matsen/bibtidy/internal/config"
	"github.com/spf13/cobra"
)

var (
	initInput  string
	initOutput string
	initForce  bool
)

func init() {
	initCmd.Flags().StringVar(&initInput, "input", "refs.bib", "BibTeX file to read")
	initCmd.Flags().StringVar(&initOutput, "output", "refs.clean.bib", "BibTeX file to write")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a configuration file with the default options",
	Long: `Write a configuration file with every option at its default value.

The file is written to --config, or ./bibtidy.yml. Edit it to add venue
rules, title phrases and citation sources.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigFile
	if configPath != "" {
		path = config.ExpandPath(configPath)
	}

	if _, err := os.Stat(path); err == nil && !initForce {
		exitWithError(ExitError, "%s already exists (use --force to overwrite)", path)
	}

	cfg := config.Default()
	cfg.Input = initInput
	cfg.Output = initOutput
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Save(path); err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		outputHuman("Wrote default configuration to %s\n", path)
		return nil
	}
	return outputJSON(StatusResponse{Status: "initialized", Path: path})
}
