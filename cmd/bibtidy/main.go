// Package main provides the bibtidy CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	// configPath is the --config flag; empty means look it up
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibtidy",
	Short: "Normalize and curate a BibTeX bibliography",
	Long: `bibtidy cleans a BibTeX file in one pass.

It drops entries not cited by the configured LaTeX sources, canonicalizes
venue names, protects title capitalization, reorders "Last, First" author
names, consolidates URLs of @misc entries, prunes and reorders fields and
reports duplicate titles. The cleaned file, and optionally a plain-text
rendering, are written only if the whole run succeeds.

The configuration file is taken from --config, else $BIBTIDY_CONFIG (which
may be set in a .env file), else ./bibtidy.yml. Output is JSON unless
--human is given.`,
	Args:          cobra.NoArgs,
	RunE:          runTidy,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCmd.Version = Version
}
