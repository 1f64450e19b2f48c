package main

import (
	"strings"

	"github.com/matsen/bibtidy/internal/pipeline"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(citesCmd)
}

var citesCmd = &cobra.Command{
	Use:   "cites",
	Short: "Print the citation keys found in the LaTeX sources",
	Long: `Print the set of keys cited by the configured LaTeX sources.

These are the keys a run keeps. With no sources configured nothing is
filtered and the set is reported as disabled.`,
	Args: cobra.NoArgs,
	RunE: runCites,
}

// CitesResponse is the response for the cites command.
type CitesResponse struct {
	Filtering bool     `json:"filtering"`
	Sources   []string `json:"sources"`
	Count     int      `json:"count"`
	Keys      []string `json:"keys"`
}

func runCites(cmd *cobra.Command, args []string) error {
	cfg, _ := loadConfig()

	cites, err := pipeline.LoadCitations(cfg.Citations)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	resp := CitesResponse{
		Filtering: cites != nil,
		Sources:   cfg.Citations.Sources,
		Keys:      []string{},
	}
	if cites != nil {
		resp.Keys = cites.Keys()
		resp.Count = cites.Len()
	}

	if !humanOutput {
		return outputJSON(resp)
	}
	if !resp.Filtering {
		outputHuman("No citation sources configured; filtering is disabled\n")
		return nil
	}
	outputHuman("%d keys cited in %s\n", resp.Count, strings.Join(resp.Sources, ", "))
	for _, k := range resp.Keys {
		outputHuman("  %s\n", k)
	}
	return nil
}
