package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matsen/bibtidy/internal/bibtex"
	"github.com/matsen/bibtidy/internal/config"
	"github.com/matsen/bibtidy/internal/stats"
)

// stdout receives command output. Tests replace it.
var stdout io.Writer = os.Stdout

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Fprintf(stdout, format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitCodeFor maps an error to the exit code of its category.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, config.ErrMissingConfig), errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, bibtex.ErrParse):
		return ExitDataError
	}
	return ExitError
}

// printStatsHuman prints counters as an aligned two-column table.
func printStatsHuman(counters []stats.Counter) {
	width := 0
	for _, c := range counters {
		if len(c.Name) > width {
			width = len(c.Name)
		}
	}
	for _, c := range counters {
		outputHuman("  %-*s %d\n", width, c.Name, c.Value)
	}
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}
