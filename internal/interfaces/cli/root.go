// Package cli implements the molforge command line tool, a thin wrapper over
// the pipeline HTTP API.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/MolForge-AI/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global CLI flags.
type RootOptions struct {
	ServerAddr string
	Timeout    time.Duration
	JSONOutput bool
}

// newClient is swapped in tests.
var newClient = func(baseURL string) (*client.Client, error) {
	return client.NewClient(baseURL)
}

// NewRootCommand builds the molforge command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "molforge",
		Short:   "MolForge CLI — AI-assisted molecule generation and optimization",
		Long:    "molforge drives the MolForge pipeline: describe the molecules you need,\nand the pipeline generates, validates and enriches candidate structures.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ServerAddr, "server", "http://localhost:8080", "API server address")
	pf.DurationVar(&opts.Timeout, "timeout", 5*time.Minute, "operation timeout")
	pf.BoolVar(&opts.JSONOutput, "json", false, "print raw JSON instead of a summary")

	cmd.AddCommand(
		newGenerateCommand(opts),
		newOptimizeCommand(opts),
		newBatchCommand(opts),
	)
	return cmd
}

// printBatch renders a batch either as JSON or as a human-readable summary.
func printBatch(w io.Writer, b *client.PipelineBatch, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	}

	fmt.Fprintf(w, "Batch %s (%s, model %s)\n", b.BatchID, b.Kind, b.ModelID)
	fmt.Fprintf(w, "Records: %d\n", len(b.Records))
	for _, rec := range b.Records {
		fmt.Fprintf(w, "  %-22s %s\n", rec.DisplayName, rec.Notation)
		if rec.Enriched != nil {
			for category, p := range rec.Enriched.Predictions {
				fmt.Fprintf(w, "    %-20s %.3f %s\n", category, p.Value, p.Unit)
			}
			failed := make([]string, 0, len(rec.Enriched.PredictionErrors))
			for category := range rec.Enriched.PredictionErrors {
				failed = append(failed, category)
			}
			sort.Strings(failed)
			for _, category := range failed {
				fmt.Fprintf(w, "    prediction failed: %s: %s\n", category, rec.Enriched.PredictionErrors[category])
			}
		}
	}
	for _, warning := range b.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
	return nil
}
