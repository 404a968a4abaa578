// ABOUTME: Root CLI command with global flags and subcommand wiring
// ABOUTME: Entry point for all twin subcommands
package commands

import (
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "twin",
		Short: "Retention decision twin - grounded retention recommendations",
		Long: `Retention decision twin

Recommends retention actions for user cohorts, grounded in a knowledge
base of retention playbooks and talks via retrieval-augmented generation.

Typical workflow:
  twin ingest                  # build the knowledge base from sources.json
  twin recommend "<situation>" # get a cited recommendation
  twin evaluate                # run the scenario sweep and write a report`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, json")

	cmd.AddCommand(
		NewIngestCmd(),
		NewRecommendCmd(),
		NewSearchCmd(),
		NewEvaluateCmd(),
		NewExportCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
