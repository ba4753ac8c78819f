package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"stackctl/internal/reporting"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe every component's health endpoint now",
		Long: `Probe each component's health endpoint and print the result.

Status is informational: it deploys nothing, reads no saved state, and
always exits 0. Health is re-derived from the live endpoints on every
invocation.`,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	orch, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	reporting.PrintStatus(os.Stdout, orch.Status(ctx))
	return nil
}
