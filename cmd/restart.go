package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stackctl/internal/reporting"
)

func newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart",
		Short: "Stop the stack, cool down, then deploy it fresh",
		Long: `Restart the stack: best-effort stop of every component, a fixed
cool-down so ports and backend resources are released, then a fresh deploy
run from scratch. A half-finished earlier run is never resumed.`,
		RunE: runRestart,
	}
}

func runRestart(cmd *cobra.Command, args []string) error {
	orch, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := orch.Restart(ctx)
	if err != nil {
		return err
	}

	reporting.PrintReport(os.Stdout, orch.RunLog().Rows(), result)
	if !result.Success() {
		return fmt.Errorf("stack result: %s", result.Kind)
	}
	return nil
}
