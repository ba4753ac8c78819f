package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stackctl/internal/reporting"
)

func newDeployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the full stack and verify every component healthy",
		Long: `Deploy every component of the stack on the configured backend.

In sequential mode (the default) components start in dependency order, each
waiting out its startup grace period before the next begins. With
PARALLEL_DEPLOYMENT=true all components launch at once with no ordering
guarantees.

The command exits 0 only if every component reached Healthy.`,
		RunE: runDeploy,
	}
}

func runDeploy(cmd *cobra.Command, args []string) error {
	orch, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := orch.Deploy(ctx)
	if err != nil {
		return err
	}

	reporting.PrintReport(os.Stdout, orch.RunLog().Rows(), result)
	if !result.Success() {
		return fmt.Errorf("stack result: %s", result.Kind)
	}
	return nil
}
