package cmd

import (
	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop all components in reverse dependency order",
		Long: `Stop every component, dependents first.

Stop is best-effort: a component that fails to stop is logged and skipped
so the rest of the stack still comes down. The command always exits 0.`,
		RunE: runStop,
	}
}

func runStop(cmd *cobra.Command, args []string) error {
	orch, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	orch.Stop(ctx)
	return nil
}
