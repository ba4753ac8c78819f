package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logsFollow bool

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs <component>",
		Short: "Tail a component's log stream",
		Long: `Stream the backend's log output for one component: the compose
service logs on docker, the deployment's pod logs on kubernetes, or the
process log file for built-from-source components.`,
		Args: cobra.ExactArgs(1),
		RunE: runLogs,
	}
	cmd.Flags().BoolVarP(&logsFollow, "follow", "f", true, "follow the log stream")
	return cmd
}

func runLogs(cmd *cobra.Command, args []string) error {
	orch, _, err := buildOrchestrator()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	component, ok := orch.Component(args[0])
	if !ok {
		return fmt.Errorf("unknown component %q", args[0])
	}
	return orch.Logs(ctx, component, logsFollow)
}
