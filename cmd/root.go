package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"stackctl/pkg/logging"
)

var logLevelFlag string

// rootCmd represents the base command when called without any subcommands.
// Running stackctl with no arguments is equivalent to `stackctl deploy`.
var rootCmd = &cobra.Command{
	Use:   "stackctl",
	Short: "Bring up and verify the automation stack",
	Long: `stackctl orchestrates the bring-up of the automation stack: the
middleware shim, the agent platform, the RPA platform and their database
and cache dependencies, on docker compose, kubernetes or built-from-source
processes.

It deploys components in dependency order (or in parallel), verifies each
against its health endpoint, and reports one aggregate outcome for the run.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. failed deployments)
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.InitForCLI(logging.ParseLevel(logLevelFlag), os.Stderr)
	},
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "stackctl version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle (runDeploy -> buildOrchestrator -> rootCmd).
	rootCmd.RunE = runDeploy

	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newDeployCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newRestartCmd())
	rootCmd.AddCommand(newLogsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
