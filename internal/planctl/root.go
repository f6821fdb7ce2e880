// Package planctl is the operator command line for offline plan work:
// calorie math, salad repair of stored meal plans and PDF rendering.
package planctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nandoesporte/gut59/backend/internal/logging"
)

// NewRootCmd builds the planctl command tree
func NewRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "planctl",
		Short:         "planctl inspects and repairs generated health plans",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logLevel, "text")
			logging.SetOutput(cmd.ErrOrStderr())
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level")

	root.AddCommand(newCaloriesCmd(), newRepairCmd(), newExportCmd())
	return root
}

// Execute runs the command tree against os.Args
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
