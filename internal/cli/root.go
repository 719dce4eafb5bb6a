package cli

import (
	"github.com/spf13/cobra"
)

// Execute runs the launcher and returns any fatal error. A non-zero exit
// from the wrapped command surfaces as *ExitError rather than a failure.
func Execute() error {
	return newRootCommand().Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dbrun [dbtool arguments...]",
		Short: "Run dbtool from a throwaway virtualenv provisioned per invocation",
		Long: `dbrun provisions an ephemeral virtualenv next to itself, installs the
local dbtool package into it, and runs dbtool with your arguments (or an
interactive shell when none are given). The environment is removed when
the command exits, however it exits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// All arguments belong to the wrapped tool; dbrun parses nothing.
		DisableFlagParsing: true,
		RunE:               runLaunch,
	}
	return cmd
}
