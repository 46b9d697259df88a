package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "reef",
		Short:         "Translate bash input to fish, or fall back to a real bash",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newDetectCmd())
	root.AddCommand(newTranslateCmd())
	root.AddCommand(newBashExecCmd())
	root.AddCommand(newDaemonCmd())

	return root
}

// soleArg returns the single `-- <input>` positional argument cobra
// leaves in args once it sees "--" on the command line.
func soleArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", exitErrorf(2, "expected exactly one input argument after --, got %d", len(args))
	}
	return args[0], nil
}
