package main

import (
	"github.com/spf13/cobra"

	"github.com/isabellaaGrier/reef/detect"
)

// newDetectCmd wires spec §6's `detect [--quick] -- <input>`: exit 0
// if input looks like bash, 1 otherwise. Never prints to stdout.
func newDetectCmd() *cobra.Command {
	var quick bool

	cmd := &cobra.Command{
		Use:   "detect -- <input>",
		Short: "Report (via exit code only) whether input looks like bash",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := soleArg(args)
			if err != nil {
				return err
			}

			var isBash bool
			if quick {
				isBash = detect.LooksLikeBash(input)
			} else {
				isBash = detect.Full(input)
			}
			if !isBash {
				return exitErrorf(1, "")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&quick, "quick", false, "use only the fast byte scan, skip the parser fallback")
	return cmd
}
