package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/isabellaaGrier/reef/fishgen"
	"github.com/isabellaaGrier/reef/syntax"
)

// newTranslateCmd wires spec §6's `translate -- <input>`: on success,
// the fish translation goes to stdout and the process exits 0; on any
// parse or emit failure nothing is printed and it exits 1.
func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate -- <input>",
		Short: "Translate bash input to fish source",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := soleArg(args)
			if err != nil {
				return err
			}

			f, err := syntax.Parse(input)
			if err != nil {
				return exitErrorf(1, "")
			}

			out, err := fishgen.Emit(f, fishgen.Options{})
			if err != nil {
				return exitErrorf(1, "")
			}

			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	return cmd
}
