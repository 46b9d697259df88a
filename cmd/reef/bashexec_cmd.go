package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isabellaaGrier/reef/bashexec"
)

// newBashExecCmd wires spec §6's `bash-exec [--env-diff] [--state-file
// PATH] -- <input>`: the command's own stdout/stderr stream straight
// to the parent's, and with --env-diff or --state-file the rendered
// env-delta script is printed to stdout afterwards. The process exits
// with the subprocess's own exit code.
func newBashExecCmd() *cobra.Command {
	var envDiff bool
	var stateFile string

	cmd := &cobra.Command{
		Use:   "bash-exec -- <input>",
		Short: "Run input under a real bash, passing its output straight through",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := soleArg(args)
			if err != nil {
				return err
			}

			opts := bashexec.Options{
				Stdin:  os.Stdin,
				Stdout: os.Stdout,
				Stderr: os.Stderr,
			}

			var res *bashexec.Result
			if stateFile != "" {
				res, err = bashexec.RunWithStateFile(cmd.Context(), input, stateFile, opts)
			} else {
				res, err = bashexec.Run(cmd.Context(), input, opts)
			}
			if err != nil {
				if ec, ok := err.(*bashexec.ExecError); ok {
					return exitErrorf(ec.ExitCode(), "%s", ec.Error())
				}
				return exitErrorf(2, "%s", err)
			}

			if envDiff || stateFile != "" {
				fmt.Fprint(os.Stdout, res.Delta.Render())
			}
			if res.ExitCode != 0 {
				return exitErrorf(res.ExitCode, "")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&envDiff, "env-diff", false, "print the env-delta fish script after the command's own output")
	cmd.Flags().StringVar(&stateFile, "state-file", "", "persist/restore environment state across invocations at PATH")
	return cmd
}
