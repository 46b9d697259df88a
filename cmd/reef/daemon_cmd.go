package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isabellaaGrier/reef/daemon"
)

// newDaemonCmd wires spec §6's `daemon {start|stop|exec} --socket
// PATH [-- <input>]`. The coprocess protocol itself lives in the
// daemon package; this only needs to expose the three operations
// against a socket path.
func newDaemonCmd() *cobra.Command {
	var socket string

	cmd := &cobra.Command{
		Use:   "daemon",
		Short: "Manage and use a persistent bash coprocess",
	}
	cmd.PersistentFlags().StringVar(&socket, "socket", "", "Unix-domain socket path")
	cmd.MarkPersistentFlagRequired("socket")

	cmd.AddCommand(newDaemonStartCmd(&socket))
	cmd.AddCommand(newDaemonStopCmd(&socket))
	cmd.AddCommand(newDaemonExecCmd(&socket))
	return cmd
}

func pidFilePath(socket string) string { return socket + ".pid" }

func newDaemonStartCmd(socket *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the coprocess and serve it on --socket, blocking until stopped",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := daemon.Start(*socket, nil)
			if err != nil {
				return exitErrorf(2, "starting daemon: %s", err)
			}

			pidFile := pidFilePath(*socket)
			if err := os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())), 0o600); err != nil {
				srv.Stop()
				return exitErrorf(2, "writing pid file: %s", err)
			}
			defer os.Remove(pidFile)
			defer srv.Stop()

			if err := srv.Serve(cmd.Context()); err != nil {
				return exitErrorf(2, "serving: %s", err)
			}
			return nil
		},
	}
}

func newDaemonStopCmd(socket *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Signal a running daemon (started with `daemon start`) to shut down",
		RunE: func(cmd *cobra.Command, args []string) error {
			pidFile := pidFilePath(*socket)
			raw, err := os.ReadFile(pidFile)
			if err != nil {
				return exitErrorf(2, "reading pid file for %s: %s", *socket, err)
			}
			pid, err := strconv.Atoi(strings.TrimSpace(string(raw)))
			if err != nil {
				return exitErrorf(2, "parsing pid file for %s: %s", *socket, err)
			}
			if err := signalTerminate(pid); err != nil {
				return exitErrorf(2, "signaling daemon pid %d: %s", pid, err)
			}
			return nil
		},
	}
}

func newDaemonExecCmd(socket *string) *cobra.Command {
	return &cobra.Command{
		Use:   "exec -- <input>",
		Short: "Run input against a running daemon's coprocess",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := soleArg(args)
			if err != nil {
				return err
			}

			c := daemon.Dial(*socket)
			res, err := c.Exec(input, os.Stdout)
			if err != nil {
				return exitErrorf(2, "%s", err)
			}

			if res.DeltaScript != "" {
				fmt.Fprint(os.Stdout, res.DeltaScript)
			}
			if res.ExitCode != 0 {
				return exitErrorf(res.ExitCode, "")
			}
			return nil
		},
	}
}
