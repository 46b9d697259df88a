//go:build !unix

package bashexec

import (
	"os"
	"os/exec"
)

func prepareCommand(cmd *exec.Cmd) {}

func interruptCommand(cmd *exec.Cmd) error {
	return cmd.Process.Signal(os.Kill)
}

func killCommand(cmd *exec.Cmd) error {
	return cmd.Process.Signal(os.Kill)
}
