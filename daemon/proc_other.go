//go:build !unix

package daemon

import (
	"os"
	"os/exec"
)

func prepareCommand(cmd *exec.Cmd) {}

func killCommand(cmd *exec.Cmd) error {
	return cmd.Process.Signal(os.Kill)
}
