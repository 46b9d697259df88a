//go:build unix

package bashexec

import (
	"os/exec"
	"syscall"
)

// prepareCommand puts bash in its own process group, so interruptCommand
// and killCommand can signal the whole tree it spawns rather than just
// the bash process itself.
func prepareCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

func interruptCommand(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGINT)
}

func killCommand(cmd *exec.Cmd) error {
	return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
}
