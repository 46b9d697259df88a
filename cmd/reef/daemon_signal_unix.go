//go:build unix

package main

import "syscall"

func signalTerminate(pid int) error {
	return syscall.Kill(pid, syscall.SIGTERM)
}
