package main

import (
	"io"
	"os"
	"os/exec"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

// captureStdout redirects os.Stdout for the duration of fn, since
// bash-exec writes the command's own output and the env-delta script
// straight to os.Stdout rather than cmd.OutOrStdout (it must match
// what a real bash invocation would produce on the controlling
// terminal, not cobra's buffer).
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	fn()
	os.Stdout = orig
	w.Close()
	out, _ := io.ReadAll(r)
	return string(out)
}

func TestBashExecPropagatesExitCodeAndEnvDiff(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a real bash")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not found")
	}
	c := qt.New(t)

	var err error
	out := captureStdout(t, func() {
		_, _, err = runCmd(t, "bash-exec", "--env-diff", "--", "echo hi; export FOO=bar")
	})
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(out, "hi"), qt.Equals, true)
	c.Assert(strings.Contains(out, "set -gx FOO 'bar'"), qt.Equals, true)

	out = captureStdout(t, func() {
		_, _, err = runCmd(t, "bash-exec", "--", "exit 3")
	})
	c.Assert(out, qt.Equals, "")
	ec, ok := err.(exitCoder)
	c.Assert(ok, qt.Equals, true)
	c.Assert(ec.ExitCode(), qt.Equals, 3)
}
