package bashexec

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestRunCapturesOutputAndDelta(t *testing.T) {
	if testing.Short() {
		t.Skip("calling bash is slow")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not found in PATH")
	}
	c := qt.New(t)

	var stdout bytes.Buffer
	res, err := Run(context.Background(), `echo hi; export GREETING=hello; cd /`, Options{
		Dir:    "/tmp",
		Env:    os.Environ(),
		Stdout: &stdout,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(res.ExitCode, qt.Equals, 0)
	c.Assert(stdout.String(), qt.Equals, "hi\n")
	c.Assert(res.Delta.Set["GREETING"], qt.Equals, "hello")
	c.Assert(res.Delta.Dir, qt.Equals, "/")
}

func TestRunBashMissing(t *testing.T) {
	c := qt.New(t)
	t.Setenv("PATH", t.TempDir())
	_, err := Run(context.Background(), "echo hi", Options{})
	c.Assert(err, qt.Not(qt.IsNil))
	ee, ok := err.(*ExecError)
	c.Assert(ok, qt.Equals, true)
	c.Assert(ee.Kind, qt.Equals, ErrBashMissing)
	c.Assert(ee.ExitCode(), qt.Equals, 127)
}
