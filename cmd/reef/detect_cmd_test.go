package main

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
)

func runCmd(c *testing.T, args ...string) (stdout, stderr string, err error) {
	root := newRootCmd()
	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestDetectExitsZeroForBash(t *testing.T) {
	c := qt.New(t)
	_, _, err := runCmd(t, "detect", "--", "[[ -f x ]]")
	c.Assert(err, qt.IsNil)
}

func TestDetectExitsNonZeroForPlainCommand(t *testing.T) {
	c := qt.New(t)
	_, _, err := runCmd(t, "detect", "--", "echo hi")
	c.Assert(err, qt.Not(qt.IsNil))
	ec, ok := err.(exitCoder)
	c.Assert(ok, qt.Equals, true)
	c.Assert(ec.ExitCode(), qt.Equals, 1)
}

func TestDetectQuickStillCatchesObviousBashisms(t *testing.T) {
	c := qt.New(t)
	_, _, err := runCmd(t, "detect", "--quick", "--", "[[ -f x ]]")
	c.Assert(err, qt.IsNil)
}
