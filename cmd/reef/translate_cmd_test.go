package main

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestTranslateExportPrintsFishAssignment(t *testing.T) {
	c := qt.New(t)
	out, _, err := runCmd(t, "translate", "--", "export FOO=bar")
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(out, "set -gx FOO"), qt.Equals, true)
}

func TestTranslateParseFailureExitsOneWithNoOutput(t *testing.T) {
	c := qt.New(t)
	out, _, err := runCmd(t, "translate", "--", "echo 'unterminated")
	c.Assert(out, qt.Equals, "")
	c.Assert(err, qt.Not(qt.IsNil))
	ec, ok := err.(exitCoder)
	c.Assert(ok, qt.Equals, true)
	c.Assert(ec.ExitCode(), qt.Equals, 1)
}
