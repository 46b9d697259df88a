package detect

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFullAgreesWithQuickScanOnObviousBashisms(t *testing.T) {
	c := qt.New(t)
	c.Assert(Full("if true; then echo hi; fi"), qt.Equals, true)
	c.Assert(Full("[[ -f x ]]"), qt.Equals, true)
}

func TestFullReturnsFalseOnParseFailure(t *testing.T) {
	c := qt.New(t)
	c.Assert(Full("echo 'unterminated"), qt.Equals, false)
}

func TestFullReturnsFalseForPlainCommand(t *testing.T) {
	c := qt.New(t)
	c.Assert(Full("echo hello world"), qt.Equals, false)
}
