package fishgen

import (
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/isabellaaGrier/reef/syntax"
)

func mustEmit(c *qt.C, src string) string {
	f, err := syntax.Parse(src)
	c.Assert(err, qt.IsNil)
	out, err := Emit(f, Options{})
	c.Assert(err, qt.IsNil)
	return out
}

func TestEmitExport(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "export FOO=bar")
	c.Assert(got, qt.Equals, "set -gx FOO bar")
}

func TestEmitExportPathLikeSplitsOnColon(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "export MYPATH=/usr/bin:/opt/bin")
	c.Assert(got, qt.Equals, `set -gx MYPATH (string split ':' -- /usr/bin:/opt/bin)`)
}

func TestEmitIfElse(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "if true; then echo yes; else echo no; fi")
	c.Assert(strings.Contains(got, "if true"), qt.Equals, true)
	c.Assert(strings.Contains(got, "echo yes"), qt.Equals, true)
	c.Assert(strings.Contains(got, "else"), qt.Equals, true)
	c.Assert(strings.Contains(got, "echo no"), qt.Equals, true)
	c.Assert(strings.HasSuffix(got, "end"), qt.Equals, true)
}

func TestEmitForList(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "for i in a b c; do echo $i; done")
	c.Assert(strings.Contains(got, "for i in a b c"), qt.Equals, true)
	c.Assert(strings.Contains(got, "echo $i"), qt.Equals, true)
}

func TestEmitSubstringPositiveOffset(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, `echo ${v:1:2}`)
	c.Assert(strings.Contains(got, `string sub -s`), qt.Equals, true)
	c.Assert(strings.Contains(got, `"(1) + 1"`), qt.Equals, true)
}

func TestEmitSubstringNegativeOffsetPassesThroughUnshifted(t *testing.T) {
	// ${v: -3} on "abcdef" must select "def" (3 chars from the end),
	// matching fish's own -1-is-last-char convention for string sub -s
	// -- so a negative offset must NOT get the +1 shift a non-negative
	// one does. The translated start expression branches at runtime on
	// the offset's sign, so the else arm (taken for a negative offset)
	// must yield the offset unshifted.
	c := qt.New(t)
	got := mustEmit(c, `echo ${v: -3}`)
	c.Assert(strings.Contains(got, `string sub -s`), qt.Equals, true)
	c.Assert(strings.Contains(got, `-ge 0`), qt.Equals, true)
	c.Assert(strings.Contains(got, `else; math "-3"; end`), qt.Equals, true)
}

func TestEmitArithmeticExpansion(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "echo $((2 + 3 * 4))")
	c.Assert(strings.Contains(got, "math"), qt.Equals, true)
}

func TestEmitCaseFallThroughWithBodyIsUnsupported(t *testing.T) {
	c := qt.New(t)
	f, err := syntax.Parse("case $x in a) echo a;& b) echo b;; esac")
	c.Assert(err, qt.IsNil)
	_, err = Emit(f, Options{})
	c.Assert(err, qt.Not(qt.IsNil))
	var uerr *UnsupportedError
	c.Assert(errors.As(err, &uerr), qt.Equals, true)
}

func TestEmitEmptyInputProducesEmptyOutput(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "")
	c.Assert(got, qt.Equals, "")
}

func TestEmitFuncDecl(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "greet() { echo hi; }")
	c.Assert(strings.HasPrefix(got, "function greet"), qt.Equals, true)
	c.Assert(strings.Contains(got, "echo hi"), qt.Equals, true)
}

func TestEmitPipeline(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "echo hi | grep h")
	c.Assert(got, qt.Equals, "echo hi | grep h")
}

func TestEmitAndOrList(t *testing.T) {
	c := qt.New(t)
	got := mustEmit(c, "true && echo a || echo b")
	c.Assert(strings.Contains(got, "; and "), qt.Equals, true)
	c.Assert(strings.Contains(got, "; or "), qt.Equals, true)
}
