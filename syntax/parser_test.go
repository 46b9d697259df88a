// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestParseSimpleCommand(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("echo hi there")
	c.Assert(err, qt.IsNil)
	c.Assert(f.Stmts, qt.HasLen, 1)
	call, ok := f.Stmts[0].Cmd.(*CallExpr)
	c.Assert(ok, qt.Equals, true)
	c.Assert(call.Words, qt.HasLen, 3)
	c.Assert(call.Words[0].Lit(), qt.Equals, "echo")
}

func TestParseAssignment(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("FOO=bar")
	c.Assert(err, qt.IsNil)
	call, ok := f.Stmts[0].Cmd.(*CallExpr)
	c.Assert(ok, qt.Equals, true)
	c.Assert(call.Assigns, qt.HasLen, 1)
	c.Assert(call.Assigns[0].Name, qt.Equals, "FOO")
	c.Assert(call.Assigns[0].Value.Lit(), qt.Equals, "bar")
}

func TestParsePipeline(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("echo hi | grep h | wc -l")
	c.Assert(err, qt.IsNil)
	p, ok := f.Stmts[0].Cmd.(*Pipeline)
	c.Assert(ok, qt.Equals, true)
	c.Assert(p.Stages, qt.HasLen, 3)
}

func TestParseAndOrList(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("true && echo a || echo b")
	c.Assert(err, qt.IsNil)
	_, ok := f.Stmts[0].Cmd.(*ListOr)
	c.Assert(ok, qt.Equals, true)
}

func TestParseIfElse(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("if true; then echo yes; elif false; then echo maybe; else echo no; fi")
	c.Assert(err, qt.IsNil)
	ifc, ok := f.Stmts[0].Cmd.(*IfClause)
	c.Assert(ok, qt.Equals, true)
	c.Assert(ifc.Branches, qt.HasLen, 2)
	c.Assert(ifc.Else, qt.HasLen, 1)
}

func TestParseForList(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("for i in a b c; do echo $i; done")
	c.Assert(err, qt.IsNil)
	fc, ok := f.Stmts[0].Cmd.(*ForClause)
	c.Assert(ok, qt.Equals, true)
	c.Assert(fc.Name, qt.Equals, "i")
	c.Assert(fc.Items, qt.HasLen, 3)
}

func TestParseForArith(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("for ((i=0; i<3; i++)); do echo $i; done")
	c.Assert(err, qt.IsNil)
	_, ok := f.Stmts[0].Cmd.(*ForArithClause)
	c.Assert(ok, qt.Equals, true)
}

func TestParseWhile(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("while true; do echo hi; done")
	c.Assert(err, qt.IsNil)
	wc, ok := f.Stmts[0].Cmd.(*WhileClause)
	c.Assert(ok, qt.Equals, true)
	c.Assert(wc.Until, qt.Equals, false)
}

func TestParseUntilNegatesAsWhile(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("until true; do echo hi; done")
	c.Assert(err, qt.IsNil)
	wc, ok := f.Stmts[0].Cmd.(*WhileClause)
	c.Assert(ok, qt.Equals, true)
	c.Assert(wc.Until, qt.Equals, true)
}

func TestParseCaseWithFallThrough(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("case $x in a) echo a;& b) echo b;; esac")
	c.Assert(err, qt.IsNil)
	cc, ok := f.Stmts[0].Cmd.(*CaseClause)
	c.Assert(ok, qt.Equals, true)
	c.Assert(cc.Arms, qt.HasLen, 2)
	c.Assert(cc.Arms[0].Term, qt.Equals, CaseFallThru)
}

func TestParseCaseEmptyBody(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("case $x in a) ;; esac")
	c.Assert(err, qt.IsNil)
	cc, ok := f.Stmts[0].Cmd.(*CaseClause)
	c.Assert(ok, qt.Equals, true)
	c.Assert(cc.Arms[0].Body, qt.HasLen, 0)
}

func TestParseFuncDeclShorthand(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("greet() { echo hi; }")
	c.Assert(err, qt.IsNil)
	fd, ok := f.Stmts[0].Cmd.(*FuncDecl)
	c.Assert(ok, qt.Equals, true)
	c.Assert(fd.Name, qt.Equals, "greet")
}

func TestParseFuncDeclKeyword(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("function greet { echo hi; }")
	c.Assert(err, qt.IsNil)
	fd, ok := f.Stmts[0].Cmd.(*FuncDecl)
	c.Assert(ok, qt.Equals, true)
	c.Assert(fd.Name, qt.Equals, "greet")
}

func TestParseSubshell(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("(echo hi)")
	c.Assert(err, qt.IsNil)
	_, ok := f.Stmts[0].Cmd.(*Subshell)
	c.Assert(ok, qt.Equals, true)
}

func TestParseBlock(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("{ echo hi; }")
	c.Assert(err, qt.IsNil)
	_, ok := f.Stmts[0].Cmd.(*Block)
	c.Assert(ok, qt.Equals, true)
}

func TestParseTestClause(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("[[ -f x ]]")
	c.Assert(err, qt.IsNil)
	_, ok := f.Stmts[0].Cmd.(*TestClause)
	c.Assert(ok, qt.Equals, true)
}

func TestParseArithCmd(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("((2 + 2))")
	c.Assert(err, qt.IsNil)
	_, ok := f.Stmts[0].Cmd.(*ArithCmd)
	c.Assert(ok, qt.Equals, true)
}

func TestParseBackground(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("sleep 1 &")
	c.Assert(err, qt.IsNil)
	c.Assert(f.Stmts[0].Background, qt.Equals, true)
}

func TestParseNegated(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("! true")
	c.Assert(err, qt.IsNil)
	p, ok := f.Stmts[0].Cmd.(*Pipeline)
	c.Assert(ok, qt.Equals, true)
	c.Assert(p.Negated, qt.Equals, true)
}

func TestParseEmptyInput(t *testing.T) {
	c := qt.New(t)
	f, err := Parse("")
	c.Assert(err, qt.IsNil)
	c.Assert(f.Stmts, qt.HasLen, 0)
}

func TestParseUnterminatedCommandSubstitutionFails(t *testing.T) {
	c := qt.New(t)
	_, err := Parse("echo $(foo")
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestParseCaseArmWithNoInfiniteLoop(t *testing.T) {
	// Regression guard for spec boundary behavior: a case arm with an
	// empty body and ";;" must not hang the parser.
	c := qt.New(t)
	done := make(chan struct{})
	go func() {
		Parse("case $x in a) ;; b) ;; esac")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Parse did not return")
	}
}
