package fishgen

import (
	"strings"

	"github.com/isabellaaGrier/reef/syntax"
)

// testUnaryFlags are the [[ ]] unary file/string test operators that
// have a same-letter fish `test` flag. -O and -G (owner/group checks)
// have no fish equivalent and fall through to the default refusal.
var testUnaryFlags = map[syntax.TestUnaryOp]string{
	"-e": "-e", "-f": "-f", "-d": "-d", "-r": "-r", "-w": "-w", "-x": "-x",
	"-s": "-s", "-z": "-z", "-n": "-n", "-L": "-L", "-h": "-h", "-p": "-p",
	"-S": "-S", "-b": "-b", "-c": "-c", "-g": "-g", "-u": "-u", "-k": "-k",
}

func (e *emitter) testClause(sb *strings.Builder, t *syntax.TestClause) error {
	s, err := e.testExpr(t.X)
	if err != nil {
		return err
	}
	sb.WriteString(s)
	return nil
}

// testExpr renders a [[ ]] mini-grammar node as a fish command whose
// exit status carries the same true/false result.
func (e *emitter) testExpr(x syntax.TestExpr) (string, error) {
	switch x := x.(type) {
	case *syntax.TestWord:
		v, err := e.word(x.X)
		if err != nil {
			return "", err
		}
		return "test -n " + v, nil
	case *syntax.TestUnary:
		return e.testUnary(x)
	case *syntax.TestBinary:
		return e.testBinary(x)
	case *syntax.TestNot:
		inner, err := e.testExpr(x.X)
		if err != nil {
			return "", err
		}
		return "not " + wrapBegin(inner), nil
	case *syntax.TestAnd:
		l, err := e.testExpr(x.X)
		if err != nil {
			return "", err
		}
		r, err := e.testExpr(x.Y)
		if err != nil {
			return "", err
		}
		return wrapBegin(l) + "; and " + wrapBegin(r), nil
	case *syntax.TestOr:
		l, err := e.testExpr(x.X)
		if err != nil {
			return "", err
		}
		r, err := e.testExpr(x.Y)
		if err != nil {
			return "", err
		}
		return wrapBegin(l) + "; or " + wrapBegin(r), nil
	case *syntax.TestParen:
		inner, err := e.testExpr(x.X)
		if err != nil {
			return "", err
		}
		return wrapBegin(inner), nil
	}
	return "", unsupported(x.Pos(), "test expression")
}

// wrapBegin guards a sub-expression that is itself a `; and`/`; or`
// chain in a `begin; ...; end` block so it composes safely as one
// operand of an outer and/or/not.
func wrapBegin(s string) string {
	if strings.Contains(s, "; ") {
		return "begin; " + s + "; end"
	}
	return s
}

func (e *emitter) testUnary(x *syntax.TestUnary) (string, error) {
	flag, ok := testUnaryFlags[x.Op]
	if !ok {
		return "", unsupported(x.Offset, "test operator "+string(x.Op))
	}
	v, err := e.word(x.X)
	if err != nil {
		return "", err
	}
	return "test " + flag + " " + v, nil
}

func (e *emitter) testBinary(x *syntax.TestBinary) (string, error) {
	xv, err := e.word(x.X)
	if err != nil {
		return "", err
	}
	switch x.Op {
	case "-eq", "-ne", "-lt", "-le", "-gt", "-ge":
		yv, err := e.word(x.Y)
		if err != nil {
			return "", err
		}
		return "test " + xv + " " + string(x.Op) + " " + yv, nil
	case "=", "==":
		return e.globMatch(xv, x.Y, false)
	case "!=":
		return e.globMatch(xv, x.Y, true)
	case "=~":
		yv, err := e.word(x.Y)
		if err != nil {
			return "", err
		}
		return "string match -rq -- " + yv + " " + xv, nil
	case "<", ">":
		return "", unsupported(x.Offset, "lexicographic string comparison (< or >) inside [[ ]]")
	}
	return "", unsupported(x.Offset, "test binary operator")
}

// globMatch implements `[[ X == P ]]` / `[[ X != P ]]`: a plain
// equality test when P has no glob metacharacters, otherwise a fish
// glob match via `string match`.
func (e *emitter) globMatch(xv string, patWord *syntax.Word, negate bool) (string, error) {
	pv, err := e.word(patWord)
	if err != nil {
		return "", err
	}
	if patWord.IsLiteral() {
		op := "="
		if negate {
			op = "!="
		}
		return "test " + xv + " " + op + " " + pv, nil
	}
	cmd := "string match -q -- " + pv + " " + xv
	if negate {
		return "not " + cmd, nil
	}
	return cmd, nil
}
