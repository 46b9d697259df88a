package fishgen

import (
	"regexp"

	"github.com/isabellaaGrier/reef/pattern"
	"github.com/isabellaaGrier/reef/syntax"
)

// paramExpansion translates one ${...} operator (§4.4's table) into a
// fish command-substitution expression. Each arm mirrors the bash
// semantics of its operator as closely as fish's string/math builtins
// allow; several (indirect references, @Q-style quoting) have no safe
// fish equivalent and are refused.
func (e *emitter) paramExpansion(p syntax.ParamExpansion) (string, error) {
	name := "$" + p.Name
	switch p.Kind {
	case syntax.ParamPlain:
		return name, nil
	case syntax.ParamLength:
		return `(string length -- "` + name + `")`, nil
	case syntax.ParamDefault:
		arg, err := e.argWord(p.Arg)
		if err != nil {
			return "", err
		}
		cond := e.setCond(p.Name, p.WithColon)
		return "(if " + cond + "; echo -n " + name + "; else; echo -n " + arg + "; end)", nil
	case syntax.ParamAssignDefault:
		arg, err := e.argWord(p.Arg)
		if err != nil {
			return "", err
		}
		cond := e.setCond(p.Name, p.WithColon)
		return "(if not " + cond + "; set -gx " + p.Name + " " + arg + "; end; echo -n " + name + ")", nil
	case syntax.ParamErrorIfUnset:
		arg, err := e.argWord(p.Arg)
		if err != nil {
			return "", err
		}
		cond := e.setCond(p.Name, p.WithColon)
		return "(if not " + cond + "; echo " + p.Name + ": " + arg + " >&2; exit 1; end; echo -n " + name + ")", nil
	case syntax.ParamAlternateValue:
		arg, err := e.argWord(p.Arg)
		if err != nil {
			return "", err
		}
		cond := e.setCond(p.Name, p.WithColon)
		return "(if " + cond + "; echo -n " + arg + "; end)", nil
	case syntax.ParamStripPrefixShort, syntax.ParamStripPrefixLong:
		return e.stripOp(name, p.Pattern, true, p.Kind == syntax.ParamStripPrefixLong)
	case syntax.ParamStripSuffixShort, syntax.ParamStripSuffixLong:
		return e.stripOp(name, p.Pattern, false, p.Kind == syntax.ParamStripSuffixLong)
	case syntax.ParamSubstituteFirst, syntax.ParamSubstituteAll:
		return e.substituteOp(name, p.Pattern, p.Replace, "", p.Kind == syntax.ParamSubstituteAll)
	case syntax.ParamSubstitutePrefix:
		return e.substituteOp(name, p.Pattern, p.Replace, "^", false)
	case syntax.ParamSubstituteSuffix:
		return e.substituteOp(name, p.Pattern, p.Replace, "$", false)
	case syntax.ParamUpperAll:
		return `(string upper -- "` + name + `")`, nil
	case syntax.ParamLowerAll:
		return `(string lower -- "` + name + `")`, nil
	case syntax.ParamUpperFirst:
		return e.firstCharOp(name, "upper")
	case syntax.ParamLowerFirst:
		return e.firstCharOp(name, "lower")
	case syntax.ParamSubstring:
		return e.substringOp(name, p.Offset, p.Length)
	case syntax.ParamIndirect:
		return "", unsupported(0, "indirect parameter expansion (${!name})")
	case syntax.ParamQuotedExpansion:
		return "", unsupported(0, "quoted-form expansion (${v@Q})")
	case syntax.ParamArrayLength:
		return "", unsupported(0, "array-length expansion")
	}
	return "", unsupported(0, "parameter expansion operator")
}

// setCond renders the "is this variable set (and, with a colon
// operator, non-empty)" test shared by :-, :=, :?  and :+.
func (e *emitter) setCond(name string, withColon bool) string {
	if withColon {
		return `set -q ` + name + `; and test -n "$` + name + `"`
	}
	return `set -q ` + name
}

func (e *emitter) argWord(w *syntax.Word) (string, error) {
	if w == nil {
		return "''", nil
	}
	return e.word(w)
}

// stripOp implements ${v#p} / ${v##p} / ${v%p} / ${v%%p}: strip the
// shortest (or longest) prefix/suffix of v matching glob p.
func (e *emitter) stripOp(name string, patWord *syntax.Word, prefix, longest bool) (string, error) {
	lit := patWord.Lit()
	if patWord.IsLiteral() && pattern.IsLiteral(lit) {
		anchor := "^"
		if !prefix {
			anchor = "$"
		}
		re := anchor + regexpQuote(lit)
		return `(string replace -r -- '` + re + `' '' "` + name + `")`, nil
	}
	mode := pattern.Mode(0)
	if !longest {
		mode |= pattern.Shortest
	}
	re, err := pattern.Regexp(lit, mode)
	if err != nil {
		return "", unsupported(patWord.Pos(), "glob pattern in "+opName(prefix, longest))
	}
	if prefix {
		re = "^(?:" + re + ")"
	} else {
		re = "(?:" + re + ")$"
	}
	return `(string replace -r -- '` + re + `' '' "` + name + `")`, nil
}

func opName(prefix, longest bool) string {
	switch {
	case prefix && longest:
		return "${v##p}"
	case prefix:
		return "${v#p}"
	case longest:
		return "${v%%p}"
	default:
		return "${v%p}"
	}
}

// substituteOp implements ${v/a/b}, ${v//a/b}, ${v/#a/b}, ${v/%a/b}.
func (e *emitter) substituteOp(name string, patWord, replWord *syntax.Word, anchor string, all bool) (string, error) {
	repl := ""
	if replWord != nil {
		r, err := e.word(replWord)
		if err != nil {
			return "", err
		}
		repl = r
	}
	lit := patWord.Lit()
	flags := "-r"
	if all {
		flags = "-ra"
	}
	if anchor == "" && patWord.IsLiteral() && pattern.IsLiteral(lit) {
		flags = "--"
		if all {
			flags = "-a --"
		}
		return `(string replace ` + flags + ` '` + escapeSingleQuoteForFish(lit) + `' ` + repl + ` "` + name + `")`, nil
	}
	re, err := pattern.Regexp(lit, 0)
	if err != nil {
		return "", unsupported(patWord.Pos(), "glob pattern in ${v/a/b}")
	}
	if anchor != "" {
		if anchor == "^" {
			re = "^(?:" + re + ")"
		} else {
			re = "(?:" + re + ")$"
		}
	}
	return `(string replace ` + flags + ` -- '` + re + `' ` + repl + ` "` + name + `")`, nil
}

func (e *emitter) firstCharOp(name, which string) (string, error) {
	return "(string " + which + " -- (string sub -l 1 -- \"" + name + "\"))(string sub -s 2 -- \"" + name + "\")", nil
}

func (e *emitter) substringOp(name string, off, length syntax.ArithExpr) (string, error) {
	offVal, err := e.arithString(off)
	if err != nil {
		return "", err
	}
	// Bash's offset is 0-based from the start, but a negative offset
	// instead counts from the end with -1 meaning the last character --
	// which is exactly what fish's `string sub -s` already does for a
	// negative index. So only a non-negative offset needs the 0-based
	// to 1-based shift; a negative one passes straight through.
	startExpr := `(if test (math "` + offVal + `") -ge 0; math "(` + offVal + `) + 1"; else; math "` + offVal + `"; end)`
	if length == nil {
		return `(string sub -s ` + startExpr + ` -- "` + name + `")`, nil
	}
	lenVal, err := e.arithString(length)
	if err != nil {
		return "", err
	}
	return `(string sub -s ` + startExpr + ` -l (math "` + lenVal + `") -- "` + name + `")`, nil
}

// regexpQuote escapes a literal string for use inside the regex passed
// to `string replace -r`. Unlike pattern.QuoteMeta (which escapes
// *glob* metacharacters), this needs to escape *regex* metacharacters,
// since by this point the pattern has already been proven glob-literal
// and is being anchored into an RE2 expression.
func regexpQuote(s string) string {
	return regexp.QuoteMeta(s)
}
