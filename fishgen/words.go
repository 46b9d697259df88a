package fishgen

import (
	"strings"

	"github.com/isabellaaGrier/reef/syntax"
)

// pseudoBuiltins are bash builtins whose argument syntax the emitter
// special-cases instead of treating as an ordinary command word list,
// because their whole effect is a variable-table mutation with no
// fish command of the same shape.
var pseudoBuiltins = map[string]bool{
	"export": true, "unset": true, "local": true, "readonly": true, "declare": true,
}

func (e *emitter) callExpr(sb *strings.Builder, c *syntax.CallExpr) error {
	if len(c.Words) == 0 {
		return e.assignOnlyStmt(sb, c.Assigns, true)
	}
	name := c.Words[0].Lit()
	if pseudoBuiltins[name] {
		return e.pseudoBuiltin(sb, name, c)
	}
	switch name {
	case "coproc":
		return unsupported(c.Offset, "coproc")
	case "select":
		return unsupported(c.Offset, "select")
	case "mapfile", "readarray":
		return unsupported(c.Offset, name)
	case "trap":
		return e.trapBuiltin(sb, c)
	}

	var prefix string
	for _, a := range c.Assigns {
		if a.Append {
			return unsupported(a.Offset, "+= in a command-scoped assignment prefix")
		}
		val, err := e.word(a.Value)
		if err != nil {
			return err
		}
		// fish (3.4+) accepts the same `NAME=value cmd` prefix bash
		// does, scoping the assignment to this one invocation.
		prefix += a.Name + "=" + val + " "
	}
	sb.WriteString(prefix)

	heredocIdx := -1
	var plainRedirs []*syntax.Redirect
	for i, r := range c.Redirs {
		if (r.Op == syntax.RedirHeredoc || r.Op == syntax.RedirHeredocTabs || r.Op == syntax.RedirHereString) && r.Fd == -1 {
			if heredocIdx != -1 {
				return unsupported(r.Offset, "more than one heredoc/here-string on the same command")
			}
			heredocIdx = i
			continue
		}
		plainRedirs = append(plainRedirs, r)
	}

	words, err := e.wordList(c.Words)
	if err != nil {
		return err
	}

	if heredocIdx != -1 {
		body, err := e.heredocBody(c.Redirs[heredocIdx])
		if err != nil {
			return err
		}
		sb.WriteString("printf '%s' " + body + " | ")
	}

	sb.WriteString(strings.Join(words, " "))
	for _, r := range plainRedirs {
		sb.WriteString(" ")
		if err := e.redirect(sb, r); err != nil {
			return err
		}
	}
	return nil
}

// heredocBody renders a heredoc or here-string redirect's captured
// body as a single fish-quoted string argument to printf.
func (e *emitter) heredocBody(r *syntax.Redirect) (string, error) {
	if r.Op == syntax.RedirHereString {
		val, err := e.word(r.Target)
		if err != nil {
			return "", err
		}
		return "(string join '' " + val + " '\\n')", nil
	}
	frags, err := e.fragList(r.HdocFragments, true)
	if err != nil {
		return "", err
	}
	return `"` + frags + `"`, nil
}

func (e *emitter) trapBuiltin(sb *strings.Builder, c *syntax.CallExpr) error {
	if len(c.Words) != 3 {
		return unsupported(c.Offset, "trap (only `trap 'body' EXIT` is supported)")
	}
	sig := c.Words[2].Lit()
	if sig != "EXIT" {
		return unsupported(c.Offset, "trap on a signal other than EXIT")
	}
	body, err := e.word(c.Words[1])
	if err != nil {
		return err
	}
	sb.WriteString("function __reef_on_exit --on-event fish_exit\n    eval " + body + "\nend")
	return nil
}

func (e *emitter) pseudoBuiltin(sb *strings.Builder, name string, c *syntax.CallExpr) error {
	args := c.Words[1:]
	switch name {
	case "export":
		return e.exportUnset(sb, args, true, true)
	case "unset":
		return e.exportUnset(sb, args, false, false)
	case "local":
		return e.exportUnset(sb, args, true, false)
	case "readonly":
		return e.exportUnset(sb, args, true, true)
	case "declare":
		flags, rest := splitDeclareFlags(args)
		if flags["A"] {
			return unsupported(c.Offset, "associative array (declare -A)")
		}
		if flags["n"] {
			return unsupported(c.Offset, "nameref (declare -n)")
		}
		return e.exportUnset(sb, rest, true, flags["x"])
	}
	return unsupported(c.Offset, name)
}

// splitDeclareFlags separates leading `-x`-style flag words (each
// letter of a combined flag like `-Ax` is recorded separately) from the
// NAME[=VALUE] operands that follow.
func splitDeclareFlags(words []*syntax.Word) (map[string]bool, []*syntax.Word) {
	flags := map[string]bool{}
	i := 0
	for ; i < len(words); i++ {
		lit := words[i].Lit()
		if len(lit) < 2 || lit[0] != '-' {
			break
		}
		for _, c := range lit[1:] {
			flags[string(c)] = true
		}
	}
	return flags, words[i:]
}

// exportUnset renders `export`/`unset`/`local`/`readonly`/`declare`
// argument words as `set` statements. present controls whether a bare
// NAME (no `=`) sets or removes a binding; exported controls -gx vs -g.
func (e *emitter) exportUnset(sb *strings.Builder, words []*syntax.Word, present, exported bool) error {
	for i, w := range words {
		if i > 0 {
			sb.WriteString("; ")
		}
		lit := w.Lit()
		if name, val, ok := splitAssignWord(lit); ok && w.IsLiteral() {
			if err := e.setStatement(sb, name, literalWord(val, w.Offset), exported); err != nil {
				return err
			}
			continue
		}
		if !present {
			sb.WriteString("set -e " + lit)
			continue
		}
		if !exported {
			continue // `local x` with no value: fish auto-declares on first `set -l`
		}
		sb.WriteString("set -gx " + lit + " $" + lit)
	}
	return nil
}

func splitAssignWord(s string) (name, val string, ok bool) {
	i := strings.IndexByte(s, '=')
	if i <= 0 || !syntax.ValidName(s[:i]) {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func literalWord(s string, off syntax.Pos) *syntax.Word {
	return &syntax.Word{Offset: off, Frags: []syntax.WordFragment{&syntax.Literal{Offset: off, Value: s}}}
}

// assignOnlyStmt emits a bare `NAME=VALUE` (or several) statement with
// no following command word: a plain (non-exported) global assignment.
func (e *emitter) assignOnlyStmt(sb *strings.Builder, assigns []*syntax.Assign, globalScope bool) error {
	for i, a := range assigns {
		if i > 0 {
			sb.WriteString("; ")
		}
		if err := e.setStatement(sb, a.Name, a.Value, false); err != nil {
			return err
		}
	}
	return nil
}

// isPathLike applies the PATH-like detection rule (SPEC_FULL's Open
// Question resolution): a case-sensitive suffix match on "PATH", with
// the caller able to widen the set via Options.ExtraPathVars.
func (e *emitter) isPathLike(name string) bool {
	if strings.HasSuffix(name, "PATH") {
		return true
	}
	for _, n := range e.opts.ExtraPathVars {
		if n == name {
			return true
		}
	}
	return false
}

func (e *emitter) setStatement(sb *strings.Builder, name string, val *syntax.Word, exported bool) error {
	if !syntax.ValidName(name) {
		return unsupported(val.Pos(), "invalid variable name")
	}
	rendered, err := e.word(val)
	if err != nil {
		return err
	}
	flag := "-g"
	if exported {
		flag = "-gx"
	}
	if e.isPathLike(name) {
		sb.WriteString("set " + flag + " " + name + " (string split ':' -- " + rendered + ")")
		return nil
	}
	sb.WriteString("set " + flag + " " + name + " " + rendered)
	return nil
}

// wordList renders each Word to its fish text, splicing any whole- or
// partial-word brace expansion into multiple resulting words the way
// bash's own brace expansion multiplies argument count before any
// other expansion happens.
func (e *emitter) wordList(ws []*syntax.Word) ([]string, error) {
	var out []string
	for _, w := range ws {
		if vals, ok := spliceBraceWord(w); ok {
			for _, v := range vals {
				out = append(out, quoteForFish(v))
			}
			continue
		}
		s, err := e.word(w)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// spliceBraceWord recognizes a Word made up of an optional literal
// prefix, exactly one BraceExpansion fragment, and an optional literal
// suffix — the common `pre{a,b}post` shape — and expands it eagerly
// into the literal strings it denotes. Any other mix of fragments next
// to a BraceExpansion (a variable, a command substitution) is left
// alone: bash performs brace expansion textually before any other
// expansion, which this emitter doesn't attempt to replicate exactly
// for mixed words.
func spliceBraceWord(w *syntax.Word) ([]string, bool) {
	var prefix, suffix string
	var brace *syntax.BraceExpansion
	for _, f := range w.Frags {
		switch f := f.(type) {
		case *syntax.Literal:
			if brace == nil {
				prefix += f.Value
			} else {
				suffix += f.Value
			}
		case *syntax.BraceExpansion:
			if brace != nil {
				return nil, false
			}
			brace = f
		default:
			return nil, false
		}
	}
	if brace == nil {
		return nil, false
	}
	vals, ok := syntax.ExpandBraces(brace.Raw)
	if !ok {
		return nil, false
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = prefix + v + suffix
	}
	return out, true
}

func (e *emitter) word(w *syntax.Word) (string, error) {
	return e.fragList(w.Frags, false)
}

// fragList concatenates the fish translation of each fragment. When a
// VarSimple/VarBraced/ArithSubst/CommandSubst fragment is immediately
// followed by a Literal fragment starting with an identifier byte,
// fish would otherwise swallow that literal into the variable/command
// name; such a fragment is wrapped in its own double quotes to force a
// boundary (the "$v"rest trick), unless rawHeredoc is set, in which
// case the whole result is meant to sit inside printf's own quotes and
// fragments are emitted unquoted to avoid double-quoting.
func (e *emitter) fragList(frags []syntax.WordFragment, rawHeredoc bool) (string, error) {
	var sb strings.Builder
	for i, f := range frags {
		s, needsBoundary, err := e.fragment(f, rawHeredoc)
		if err != nil {
			return "", err
		}
		if needsBoundary && i+1 < len(frags) {
			if lit, ok := frags[i+1].(*syntax.Literal); ok && lit.Value != "" && isIdentByte(lit.Value[0]) {
				s = `"` + s + `"`
			}
		}
		sb.WriteString(s)
	}
	return sb.String(), nil
}

func isIdentByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}

// fragment translates one WordFragment. The bool result reports
// whether the fragment is an unquoted variable-like reference that
// may need the boundary-quoting trick described on fragList.
func (e *emitter) fragment(f syntax.WordFragment, rawHeredoc bool) (string, bool, error) {
	switch f := f.(type) {
	case *syntax.Literal:
		if rawHeredoc {
			return escapeDquoteForFish(f.Value), false, nil
		}
		return escapeLiteralForFish(f.Value), false, nil
	case *syntax.SingleQuoted:
		return "'" + escapeSingleQuoteForFish(f.Value) + "'", false, nil
	case *syntax.DoubleQuoted:
		inner, err := e.fragList(f.Frags, true)
		if err != nil {
			return "", false, err
		}
		return `"` + inner + `"`, false, nil
	case *syntax.VarSimple:
		return "$" + f.Name, true, nil
	case *syntax.VarBraced:
		s, err := e.paramExpansion(f.Param)
		return s, true, err
	case *syntax.CommandSubst:
		inner, err := e.stmtListInline(f.Body)
		if err != nil {
			return "", false, err
		}
		return "(" + inner + ")", true, nil
	case *syntax.Backtick:
		inner, err := e.stmtListInline(f.Body)
		if err != nil {
			return "", false, err
		}
		return "(" + inner + ")", true, nil
	case *syntax.ArithSubst:
		s, err := e.arithValue(f.X)
		return s, true, err
	case *syntax.ProcSubst:
		if f.Dir == syntax.ProcSubstOut {
			return "", false, unsupported(f.Offset, "output process substitution (>(...))")
		}
		inner, err := e.stmtListInline(f.Body)
		if err != nil {
			return "", false, err
		}
		return "(" + inner + " | psub)", true, nil
	case *syntax.BraceExpansion:
		// reached only for a brace expansion the word-level splicer
		// (spliceBraceWord) declined to handle (mixed with other
		// expansions); pass the raw text through unexpanded, matching
		// bash's own behavior for a malformed brace expansion.
		return escapeLiteralForFish(f.Raw), false, nil
	case *syntax.Tilde:
		return "~" + f.User, false, nil
	}
	return "", false, unsupported(f.Pos(), "word fragment")
}

const fishLiteralMeta = " $(){}*?[];&|<>#~!\\'\""

func escapeLiteralForFish(s string) string {
	if !strings.ContainsAny(s, fishLiteralMeta) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(fishLiteralMeta, s[i]) != -1 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// escapeSingleQuoteForFish escapes the only two bytes fish's own
// single-quote parsing treats specially: a backslash and a quote
// itself.
func escapeSingleQuoteForFish(s string) string {
	if !strings.ContainsAny(s, `\'`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '\'' {
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// escapeDquoteForFish escapes the bytes fish's double-quote parsing
// treats specially: a backslash, a double quote, and `$` (to prevent
// accidental variable expansion of literal text that merely contains
// a dollar sign — e.g. a heredoc body with a literal price "$5").
func escapeDquoteForFish(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\', '"', '$':
			sb.WriteByte('\\')
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// quoteForFish single-quotes an already-fully-expanded literal string
// (used for the brace-expansion splice, whose resulting values are
// plain text with no further expansion to preserve).
func quoteForFish(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, fishLiteralMeta) {
		return s
	}
	return "'" + escapeSingleQuoteForFish(s) + "'"
}
