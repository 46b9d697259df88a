// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

// Word is a sequence of fragments (spec §3). Zero-copy where the
// fragment is a plain slice of the input; fragments that required
// recursive parsing (command substitution, arithmetic) own their own
// sub-tree.
type Word struct {
	Offset Pos
	Frags  []WordFragment
}

func (w *Word) Pos() Pos { return w.Offset }

// Lit returns the word's value when it is made up of exactly one
// Literal fragment, and "" otherwise. Used by the parser and emitter
// to fast-path plain identifiers (loop variable names, case
// delimiters, etc.).
func (w *Word) Lit() string {
	if w == nil || len(w.Frags) != 1 {
		return ""
	}
	if l, ok := w.Frags[0].(*Literal); ok {
		return l.Value
	}
	return ""
}

// IsLiteral reports whether the word contains no expansions at all
// (only Literal and SingleQuoted fragments), meaning its value is
// known without running anything.
func (w *Word) IsLiteral() bool {
	for _, f := range w.Frags {
		switch f.(type) {
		case *Literal, *SingleQuoted:
		default:
			return false
		}
	}
	return true
}

// WordFragment is implemented by every word-part kind in spec §3.
type WordFragment interface {
	Node
	fragmentNode()
}

func (*Literal) fragmentNode()       {}
func (*SingleQuoted) fragmentNode()  {}
func (*DoubleQuoted) fragmentNode()  {}
func (*VarSimple) fragmentNode()     {}
func (*VarBraced) fragmentNode()     {}
func (*CommandSubst) fragmentNode()  {}
func (*ArithSubst) fragmentNode()    {}
func (*ProcSubst) fragmentNode()     {}
func (*BraceExpansion) fragmentNode() {}
func (*Tilde) fragmentNode()         {}
func (*Backtick) fragmentNode()      {}

// Literal is unquoted, unexpanded text.
type Literal struct {
	Offset Pos
	Value  string
}

func (l *Literal) Pos() Pos { return l.Offset }

// SingleQuoted is the exact text between a pair of single quotes
// (newlines included, no escapes processed).
type SingleQuoted struct {
	Offset Pos
	Value  string
}

func (s *SingleQuoted) Pos() Pos { return s.Offset }

// DoubleQuoted is a double-quoted span; its own Frags may contain
// Literal, VarSimple, VarBraced, CommandSubst, ArithSubst and
// Backtick, per §4.2's double-quote expansion rules.
type DoubleQuoted struct {
	Offset Pos
	Frags  []WordFragment
}

func (d *DoubleQuoted) Pos() Pos { return d.Offset }

// VarSimple is $name (no braces, no operator).
type VarSimple struct {
	Offset Pos
	Name   string
}

func (v *VarSimple) Pos() Pos { return v.Offset }

// VarBraced is ${...} with a parsed ParamExpansion.
type VarBraced struct {
	Offset Pos
	Param  ParamExpansion
}

func (v *VarBraced) Pos() Pos { return v.Offset }

// CommandSubst is $(...) or legacy `...` once re-expressed uniformly;
// Body is the parsed statement list.
type CommandSubst struct {
	Offset Pos
	Body   []*Stmt
}

func (c *CommandSubst) Pos() Pos { return c.Offset }

// Backtick is the original raw text of a `...` substitution, kept
// distinct from CommandSubst so the Emitter can special-case its
// escaping rules (§4.2: inside backticks, only \$ and \` are special).
type Backtick struct {
	Offset Pos
	Body   []*Stmt
}

func (b *Backtick) Pos() Pos { return b.Offset }

// ArithSubst is $((expr)).
type ArithSubst struct {
	Offset Pos
	X      ArithExpr
}

func (a *ArithSubst) Pos() Pos { return a.Offset }

// ProcSubst is <(...) (In) or >(...) (Out).
type ProcSubstDir int

const (
	ProcSubstIn ProcSubstDir = iota
	ProcSubstOut
)

type ProcSubst struct {
	Offset Pos
	Dir    ProcSubstDir
	Body   []*Stmt
}

func (p *ProcSubst) Pos() Pos { return p.Offset }

// BraceExpansion is {a,b,c} or {start..end[..incr]}, still in source
// form; ExpandBraces (braces.go) turns it into literal strings.
type BraceExpansion struct {
	Offset Pos
	Raw    string
}

func (b *BraceExpansion) Pos() Pos { return b.Offset }

// Tilde is ~ or ~user, optionally followed by a path remainder that is
// lexed as ordinary literal text outside this fragment.
type Tilde struct {
	Offset Pos
	User   string // "" for the invoking user's own home
}

func (t *Tilde) Pos() Pos { return t.Offset }

// ParamExpansionKind tags which operator (if any) a ${...} uses.
type ParamExpansionKind int

const (
	ParamPlain ParamExpansionKind = iota
	ParamLength
	ParamDefault
	ParamAssignDefault
	ParamErrorIfUnset
	ParamAlternateValue
	ParamStripPrefixShort
	ParamStripPrefixLong
	ParamStripSuffixShort
	ParamStripSuffixLong
	ParamSubstituteFirst
	ParamSubstituteAll
	ParamSubstitutePrefix
	ParamSubstituteSuffix
	ParamUpperFirst
	ParamUpperAll
	ParamLowerFirst
	ParamLowerAll
	ParamSubstring
	ParamIndirect
	ParamQuotedExpansion
	ParamArrayLength
)

// ParamExpansion is the ${...} data model from spec §3: a name plus
// exactly one operator variant.
type ParamExpansion struct {
	Name      string
	Kind      ParamExpansionKind
	WithColon bool // true for the ":-" family vs "-" (unset-only) family
	Arg       *Word // the operator's word operand, nil when not applicable

	// SubstituteFirst/All/Prefix/Suffix carry a pattern and replacement.
	Pattern *Word
	Replace *Word

	// Substring carries an arithmetic offset and optional length.
	Offset ArithExpr
	Length ArithExpr
}
