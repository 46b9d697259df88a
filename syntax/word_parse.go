// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strings"

// wordScanner decomposes the raw text already captured by a single
// word/assignWord token into fragments (spec §3, §4.2). The Lexer only
// ever finds word boundaries; turning the text inside those boundaries
// into Literal/SingleQuoted/VarSimple/VarBraced/CommandSubst/... is
// this file's job, recursing into Lex+Parse or ParseArith for any
// substring that opens a nested grammar.
type wordScanner struct {
	src  string
	pos  int
	base Pos
}

// parseWordText decomposes one word token's raw text (outside double
// quotes) into fragments.
func parseWordText(raw string, base Pos) (*Word, error) {
	s := &wordScanner{src: raw, base: base}
	frags, err := s.scanFrags(false)
	if err != nil {
		return nil, err
	}
	return &Word{Offset: base, Frags: frags}, nil
}

// parseDquoteBody decomposes the body of a double-quoted span (or a
// here-document body, which shares the same expansion rules minus the
// surrounding quote characters themselves) into fragments.
func parseDquoteBody(raw string, base Pos) ([]WordFragment, error) {
	s := &wordScanner{src: raw, base: base}
	return s.scanFrags(true)
}

func (s *wordScanner) off() Pos { return s.base + Pos(s.pos) }

func (s *wordScanner) scanFrags(inDquote bool) ([]WordFragment, error) {
	var frags []WordFragment
	var lit strings.Builder
	litStart := s.pos
	flush := func() {
		if lit.Len() > 0 {
			frags = append(frags, &Literal{Offset: s.base + Pos(litStart), Value: lit.String()})
			lit.Reset()
		}
	}
	for s.pos < len(s.src) {
		b := s.src[s.pos]
		switch {
		case b == '\\' && s.pos+1 < len(s.src):
			nxt := s.src[s.pos+1]
			if inDquote && !strings.ContainsRune(`$`+"`"+`"\`+"\n", rune(nxt)) {
				lit.WriteByte(b)
				s.pos++
				continue
			}
			if nxt == '\n' {
				s.pos += 2
				continue
			}
			lit.WriteByte(nxt)
			s.pos += 2
		case b == '\'' && !inDquote:
			flush()
			start := s.pos
			s.pos++
			for s.pos < len(s.src) && s.src[s.pos] != '\'' {
				s.pos++
			}
			frags = append(frags, &SingleQuoted{Offset: s.base + Pos(start), Value: s.src[start+1 : s.pos]})
			if s.pos < len(s.src) {
				s.pos++ // closing '
			}
			litStart = s.pos
		case b == '"' && !inDquote:
			flush()
			start := s.pos
			s.pos++
			inner, err := s.scanDquoteInner()
			if err != nil {
				return nil, err
			}
			if s.pos < len(s.src) && s.src[s.pos] == '"' {
				s.pos++
			}
			frags = append(frags, &DoubleQuoted{Offset: s.base + Pos(start), Frags: inner})
			litStart = s.pos
		case b == '~' && s.pos == 0 && !inDquote:
			flush()
			start := s.pos
			s.pos++
			us := s.pos
			for s.pos < len(s.src) && isTildeUserByte(s.src[s.pos]) {
				s.pos++
			}
			frags = append(frags, &Tilde{Offset: s.base + Pos(start), User: s.src[us:s.pos]})
			litStart = s.pos
		case b == '$':
			flush()
			f, err := s.scanDollar()
			if err != nil {
				return nil, err
			}
			if f != nil {
				frags = append(frags, f)
			}
			litStart = s.pos
		case b == '`':
			flush()
			start := s.pos
			s.pos++
			bodyStart := s.pos
			for s.pos < len(s.src) && s.src[s.pos] != '`' {
				if s.src[s.pos] == '\\' && s.pos+1 < len(s.src) {
					s.pos++
				}
				s.pos++
			}
			raw := s.src[bodyStart:s.pos]
			if s.pos < len(s.src) {
				s.pos++
			}
			stmts, err := parseSubSource(raw, s.base+Pos(bodyStart))
			if err != nil {
				return nil, err
			}
			frags = append(frags, &Backtick{Offset: s.base + Pos(start), Body: stmts})
			litStart = s.pos
		case (b == '<' || b == '>') && !inDquote && s.pos+1 < len(s.src) && s.src[s.pos+1] == '(':
			flush()
			start := s.pos
			dir := ProcSubstIn
			if b == '>' {
				dir = ProcSubstOut
			}
			end := matchParenPair(s.src, s.pos+1, 1)
			raw := s.src[s.pos+2 : end-1]
			stmts, err := parseSubSource(raw, s.base+Pos(s.pos+2))
			if err != nil {
				return nil, err
			}
			frags = append(frags, &ProcSubst{Offset: s.base + Pos(start), Dir: dir, Body: stmts})
			s.pos = end
			litStart = s.pos
		case b == '{' && !inDquote && litStart == s.pos && looksLikeBraceExpansion(s.src[s.pos:]):
			flush()
			start := s.pos
			end := matchBrace(s.src, s.pos)
			frags = append(frags, &BraceExpansion{Offset: s.base + Pos(start), Raw: s.src[start:end]})
			s.pos = end
			litStart = s.pos
		default:
			lit.WriteByte(b)
			s.pos++
		}
	}
	flush()
	return frags, nil
}

func isTildeUserByte(b byte) bool {
	return isIdentByte(b, false) || b == '-' || b == '.'
}

// looksLikeBraceExpansion is a light heuristic: only treat `{...}` as a
// brace expansion when it contains a comma or ".." at the top nesting
// level, matching bash's own rule that a brace with neither is passed
// through literally.
func looksLikeBraceExpansion(s string) bool {
	if len(s) == 0 || s[0] != '{' {
		return false
	}
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.ContainsAny(s[1:i], ",") || strings.Contains(s[1:i], "..")
			}
		}
	}
	return false
}

func matchBrace(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(s)
}

func (s *wordScanner) scanDquoteInner() ([]WordFragment, error) {
	start := s.pos
	for s.pos < len(s.src) {
		if s.src[s.pos] == '"' {
			break
		}
		if s.src[s.pos] == '\\' && s.pos+1 < len(s.src) {
			s.pos += 2
			continue
		}
		s.pos++
	}
	inner := &wordScanner{src: s.src[start:s.pos], base: s.base + Pos(start)}
	return inner.scanFrags(true)
}

// scanDollar handles every $-led construct: $name, ${...}, $(...),
// $((...)), and a bare '$' with nothing following (a literal dollar).
func (s *wordScanner) scanDollar() (WordFragment, error) {
	start := s.pos
	if s.pos+1 >= len(s.src) {
		s.pos++
		return &Literal{Offset: s.base + Pos(start), Value: "$"}, nil
	}
	nxt := s.src[s.pos+1]
	switch {
	case nxt == '(' && s.pos+2 < len(s.src) && s.src[s.pos+2] == '(':
		end := matchParenPair(s.src, s.pos+1, 2)
		raw := s.src[s.pos+3 : end-2]
		x, err := ParseArith(raw, s.base+Pos(s.pos+3))
		if err != nil {
			return nil, err
		}
		s.pos = end
		return &ArithSubst{Offset: s.base + Pos(start), X: x}, nil
	case nxt == '(':
		end := matchParenPair(s.src, s.pos+1, 1)
		raw := s.src[s.pos+2 : end-1]
		stmts, err := parseSubSource(raw, s.base+Pos(s.pos+2))
		if err != nil {
			return nil, err
		}
		s.pos = end
		return &CommandSubst{Offset: s.base + Pos(start), Body: stmts}, nil
	case nxt == '{':
		end := matchBracePair(s.src, s.pos+1)
		raw := s.src[s.pos+2 : end-1]
		param, err := parseParamExpansion(raw, s.base+Pos(s.pos+2))
		if err != nil {
			return nil, err
		}
		s.pos = end
		return &VarBraced{Offset: s.base + Pos(start), Param: param}, nil
	case isIdentByte(nxt, true):
		s.pos++
		ns := s.pos
		for s.pos < len(s.src) && isIdentByte(s.src[s.pos], false) {
			s.pos++
		}
		return &VarSimple{Offset: s.base + Pos(start), Name: s.src[ns:s.pos]}, nil
	case isSpecialParam(nxt):
		s.pos += 2
		return &VarSimple{Offset: s.base + Pos(start), Name: string(nxt)}, nil
	default:
		s.pos++
		return &Literal{Offset: s.base + Pos(start), Value: "$"}, nil
	}
}

func isSpecialParam(b byte) bool {
	switch b {
	case '@', '*', '#', '?', '-', '$', '!', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return true
	}
	return false
}

func matchParenPair(s string, openAt int, openLen int) int {
	depth := 0
	i := openAt
	for i < len(s) {
		switch s[i] {
		case '(':
			depth++
			i++
		case ')':
			depth--
			i++
			if depth == 0 {
				if openLen == 2 {
					if i < len(s) && s[i] == ')' {
						return i + 1
					}
					return i
				}
				return i
			}
		default:
			i++
		}
	}
	return len(s)
}

func matchBracePair(s string, openAt int) int {
	depth := 0
	i := openAt
	for i < len(s) {
		switch s[i] {
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return len(s)
}

// parseSubSource parses a recursively nested command/process
// substitution body using the same Lexer+Parser pipeline as the
// top-level source, per spec §4.3 ("recursive use of Lexer+Parser").
func parseSubSource(src string, base Pos) ([]*Stmt, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, offsetLexErr(err, base)
	}
	p := &Parser{toks: offsetToks(toks, base)}
	stmts, err := p.parseStmtList(nil)
	if err != nil {
		return nil, err
	}
	return stmts, nil
}

func offsetToks(toks []TokenItem, base Pos) []TokenItem {
	out := make([]TokenItem, len(toks))
	for i, t := range toks {
		t.Offset += base
		out[i] = t
	}
	return out
}

func offsetLexErr(err error, base Pos) error {
	if le, ok := err.(*LexError); ok {
		le.Offset += base
		return le
	}
	return err
}
