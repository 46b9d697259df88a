// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strings"

// Parser is a recursive-descent parser consuming the token stream
// produced by the Lexer (spec §4.3). The spec asks for Lexer and
// Parser as separate components; unlike the teacher's fused
// lexer/parser, this one runs the Lexer to completion first and walks
// the resulting slice.
type Parser struct {
	toks []TokenItem
	i    int
}

// Parse lexes and parses src into a File, or returns a *LexError or
// *ParseError.
func Parse(src string) (*File, error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	stmts, err := p.parseStmtList(nil)
	if err != nil {
		return nil, err
	}
	if !p.at(eof) {
		return nil, p.unexpected("end of input")
	}
	return &File{Stmts: stmts}, nil
}

func (p *Parser) cur() TokenItem  { return p.toks[p.i] }
func (p *Parser) at(k Token) bool { return p.cur().Kind == k }
func (p *Parser) advance() TokenItem {
	t := p.toks[p.i]
	if p.i+1 < len(p.toks) {
		p.i++
	}
	return t
}

func (p *Parser) unexpected(want string) error {
	return &ParseError{Offset: p.cur().Offset, Kind: ParseUnexpected, Msg: "unexpected " + p.cur().Kind.String() + ", expected " + want}
}

func (p *Parser) expect(k Token) (TokenItem, error) {
	if !p.at(k) {
		return TokenItem{}, p.unexpected(k.String())
	}
	return p.advance(), nil
}

func (p *Parser) skipNewlines() {
	for p.at(newline) {
		p.advance()
	}
}

func (p *Parser) skipSeparators() {
	for p.at(newline) || p.at(semicolon) {
		p.advance()
	}
}

func termSet(toks ...Token) map[Token]bool {
	m := make(map[Token]bool, len(toks))
	for _, t := range toks {
		m[t] = true
	}
	return m
}

func (p *Parser) atAny(terms map[Token]bool) bool {
	return terms != nil && terms[p.cur().Kind]
}

// parseStmtList parses statements separated by ';' or newline until a
// terminator token in terms, or EOF when terms is nil.
func (p *Parser) parseStmtList(terms map[Token]bool) ([]*Stmt, error) {
	var out []*Stmt
	for {
		p.skipSeparators()
		if p.at(eof) || p.atAny(terms) {
			break
		}
		st, err := p.parseAndOr()
		if err != nil {
			return nil, err
		}
		if p.at(and) {
			st.Background = true
			p.advance()
		}
		out = append(out, st)
		if p.at(semicolon) || p.at(newline) {
			continue
		}
		if p.at(eof) || p.atAny(terms) {
			break
		}
		return nil, p.unexpected("';', newline, or end of block")
	}
	return out, nil
}

func (p *Parser) parseAndOr() (*Stmt, error) {
	left, err := p.parsePipelineStmt()
	if err != nil {
		return nil, err
	}
	for p.at(land) || p.at(lor) {
		isAnd := p.at(land)
		off := p.cur().Offset
		p.advance()
		p.skipNewlines()
		right, err := p.parsePipelineStmt()
		if err != nil {
			return nil, err
		}
		if isAnd {
			left = &Stmt{Offset: off, Cmd: &ListAnd{Offset: off, X: left, Y: right}}
		} else {
			left = &Stmt{Offset: off, Cmd: &ListOr{Offset: off, X: left, Y: right}}
		}
	}
	return left, nil
}

func (p *Parser) parsePipelineStmt() (*Stmt, error) {
	off := p.cur().Offset
	negated := false
	if p.at(bang) {
		negated = true
		p.advance()
	}
	first, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	stages := []*Stmt{first}
	var stderrTo []bool
	for p.at(or) || p.at(pipeAll) {
		isErr := p.at(pipeAll)
		p.advance()
		p.skipNewlines()
		next, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		stages = append(stages, next)
		stderrTo = append(stderrTo, isErr)
	}
	if len(stages) == 1 && !negated {
		return stages[0], nil
	}
	return &Stmt{Offset: off, Cmd: &Pipeline{Offset: off, Negated: negated, Stages: stages, StderrTo: stderrTo}}, nil
}

func isRedirStart(k Token) bool {
	switch k {
	case less, great, shl, dheredoc, wheredoc, shr, dplin, dplout, clbout, rdrall, appall:
		return true
	}
	return false
}

// parseCommand parses one simple or compound command, including its
// leading assignments/redirections and, for compound forms, any
// trailing redirections.
func (p *Parser) parseCommand() (*Stmt, error) {
	off := p.cur().Offset
	var assigns []*Assign
	var redirs []*Redirect
	for {
		if p.at(assignWord) {
			a, err := p.parseAssignTok()
			if err != nil {
				return nil, err
			}
			assigns = append(assigns, a)
			continue
		}
		if isRedirStart(p.cur().Kind) {
			r, err := p.parseRedirect()
			if err != nil {
				return nil, err
			}
			redirs = append(redirs, r)
			continue
		}
		break
	}

	var cmd Command
	switch p.cur().Kind {
	case keywordIf:
		c, err := p.parseIf()
		if err != nil {
			return nil, err
		}
		cmd = c
	case keywordFor:
		c, err := p.parseFor()
		if err != nil {
			return nil, err
		}
		cmd = c
	case keywordWhile, keywordUntil:
		c, err := p.parseWhile()
		if err != nil {
			return nil, err
		}
		cmd = c
	case keywordCase:
		c, err := p.parseCase()
		if err != nil {
			return nil, err
		}
		cmd = c
	case keywordFunction:
		c, err := p.parseFuncDeclKw()
		if err != nil {
			return nil, err
		}
		cmd = c
	case keywordTime:
		p.advance()
		if p.at(word) && p.cur().Value == "-p" {
			p.advance()
		}
		return p.parseCommand()
	case dlbrack:
		c, err := p.parseTestClause()
		if err != nil {
			return nil, err
		}
		cmd = c
	case dlparen:
		c, err := p.parseArithCmd()
		if err != nil {
			return nil, err
		}
		cmd = c
	case lparen:
		c, err := p.parseSubshell()
		if err != nil {
			return nil, err
		}
		cmd = c
	case lbrace:
		c, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		cmd = c
	case word, ident:
		if p.looksLikeFuncDeclShorthand() {
			c, err := p.parseFuncDeclShorthand()
			if err != nil {
				return nil, err
			}
			cmd = c
			break
		}
		return p.parseSimple(assigns, redirs, off)
	default:
		if len(assigns) > 0 || len(redirs) > 0 {
			return &Stmt{Offset: off, Cmd: &CallExpr{Offset: off, Assigns: assigns, Redirs: redirs}}, nil
		}
		return nil, p.unexpected("command")
	}

	var trailing []*Redirect
	for isRedirStart(p.cur().Kind) {
		r, err := p.parseRedirect()
		if err != nil {
			return nil, err
		}
		trailing = append(trailing, r)
	}
	return &Stmt{Offset: off, Cmd: cmd, Redirs: trailing}, nil
}

func (p *Parser) looksLikeFuncDeclShorthand() bool {
	if !p.at(word) {
		return false
	}
	return p.i+2 < len(p.toks) && p.toks[p.i+1].Kind == lparen && p.toks[p.i+2].Kind == rparen
}

func (p *Parser) parseFuncDeclShorthand() (*FuncDecl, error) {
	off := p.cur().Offset
	name := p.advance().Value
	p.advance() // (
	p.advance() // )
	p.skipNewlines()
	body, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{Offset: off, Name: name, Body: body}, nil
}

func (p *Parser) parseFuncDeclKw() (*FuncDecl, error) {
	off := p.cur().Offset
	p.advance() // 'function'
	if !p.at(word) {
		return nil, p.unexpected("function name")
	}
	name := p.advance().Value
	if p.at(lparen) {
		p.advance()
		if _, err := p.expect(rparen); err != nil {
			return nil, err
		}
	}
	p.skipNewlines()
	body, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	return &FuncDecl{Offset: off, Name: name, Body: body}, nil
}

func (p *Parser) parseAssignTok() (*Assign, error) {
	t := p.advance()
	off := t.Offset
	eq := strings.IndexByte(t.Value, '=')
	name := t.Value[:eq]
	appendVal := false
	if strings.HasSuffix(name, "+") {
		appendVal = true
		name = name[:len(name)-1]
	}
	valRaw := t.Value[eq+1:]
	val, err := parseWordText(valRaw, off+Pos(eq+1))
	if err != nil {
		return nil, err
	}
	return &Assign{Offset: off, Name: name, Append: appendVal, Value: val}, nil
}

func (p *Parser) parseRedirect() (*Redirect, error) {
	off := p.cur().Offset
	fd := -1
	if p.i > 0 {
		prev := p.toks[p.i-1]
		if prev.Kind == word && allDigits(prev.Value) && !p.cur().Spaced {
			fd = atoiSimple(prev.Value)
		}
	}
	opTok := p.advance()
	op := redirOpFor(opTok.Kind)
	r := &Redirect{Offset: off, Op: op, Fd: fd}
	switch opTok.Kind {
	case shl, dheredoc:
		if !p.at(word) {
			return nil, p.unexpected("here-document delimiter")
		}
		p.advance() // delimiter word
		if !p.at(heredocBody) {
			return nil, p.unexpected("here-document body")
		}
		body := p.advance()
		r.Hdoc = body.Value
		if frags, err := parseDquoteBody(body.Value, body.Offset); err == nil {
			r.HdocFragments = frags
		}
	default:
		if !p.at(word) {
			return nil, p.unexpected("redirection target")
		}
		t := p.advance()
		w, err := parseWordText(t.Value, t.Offset)
		if err != nil {
			return nil, err
		}
		r.Target = w
	}
	return r, nil
}

func redirOpFor(k Token) RedirOp {
	switch k {
	case less:
		return RedirIn
	case great:
		return RedirOut
	case shr:
		return RedirAppend
	case clbout:
		return RedirClobber
	case dplin:
		return RedirDupIn
	case dplout:
		return RedirDupOut
	case rdrall:
		return RedirAll
	case appall:
		return RedirAllAppend
	case shl:
		return RedirHeredoc
	case dheredoc:
		return RedirHeredocTabs
	case wheredoc:
		return RedirHereString
	}
	return RedirNone
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoiSimple(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// parseSimple parses the words of a simple command, folding any
// trailing fd-number word into the redirect that follows it.
func (p *Parser) parseSimple(assigns []*Assign, redirs []*Redirect, off Pos) (*Stmt, error) {
	var words []*Word
	for {
		if p.at(word) {
			if allDigits(p.cur().Value) && p.i+1 < len(p.toks) && isRedirStart(p.toks[p.i+1].Kind) && !p.toks[p.i+1].Spaced {
				r, err := p.parseRedirect()
				if err != nil {
					return nil, err
				}
				redirs = append(redirs, r)
				continue
			}
			t := p.advance()
			w, err := parseWordText(t.Value, t.Offset)
			if err != nil {
				return nil, err
			}
			words = append(words, w)
			continue
		}
		if p.at(assignWord) {
			if len(words) == 0 {
				a, err := p.parseAssignTok()
				if err != nil {
					return nil, err
				}
				assigns = append(assigns, a)
				continue
			}
			t := p.advance()
			w, err := parseWordText(t.Value, t.Offset)
			if err != nil {
				return nil, err
			}
			words = append(words, w)
			continue
		}
		if isRedirStart(p.cur().Kind) {
			r, err := p.parseRedirect()
			if err != nil {
				return nil, err
			}
			redirs = append(redirs, r)
			continue
		}
		break
	}
	return &Stmt{Offset: off, Cmd: &CallExpr{Offset: off, Assigns: assigns, Words: words, Redirs: redirs}}, nil
}

func (p *Parser) parseIf() (*IfClause, error) {
	off := p.cur().Offset
	ic := &IfClause{Offset: off}
	for {
		p.advance() // 'if' or 'elif'
		cond, err := p.parseStmtList(termSet(keywordThen))
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(keywordThen); err != nil {
			return nil, err
		}
		body, err := p.parseStmtList(termSet(keywordElif, keywordElse, keywordFi))
		if err != nil {
			return nil, err
		}
		ic.Branches = append(ic.Branches, IfBranch{Cond: cond, Body: body})
		if p.at(keywordElif) {
			continue
		}
		break
	}
	if p.at(keywordElse) {
		p.advance()
		body, err := p.parseStmtList(termSet(keywordFi))
		if err != nil {
			return nil, err
		}
		ic.Else = body
	}
	if _, err := p.expect(keywordFi); err != nil {
		return nil, err
	}
	return ic, nil
}

func (p *Parser) parseWhile() (*WhileClause, error) {
	off := p.cur().Offset
	until := p.at(keywordUntil)
	p.advance()
	cond, err := p.parseStmtList(termSet(keywordDo))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(keywordDo); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(termSet(keywordDone))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(keywordDone); err != nil {
		return nil, err
	}
	return &WhileClause{Offset: off, Until: until, Cond: cond, Body: body}, nil
}

func (p *Parser) parseFor() (Command, error) {
	off := p.cur().Offset
	p.advance() // 'for'
	if p.at(dlparen) {
		return p.parseForArith(off)
	}
	if !p.at(word) && !p.at(ident) {
		return nil, p.unexpected("loop variable name")
	}
	name := p.advance().Value
	if !ValidName(name) {
		return nil, &ParseError{Offset: off, Kind: ParseUnexpected, Msg: "invalid for-loop variable name " + name}
	}
	var items []*Word
	p.skipSeparators()
	if p.at(keywordIn) {
		p.advance()
		for p.at(word) || p.at(assignWord) {
			t := p.advance()
			w, err := parseWordText(t.Value, t.Offset)
			if err != nil {
				return nil, err
			}
			items = append(items, w)
		}
	}
	p.skipSeparators()
	if _, err := p.expect(keywordDo); err != nil {
		return nil, err
	}
	body, err := p.parseStmtList(termSet(keywordDone))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(keywordDone); err != nil {
		return nil, err
	}
	return &ForClause{Offset: off, Name: name, Items: items, Body: body}, nil
}

func (p *Parser) parseForArith(off Pos) (Command, error) {
	p.advance() // '(('
	init, cond, post, err := p.parseArithHeader()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(drparen); err != nil {
		return nil, err
	}
	p.skipSeparators()
	if p.at(keywordDo) {
		p.advance()
	} else {
		return nil, p.unexpected("'do'")
	}
	body, err := p.parseStmtList(termSet(keywordDone))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(keywordDone); err != nil {
		return nil, err
	}
	return &ForArithClause{Offset: off, Init: init, Cond: cond, Post: post, Body: body}, nil
}

// parseArithHeader parses the `init; cond; post` clause of a C-style
// for loop by re-joining the raw token text up to the matching "))"
// and splitting it on the two top-level semicolons.
func (p *Parser) parseArithHeader() (init, cond, post ArithExpr, err error) {
	raw, base, err := p.collectUntilDrparen()
	if err != nil {
		return nil, nil, nil, err
	}
	parts, err := splitArithClauses(raw)
	if err != nil {
		return nil, nil, nil, err
	}
	parse := func(s string) (ArithExpr, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		return ParseArith(s, base)
	}
	if init, err = parse(parts[0]); err != nil {
		return nil, nil, nil, err
	}
	if cond, err = parse(parts[1]); err != nil {
		return nil, nil, nil, err
	}
	if post, err = parse(parts[2]); err != nil {
		return nil, nil, nil, err
	}
	return init, cond, post, nil
}

// collectUntilDrparen re-renders the raw source up to the matching
// "))" by joining token text with single spaces; arithmetic parsing
// ignores incidental spacing, so this reconstruction is lossless for
// that grammar's purposes.
func (p *Parser) collectUntilDrparen() (string, Pos, error) {
	base := p.cur().Offset
	var b strings.Builder
	depth := 0
	for {
		if p.at(eof) {
			return "", base, &ParseError{Offset: base, Kind: ParseMissingTerminator, Msg: "missing '))'"}
		}
		if p.at(drparen) && depth == 0 {
			break
		}
		if p.at(lparen) {
			depth++
		}
		if p.at(rparen) {
			depth--
		}
		t := p.advance()
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.Value)
	}
	return b.String(), base, nil
}

func splitArithClauses(s string) ([3]string, error) {
	var out [3]string
	depth := 0
	idx := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ';':
			if depth == 0 {
				if idx >= 2 {
					return out, &ParseError{Kind: ParseUnexpected, Msg: "too many ';' in for((;;))"}
				}
				out[idx] = s[start:i]
				idx++
				start = i + 1
			}
		}
	}
	if idx != 2 {
		return out, &ParseError{Kind: ParseUnexpected, Msg: "expected two ';' in for((;;))"}
	}
	out[2] = s[start:]
	return out, nil
}

func (p *Parser) parseCase() (*CaseClause, error) {
	off := p.cur().Offset
	p.advance() // 'case'
	if !p.at(word) {
		return nil, p.unexpected("case word")
	}
	wt := p.advance()
	w, err := parseWordText(wt.Value, wt.Offset)
	if err != nil {
		return nil, err
	}
	p.skipSeparators()
	if _, err := p.expect(keywordIn); err != nil {
		return nil, err
	}
	p.skipSeparators()
	cc := &CaseClause{Offset: off, Word: w}
	for !p.at(keywordEsac) && !p.at(eof) {
		if p.at(lparen) {
			p.advance()
		}
		var pats []*Word
		for {
			if !p.at(word) {
				return nil, p.unexpected("case pattern")
			}
			pt := p.advance()
			pw, err := parseWordText(pt.Value, pt.Offset)
			if err != nil {
				return nil, err
			}
			pats = append(pats, pw)
			if p.at(or) {
				p.advance()
				continue
			}
			break
		}
		if _, err := p.expect(rparen); err != nil {
			return nil, err
		}
		p.skipSeparators()
		body, err := p.parseStmtList(termSet(dsemicolon, semifall, dsemifall, keywordEsac))
		if err != nil {
			return nil, err
		}
		term := CaseBreak
		switch p.cur().Kind {
		case dsemicolon:
			p.advance()
		case semifall:
			term = CaseFallThru
			p.advance()
		case dsemifall:
			term = CaseContinue
			p.advance()
		}
		cc.Arms = append(cc.Arms, CaseArm{Patterns: pats, Body: body, Term: term})
		p.skipSeparators()
	}
	if _, err := p.expect(keywordEsac); err != nil {
		return nil, err
	}
	return cc, nil
}

func (p *Parser) parseSubshell() (*Subshell, error) {
	off := p.cur().Offset
	p.advance() // '('
	body, err := p.parseStmtList(termSet(rparen))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(rparen); err != nil {
		return nil, err
	}
	return &Subshell{Offset: off, Stmts: body}, nil
}

func (p *Parser) parseBlock() (*Block, error) {
	off := p.cur().Offset
	p.advance() // '{'
	body, err := p.parseStmtList(termSet(rbrace))
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(rbrace); err != nil {
		return nil, err
	}
	return &Block{Offset: off, Stmts: body}, nil
}

func (p *Parser) parseArithCmd() (*ArithCmd, error) {
	off := p.cur().Offset
	p.advance() // '(('
	raw, base, err := p.collectUntilDrparen()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(drparen); err != nil {
		return nil, err
	}
	x, err := ParseArith(raw, base)
	if err != nil {
		return nil, err
	}
	return &ArithCmd{Offset: off, X: x}, nil
}
