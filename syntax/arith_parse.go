package syntax

import "strings"

// arithParser is a small recursive-descent parser over the raw text
// inside $((...)), (( )), or a C-style for-loop clause. It is a
// separate grammar from the command language (spec §4.3: "$(( EXPR
// )): full C arithmetic grammar"), so it gets its own tokenizer rather
// than reusing the Lexer.
type arithParser struct {
	src  string
	pos  int
	base Pos
}

func newArithParser(src string, base Pos) *arithParser {
	return &arithParser{src: src, base: base}
}

// ParseArith parses a raw arithmetic expression string (the text
// between the parens of $((...)) or (( ))) into an ArithExpr.
func ParseArith(src string, base Pos) (ArithExpr, error) {
	p := newArithParser(src, base)
	p.skipSpace()
	x, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		if p.src[p.pos] == ',' {
			p.pos++
			_, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			return x, nil // comma operator: keep the last would be correct bash; we fold left for simplicity
		}
		return nil, p.errf("BadArith", "unexpected trailing input %q", p.src[p.pos:])
	}
	return x, nil
}

func (p *arithParser) errf(kind, format string, args ...any) error {
	return &LexError{Offset: p.base + Pos(p.pos), Kind: kind, Msg: sprintf(format, args...)}
}

func sprintf(format string, args ...any) string {
	// Minimal formatter to avoid importing fmt into the hot lexer path
	// for a single error-message use; %q and %s are all that's needed.
	var b strings.Builder
	ai := 0
	for i := 0; i < len(format); i++ {
		if format[i] == '%' && i+1 < len(format) {
			switch format[i+1] {
			case 'q':
				if s, ok := args[ai].(string); ok {
					b.WriteByte('"')
					b.WriteString(s)
					b.WriteByte('"')
				}
				ai++
				i++
				continue
			case 's':
				if s, ok := args[ai].(string); ok {
					b.WriteString(s)
				}
				ai++
				i++
				continue
			}
		}
		b.WriteByte(format[i])
	}
	return b.String()
}

func (p *arithParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *arithParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *arithParser) hasPrefix(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

var compoundAssignOps = []struct {
	lit string
	op  ArithOp
}{
	{"<<=", ArithShl}, {">>=", ArithShr},
	{"+=", ArithAdd}, {"-=", ArithSub}, {"*=", ArithMul}, {"/=", ArithQuo},
	{"%=", ArithRem}, {"&=", ArithBand}, {"|=", ArithBor}, {"^=", ArithBxor},
}

func (p *arithParser) parseAssign() (ArithExpr, error) {
	start := p.pos
	if name, ok := p.tryIdent(); ok {
		save := p.pos
		p.skipSpace()
		for _, ca := range compoundAssignOps {
			if p.hasPrefix(ca.lit) {
				p.pos += len(ca.lit)
				p.skipSpace()
				rhs, err := p.parseAssign()
				if err != nil {
					return nil, err
				}
				return &ArithAssign{Offset: p.base + Pos(start), Name: name, Op: ca.op, X: rhs}, nil
			}
		}
		if p.peek() == '=' && !p.hasPrefix("==") {
			p.pos++
			p.skipSpace()
			rhs, err := p.parseAssign()
			if err != nil {
				return nil, err
			}
			return &ArithAssign{Offset: p.base + Pos(start), Name: name, Plain: true, X: rhs}, nil
		}
		p.pos = save
	}
	p.pos = start
	return p.parseTernary()
}

func (p *arithParser) tryIdent() (string, bool) {
	start := p.pos
	if p.pos >= len(p.src) || !isIdentByte(p.src[p.pos], true) {
		return "", false
	}
	p.pos++
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos], false) {
		p.pos++
	}
	return p.src[start:p.pos], true
}

func (p *arithParser) parseTernary() (ArithExpr, error) {
	start := p.pos
	cond, err := p.parseBinary(1)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.peek() == '?' {
		p.pos++
		p.skipSpace()
		then, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			return nil, p.errf("BadArith", "expected ':' in ternary")
		}
		p.pos++
		p.skipSpace()
		els, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		return &ArithTernary{Offset: p.base + Pos(start), Cond: cond, Then: then, Else: els}, nil
	}
	return cond, nil
}

type binOpTok struct {
	lit string
	op  ArithOp
}

// binOps is checked longest-first so that e.g. "<<" isn't matched as
// two "<" tokens.
var binOps = []binOpTok{
	{"**", ArithPow},
	{"<<", ArithShl}, {">>", ArithShr},
	{"<=", ArithLeq}, {">=", ArithGeq},
	{"==", ArithEql}, {"!=", ArithNeq},
	{"&&", ArithLand}, {"||", ArithLor},
	{"<", ArithLss}, {">", ArithGtr},
	{"+", ArithAdd}, {"-", ArithSub},
	{"*", ArithMul}, {"/", ArithQuo}, {"%", ArithRem},
	{"&", ArithBand}, {"|", ArithBor}, {"^", ArithBxor},
}

func (p *arithParser) parseBinary(minPrec int) (ArithExpr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		p.skipSpace()
		op, lit, ok := p.matchBinOp()
		if !ok {
			return x, nil
		}
		prec := arithPrec(op)
		if prec < minPrec {
			return x, nil
		}
		start := p.pos
		p.pos += len(lit)
		p.skipSpace()
		y, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		x = &ArithBinary{Offset: p.base + Pos(start), Op: op, X: x, Y: y}
	}
}

func (p *arithParser) matchBinOp() (ArithOp, string, bool) {
	if p.peek() == '?' || p.peek() == ':' || p.peek() == ',' || p.peek() == ')' || p.pos >= len(p.src) {
		return 0, "", false
	}
	for _, b := range binOps {
		if p.hasPrefix(b.lit) {
			return b.op, b.lit, true
		}
	}
	return 0, "", false
}

func (p *arithParser) parseUnary() (ArithExpr, error) {
	p.skipSpace()
	start := p.pos
	switch {
	case p.hasPrefix("++"):
		p.pos += 2
		name, ok := p.tryIdent()
		if !ok {
			return nil, p.errf("BadArith", "expected identifier after ++")
		}
		return &ArithUnary{Offset: p.base + Pos(start), Op: ArithIncPre, X: &ArithVar{Offset: p.base + Pos(start), Name: name}}, nil
	case p.hasPrefix("--"):
		p.pos += 2
		name, ok := p.tryIdent()
		if !ok {
			return nil, p.errf("BadArith", "expected identifier after --")
		}
		return &ArithUnary{Offset: p.base + Pos(start), Op: ArithDecPre, X: &ArithVar{Offset: p.base + Pos(start), Name: name}}, nil
	case p.peek() == '!':
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ArithUnary{Offset: p.base + Pos(start), Op: ArithNot, X: x}, nil
	case p.peek() == '~':
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ArithUnary{Offset: p.base + Pos(start), Op: ArithBnot, X: x}, nil
	case p.peek() == '-':
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ArithUnary{Offset: p.base + Pos(start), Op: ArithNeg, X: x}, nil
	case p.peek() == '+':
		p.pos++
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ArithUnary{Offset: p.base + Pos(start), Op: ArithPos, X: x}, nil
	}
	return p.parsePostfix()
}

func (p *arithParser) parsePostfix() (ArithExpr, error) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	start := p.pos
	if p.hasPrefix("++") {
		p.pos += 2
		return &ArithUnary{Offset: p.base + Pos(start), Op: ArithIncPost, X: x}, nil
	}
	if p.hasPrefix("--") {
		p.pos += 2
		return &ArithUnary{Offset: p.base + Pos(start), Op: ArithDecPost, X: x}, nil
	}
	return x, nil
}

func (p *arithParser) parsePrimary() (ArithExpr, error) {
	p.skipSpace()
	start := p.pos
	if p.pos >= len(p.src) {
		return nil, p.errf("BadArith", "unexpected end of expression")
	}
	if p.peek() == '(' {
		p.pos++
		x, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ')' {
			return nil, p.errf("BadArith", "expected ')'")
		}
		p.pos++
		return &ArithGroup{Offset: p.base + Pos(start), X: x}, nil
	}
	if isDigit(p.peek()) {
		for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || isHexOrOctExtra(p.src, p.pos)) {
			p.pos++
		}
		lit := p.src[start:p.pos]
		n, ok := parseIntLit(lit)
		if !ok {
			return nil, p.errf("BadArith", "invalid number %q", lit)
		}
		return &ArithLit{Offset: p.base + Pos(start), Value: n}, nil
	}
	if name, ok := p.tryIdent(); ok {
		return &ArithVar{Offset: p.base + Pos(start), Name: name}, nil
	}
	if p.peek() == '$' {
		// $name inside arithmetic is equivalent to bare name.
		p.pos++
		if name, ok := p.tryIdent(); ok {
			return &ArithVar{Offset: p.base + Pos(start), Name: name}, nil
		}
	}
	return nil, p.errf("BadArith", "unexpected character %q", string(p.peek()))
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// isHexOrOctExtra allows 0x.. and digit runs to be scanned as one
// literal without a full hex-digit table; good enough for the
// constant-folding use case this grammar serves.
func isHexOrOctExtra(src string, i int) bool {
	b := src[i]
	return b == 'x' || b == 'X' ||
		(b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
