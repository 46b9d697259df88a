// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import "strings"

// parseParamExpansion parses the raw text inside ${...} (braces
// already stripped) into a ParamExpansion, covering the operator table
// in spec §4.3/§4.4.
func parseParamExpansion(raw string, base Pos) (ParamExpansion, error) {
	if raw == "" {
		return ParamExpansion{}, &ParseError{Offset: base, Kind: ParseUnexpected, Msg: "empty parameter expansion"}
	}
	if raw[0] == '#' && raw != "#" && !isSpecialParam(raw[1]) {
		// ${#name} length, as long as it isn't the ${#} special param
		// (handled below by the general name scan since '#' alone is a
		// valid special parameter name).
		name, rest := scanParamName(raw[1:])
		if rest == "" {
			return ParamExpansion{Name: name, Kind: ParamLength}, nil
		}
	}
	if raw[0] == '!' {
		name, rest := scanParamName(raw[1:])
		if name != "" {
			arg, argBase, op, withColon, hasOp := splitParamOp(rest, base+Pos(len(raw)-len(rest)))
			if !hasOp {
				return ParamExpansion{Name: name, Kind: ParamIndirect}, nil
			}
			_ = op
			_ = withColon
			w, err := parseWordText(arg, argBase)
			if err != nil {
				return ParamExpansion{}, err
			}
			return ParamExpansion{Name: name, Kind: ParamIndirect, Arg: w}, nil
		}
	}

	name, rest := scanParamName(raw)
	if name == "" {
		return ParamExpansion{}, &ParseError{Offset: base, Kind: ParseUnexpected, Msg: "invalid parameter name in expansion"}
	}
	if rest == "" {
		return ParamExpansion{Name: name, Kind: ParamPlain}, nil
	}
	restBase := base + Pos(len(raw)-len(rest))

	// substring: ${name:offset[:length]}
	if rest[0] == ':' && len(rest) > 1 && rest[1] != '-' && rest[1] != '=' && rest[1] != '?' && rest[1] != '+' {
		body := rest[1:]
		off, length, err := splitSubstring(body, restBase+1)
		if err != nil {
			return ParamExpansion{}, err
		}
		return ParamExpansion{Name: name, Kind: ParamSubstring, Offset: off, Length: length}, nil
	}

	switch {
	case strings.HasPrefix(rest, ":-"):
		w, err := wordOrNil(rest[2:], restBase+2)
		return ParamExpansion{Name: name, Kind: ParamDefault, WithColon: true, Arg: w}, err
	case strings.HasPrefix(rest, "-"):
		w, err := wordOrNil(rest[1:], restBase+1)
		return ParamExpansion{Name: name, Kind: ParamDefault, Arg: w}, err
	case strings.HasPrefix(rest, ":="):
		w, err := wordOrNil(rest[2:], restBase+2)
		return ParamExpansion{Name: name, Kind: ParamAssignDefault, WithColon: true, Arg: w}, err
	case strings.HasPrefix(rest, "="):
		w, err := wordOrNil(rest[1:], restBase+1)
		return ParamExpansion{Name: name, Kind: ParamAssignDefault, Arg: w}, err
	case strings.HasPrefix(rest, ":?"):
		w, err := wordOrNil(rest[2:], restBase+2)
		return ParamExpansion{Name: name, Kind: ParamErrorIfUnset, WithColon: true, Arg: w}, err
	case strings.HasPrefix(rest, "?"):
		w, err := wordOrNil(rest[1:], restBase+1)
		return ParamExpansion{Name: name, Kind: ParamErrorIfUnset, Arg: w}, err
	case strings.HasPrefix(rest, ":+"):
		w, err := wordOrNil(rest[2:], restBase+2)
		return ParamExpansion{Name: name, Kind: ParamAlternateValue, WithColon: true, Arg: w}, err
	case strings.HasPrefix(rest, "+"):
		w, err := wordOrNil(rest[1:], restBase+1)
		return ParamExpansion{Name: name, Kind: ParamAlternateValue, Arg: w}, err
	case strings.HasPrefix(rest, "##"):
		w, err := wordOrNil(rest[2:], restBase+2)
		return ParamExpansion{Name: name, Kind: ParamStripPrefixLong, Pattern: w}, err
	case strings.HasPrefix(rest, "#"):
		w, err := wordOrNil(rest[1:], restBase+1)
		return ParamExpansion{Name: name, Kind: ParamStripPrefixShort, Pattern: w}, err
	case strings.HasPrefix(rest, "%%"):
		w, err := wordOrNil(rest[2:], restBase+2)
		return ParamExpansion{Name: name, Kind: ParamStripSuffixLong, Pattern: w}, err
	case strings.HasPrefix(rest, "%"):
		w, err := wordOrNil(rest[1:], restBase+1)
		return ParamExpansion{Name: name, Kind: ParamStripSuffixShort, Pattern: w}, err
	case strings.HasPrefix(rest, "^^"):
		return ParamExpansion{Name: name, Kind: ParamUpperAll}, nil
	case strings.HasPrefix(rest, "^"):
		return ParamExpansion{Name: name, Kind: ParamUpperFirst}, nil
	case strings.HasPrefix(rest, ",,"):
		return ParamExpansion{Name: name, Kind: ParamLowerAll}, nil
	case strings.HasPrefix(rest, ","):
		return ParamExpansion{Name: name, Kind: ParamLowerFirst}, nil
	case strings.HasPrefix(rest, "@"):
		return ParamExpansion{Name: name, Kind: ParamQuotedExpansion}, nil
	case rest[0] == '/':
		return parseSubstituteOp(name, rest, restBase)
	}
	return ParamExpansion{}, Unsupported(restBase, "parameter expansion operator '"+rest+"'")
}

func wordOrNil(s string, base Pos) (*Word, error) {
	if s == "" {
		return &Word{Offset: base}, nil
	}
	return parseWordText(s, base)
}

// scanParamName reads a leading name (plain identifier, special
// parameter, or positional digits) off raw and returns it plus the
// remaining text.
func scanParamName(raw string) (name, rest string) {
	if raw == "" {
		return "", ""
	}
	if isSpecialParam(raw[0]) && !('0' <= raw[0] && raw[0] <= '9') {
		return raw[:1], raw[1:]
	}
	i := 0
	for i < len(raw) && raw[i] >= '0' && raw[i] <= '9' {
		i++
	}
	if i > 0 {
		return raw[:i], raw[i:]
	}
	if !isIdentByte(raw[0], true) {
		return "", raw
	}
	i = 1
	for i < len(raw) && isIdentByte(raw[i], false) {
		i++
	}
	// array subscript ${name[expr]} is treated as part of the name, so
	// later operators still parse correctly against what follows it.
	if i < len(raw) && raw[i] == '[' {
		depth := 0
		j := i
		for j < len(raw) {
			if raw[j] == '[' {
				depth++
			} else if raw[j] == ']' {
				depth--
				if depth == 0 {
					j++
					break
				}
			}
			j++
		}
		i = j
	}
	return raw[:i], raw[i:]
}

// splitParamOp is used only by the ${!name...} indirect-expansion form
// to detect whether an operator follows the name.
func splitParamOp(rest string, base Pos) (arg string, argBase Pos, op string, withColon bool, hasOp bool) {
	if rest == "" {
		return "", base, "", false, false
	}
	return rest, base, rest, false, true
}

func splitSubstring(body string, base Pos) (ArithExpr, ArithExpr, error) {
	depth := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case ':':
			if depth == 0 {
				offExpr, err := ParseArith(body[:i], base)
				if err != nil {
					return nil, nil, err
				}
				lenExpr, err := ParseArith(body[i+1:], base+Pos(i+1))
				if err != nil {
					return nil, nil, err
				}
				return offExpr, lenExpr, nil
			}
		}
	}
	offExpr, err := ParseArith(body, base)
	if err != nil {
		return nil, nil, err
	}
	return offExpr, nil, nil
}

// parseSubstituteOp handles ${name/pat/rep}, ${name//pat/rep},
// ${name/#pat/rep} and ${name/%pat/rep}.
func parseSubstituteOp(name, rest string, base Pos) (ParamExpansion, error) {
	body := rest[1:]
	kind := ParamSubstituteFirst
	if strings.HasPrefix(body, "/") {
		kind = ParamSubstituteAll
		body = body[1:]
	} else if strings.HasPrefix(body, "#") {
		kind = ParamSubstitutePrefix
		body = body[1:]
	} else if strings.HasPrefix(body, "%") {
		kind = ParamSubstituteSuffix
		body = body[1:]
	}
	pat, rep, hasRep := splitUnescapedSlash(body)
	patW, err := wordOrNil(pat, base+1)
	if err != nil {
		return ParamExpansion{}, err
	}
	pe := ParamExpansion{Name: name, Kind: kind, Pattern: patW}
	if hasRep {
		repW, err := wordOrNil(rep, base+Pos(len(pat))+2)
		if err != nil {
			return ParamExpansion{}, err
		}
		pe.Replace = repW
	}
	return pe, nil
}

func splitUnescapedSlash(s string) (before, after string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			continue
		}
		if s[i] == '/' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}
