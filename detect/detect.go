// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

// Package detect implements the fast, allocation-free "does this look
// like bash" pre-check (spec §4.1) that runs ahead of the full
// lexer/parser on every command the host shell is about to submit.
package detect

import "strings"

// cmdKeywords are recognized only at command position, the same
// position the Lexer's atCmdPos tracks (syntax/lexer.go).
var cmdKeywords = [...]string{"export ", "unset ", "declare ", "local ", "readonly "}

// operators are standalone byte sequences that never appear in plain
// fish input, so their mere presence (outside quotes/escapes) is
// sufficient.
var operators = [...]string{"$((", "$(", "<<<", "[[", "]]", "<(", ">(", "${", "`"}

// armKeywords close out a compound statement; their presence right
// after a `;` or a newline is a strong bash signal no fish construct
// produces.
var armKeywords = [...]string{"then", "do", "fi", "done", "esac"}

// LooksLikeBash is the spec's looks_like_bash(input). It runs a single
// forward pass over the bytes of input with a tiny state machine for
// single-quote and backslash-escape tracking, and does no heap
// allocation and no regexp matching: every check below is a
// strings.HasPrefix against an existing substring, which is a slice,
// not a copy.
//
// False positives are avoided by skipping occurrences entirely inside
// a single-quoted span or immediately following a backslash escape.
// False negatives are acceptable — the caller always still attempts a
// full parse when this returns false.
func LooksLikeBash(input string) bool {
	atCmdPos := true
	inSingleQuote := false

	for i := 0; i < len(input); i++ {
		b := input[i]

		if inSingleQuote {
			if b == '\'' {
				inSingleQuote = false
			}
			continue
		}
		if b == '\\' {
			i++ // the escaped byte, whatever it is, is never special
			continue
		}
		if b == '\'' {
			inSingleQuote = true
			continue
		}

		if atCmdPos {
			for _, kw := range cmdKeywords {
				if strings.HasPrefix(input[i:], kw) {
					return true
				}
			}
		}

		if strings.HasPrefix(input[i:], "for ((") {
			return true
		}
		for _, op := range operators {
			if strings.HasPrefix(input[i:], op) {
				return true
			}
		}

		if b == ';' || b == '\n' {
			if armFollows(input[i+1:], b == ';') {
				return true
			}
		}

		switch b {
		case ';', '&', '|', '\n', '(', '{':
			atCmdPos = true
		case ' ', '\t', '\r':
			// command position carries through blanks
		default:
			atCmdPos = false
		}
	}
	return false
}

// armFollows reports whether rest begins (after the single required
// space for the `;` case, or after any run of leading blanks for the
// newline case) with one of the case/if/for/while arm-terminating
// keywords, at a proper word boundary.
func armFollows(rest string, afterSemicolon bool) bool {
	if afterSemicolon {
		if len(rest) == 0 || rest[0] != ' ' {
			return false
		}
		rest = rest[1:]
	} else {
		rest = strings.TrimLeft(rest, " \t")
	}
	for _, kw := range armKeywords {
		if strings.HasPrefix(rest, kw) {
			tail := rest[len(kw):]
			if tail == "" || !isIdentByte(tail[0]) {
				return true
			}
		}
	}
	return false
}

func isIdentByte(b byte) bool {
	return b == '_' || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') || ('0' <= b && b <= '9')
}
