// Copyright (c) 2018, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

import (
	"strconv"
	"strings"
)

// ExpandBraces expands a BraceExpansion fragment's raw text (the
// `{...}` span including its braces) into the literal strings it
// denotes: a comma list (`{a,b,c}`) or a numeric/alpha range
// (`{1..5}`, `{1..10..2}`, `{a..e}`). Fish has no stride syntax of its
// own, so unlike the teacher's expand.Braces (which builds a lazy
// BraceExp node for the shell to walk at run time), this always
// produces the full literal slice up front; the Emitter splices it
// directly into the generated source (SPEC_FULL.md's brace-expansion
// supplement).
//
// ok is false when raw is malformed (unmatched braces, a broken range
// with mismatched start/end types); the Emitter then falls back to
// passing the original text through unexpanded, mirroring bash's own
// "malformed brace expansions are left alone" rule.
func ExpandBraces(raw string) (vals []string, ok bool) {
	if len(raw) < 2 || raw[0] != '{' || raw[len(raw)-1] != '}' {
		return nil, false
	}
	inner := raw[1 : len(raw)-1]
	items := splitBraceTopLevel(inner)
	if len(items) < 2 {
		return nil, false
	}
	if rng, rok := rangeExpand(items); rok {
		return rng, true
	}
	var out []string
	for _, it := range items {
		sub := expandNestedBraces(it)
		out = append(out, sub...)
	}
	return out, true
}

// expandNestedBraces recurses into any brace expansion nested inside
// one comma-separated element, e.g. "x{a,b}y".
func expandNestedBraces(s string) []string {
	start := -1
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			depth--
			if depth == 0 && start >= 0 {
				prefix := s[:start]
				suffix := s[i+1:]
				inner, ok := ExpandBraces(s[start : i+1])
				if !ok {
					return []string{s}
				}
				var out []string
				for _, v := range inner {
					for _, tail := range expandNestedBraces(suffix) {
						out = append(out, prefix+v+tail)
					}
				}
				return out
			}
		}
	}
	return []string{s}
}

// splitBraceTopLevel splits s on commas that are not nested inside an
// inner pair of braces.
func splitBraceTopLevel(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

// rangeExpand recognizes the two- or three-field `{start..end[..step]}`
// form. items must already be comma-split; a genuine range never
// contains a comma, so len(items) == 1 here means "no comma was
// found" and a ".." field split is attempted instead.
func rangeExpand(items []string) ([]string, bool) {
	if len(items) != 1 {
		return nil, false
	}
	fields := splitDotDot(items[0])
	if len(fields) < 2 || len(fields) > 3 {
		return nil, false
	}
	if n, ok := rangeNumeric(fields); ok {
		return n, true
	}
	return rangeAlpha(fields)
}

func splitDotDot(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i+1 < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '.':
			if depth == 0 && s[i+1] == '.' {
				out = append(out, s[start:i])
				start = i + 2
				i++
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func rangeNumeric(fields []string) ([]string, bool) {
	start, err1 := strconv.Atoi(fields[0])
	end, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		return nil, false
	}
	step := 1
	if len(fields) == 3 {
		s, err := strconv.Atoi(fields[2])
		if err != nil || s == 0 {
			return nil, false
		}
		step = s
	}
	width := 0
	if (strings.HasPrefix(fields[0], "0") && fields[0] != "0") ||
		(strings.HasPrefix(fields[0], "-0")) {
		width = len(strings.TrimPrefix(fields[0], "-"))
	}
	var out []string
	if start <= end {
		if step < 0 {
			step = -step
		}
		for v := start; v <= end; v += step {
			out = append(out, padInt(v, width))
		}
	} else {
		if step > 0 {
			step = -step
		}
		for v := start; v >= end; v += step {
			out = append(out, padInt(v, width))
		}
	}
	return out, true
}

func padInt(v, width int) string {
	s := strconv.Itoa(v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for len(s) < width {
		s = "0" + s
	}
	if neg {
		s = "-" + s
	}
	return s
}

func rangeAlpha(fields []string) ([]string, bool) {
	if len(fields[0]) != 1 || len(fields[1]) != 1 {
		return nil, false
	}
	start, end := fields[0][0], fields[1][0]
	isAlpha := func(b byte) bool { return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z') }
	if !isAlpha(start) || !isAlpha(end) {
		return nil, false
	}
	step := 1
	if len(fields) == 3 {
		s, err := strconv.Atoi(fields[2])
		if err != nil || s == 0 {
			return nil, false
		}
		step = s
	}
	var out []string
	if start <= end {
		if step < 0 {
			step = -step
		}
		for v := int(start); v <= int(end); v += step {
			out = append(out, string(rune(v)))
		}
	} else {
		if step > 0 {
			step = -step
		}
		for v := int(start); v >= int(end); v += step {
			out = append(out, string(rune(v)))
		}
	}
	return out, true
}
