// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package syntax

// ParseErrorKind classifies why the Parser gave up (spec §7).
type ParseErrorKind int

const (
	ParseUnexpected ParseErrorKind = iota
	ParseMissingTerminator
	ParseUnsupported
)

// ParseError reports a parser failure. A ParseUnsupported error is not
// a grammar mistake — it names a construct the Parser recognized but
// that the rest of this module (by design) never translates; see
// Unsupported.
type ParseError struct {
	Offset Pos
	Kind   ParseErrorKind
	Msg    string
}

func (e *ParseError) Error() string {
	return "parse: " + e.Msg
}

// Unsupported marks a ParseError as describing a construct that is out
// of scope for translation (spec §4.3 "Failure policy": on any
// unrecoverable parse error, return Unsupported; the Emitter is never
// called on a failed parse).
func Unsupported(offset Pos, construct string) *ParseError {
	return &ParseError{Offset: offset, Kind: ParseUnsupported, Msg: "unsupported construct: " + construct}
}
