// Package fishgen is the Emitter (spec §4.4): it walks a parsed
// syntax.File and produces fish-shell source, or refuses with an
// UnsupportedError when no safe translation exists. No teacher
// package does this job directly — syntax/printer.go in the teacher
// repo re-prints bash as bash — but its per-node-kind dispatch shape
// (one function per AST node, shared word-printing helpers) carries
// over to a different target grammar.
package fishgen

import (
	"strconv"

	"github.com/isabellaaGrier/reef/syntax"
)

// UnsupportedError is the EmitError{UnsupportedConstruct} of spec §7:
// a construct the translation table (§4.4) explicitly refuses, or one
// the emitter cannot prove a safe rewrite for. Passthrough (§4.5)
// takes over whenever this is returned.
type UnsupportedError struct {
	Construct string
	Offset    syntax.Pos
}

func (e *UnsupportedError) Error() string {
	return "emit: unsupported: " + e.Construct + " at offset " + strconv.Itoa(int(e.Offset))
}

func unsupported(offset syntax.Pos, construct string) error {
	return &UnsupportedError{Construct: construct, Offset: offset}
}
