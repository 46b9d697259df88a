package bashexec

import "bytes"

// sentinel marks the boundary between a command's own stdout and the
// structured "after" snapshot (env -0 dump + cwd) appended to the
// script that runs it. It deliberately contains no NUL byte, since
// `env -0` output is NUL-separated and a NUL inside the sentinel would
// make it ambiguous with that data.
const sentinel = "\n__reef_bashexec_boundary_93f2c1a7__\n"

// sentinelWriter forwards bytes to Out unchanged until it has seen a
// full occurrence of sentinel in the stream; every byte after it is
// instead appended to Captured (the sentinel itself is consumed, not
// kept). This lets a command's own stdout reach the user live,
// streaming, while the trailing snapshot payload the script appends
// after the sentinel is recovered separately for parsing.
//
// Write may be called with a sentinel split across multiple calls, so
// unmatched bytes that could be a prefix of sentinel are held back in
// pending rather than forwarded immediately.
type sentinelWriter struct {
	Out      writer
	Captured bytes.Buffer

	pending []byte
	found   bool
}

type writer interface {
	Write(p []byte) (int, error)
}

func (w *sentinelWriter) Write(p []byte) (int, error) {
	n := len(p)
	if w.found {
		w.Captured.Write(p)
		return n, nil
	}

	w.pending = append(w.pending, p...)
	if idx := bytes.Index(w.pending, []byte(sentinel)); idx >= 0 {
		if _, err := w.Out.Write(w.pending[:idx]); err != nil {
			return 0, err
		}
		w.Captured.Write(w.pending[idx+len(sentinel):])
		w.pending = nil
		w.found = true
		return n, nil
	}

	// Keep only a suffix that could still grow into a sentinel match;
	// everything before that is safe to flush now.
	keep := len(sentinel) - 1
	if keep > len(w.pending) {
		keep = len(w.pending)
	}
	flush := len(w.pending) - keep
	if flush > 0 {
		if _, err := w.Out.Write(w.pending[:flush]); err != nil {
			return 0, err
		}
		w.pending = w.pending[flush:]
	}
	return n, nil
}

// Flush forwards any bytes still held back because they could have
// been a partial sentinel match, for use once the subprocess exits
// without ever emitting the full sentinel (the case where the script
// never reached its snapshot tail, e.g. the command was killed).
func (w *sentinelWriter) Flush() error {
	if w.found || len(w.pending) == 0 {
		return nil
	}
	_, err := w.Out.Write(w.pending)
	w.pending = nil
	return err
}
