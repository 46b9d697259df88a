package daemon

import (
	"bytes"
	"io"
)

// sentinelToken delimits segments of the persistent coprocess's
// output. Unlike bashexec's one-shot sentinel (consumed once per
// process), this one has to be recognized repeatedly across the
// daemon's whole lifetime, once per command, so the splitter below is
// built to be read from in a loop rather than torn down after a match.
const sentinelToken = "\n__reef_daemon_boundary_51e9a3d0__\n"

// chunkSource is satisfied by the channel the background reader
// goroutine feeds raw bash-stdout bytes into.
type chunkSource interface {
	next() ([]byte, bool)
}

type chanSource struct{ ch <-chan []byte }

func (c chanSource) next() ([]byte, bool) {
	b, ok := <-c.ch
	return b, ok
}

// sentinelSplitter reads sentinelToken-delimited segments off a
// chunkSource one at a time. Bytes already known not to be part of an
// upcoming sentinel match are handed to the segment's onChunk callback
// as soon as they arrive, so a command's own stdout streams to its
// caller instead of waiting for the whole segment to buffer.
type sentinelSplitter struct {
	src     chunkSource
	pending []byte
}

func (s *sentinelSplitter) segment(onChunk func([]byte)) error {
	for {
		if idx := bytes.Index(s.pending, []byte(sentinelToken)); idx >= 0 {
			if onChunk != nil && idx > 0 {
				onChunk(s.pending[:idx])
			}
			s.pending = s.pending[idx+len(sentinelToken):]
			return nil
		}

		chunk, ok := s.src.next()
		if !ok {
			return io.EOF
		}
		s.pending = append(s.pending, chunk...)

		keep := len(sentinelToken) - 1
		if keep > len(s.pending) {
			keep = len(s.pending)
		}
		if flush := len(s.pending) - keep; flush > 0 {
			if onChunk != nil {
				onChunk(s.pending[:flush])
			}
			s.pending = s.pending[flush:]
		}
	}
}
