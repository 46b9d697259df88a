package bashexec

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSentinelWriterWholeChunk(t *testing.T) {
	c := qt.New(t)
	var out bytes.Buffer
	sw := &sentinelWriter{Out: &out}

	payload := "hello world\n" + sentinel + "FOO=bar\x00" + sentinel + "/tmp\n"
	n, err := sw.Write([]byte(payload))
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, len(payload))
	c.Assert(out.String(), qt.Equals, "hello world\n")
	c.Assert(sw.found, qt.Equals, true)
	c.Assert(sw.Captured.String(), qt.Equals, "FOO=bar\x00"+sentinel+"/tmp\n")
}

func TestSentinelWriterSplitAcrossWrites(t *testing.T) {
	c := qt.New(t)
	var out bytes.Buffer
	sw := &sentinelWriter{Out: &out}

	full := "output line\n" + sentinel + "X=1\x00"
	for i := 0; i < len(full); i++ {
		_, err := sw.Write([]byte{full[i]})
		c.Assert(err, qt.IsNil)
	}
	c.Assert(out.String(), qt.Equals, "output line\n")
	c.Assert(sw.Captured.String(), qt.Equals, "X=1\x00")
}

func TestSentinelWriterFlushWithoutMatch(t *testing.T) {
	c := qt.New(t)
	var out bytes.Buffer
	sw := &sentinelWriter{Out: &out}

	_, err := sw.Write([]byte("partial output, no sentinel here"))
	c.Assert(err, qt.IsNil)
	c.Assert(out.String(), qt.Not(qt.Equals), "partial output, no sentinel here")

	c.Assert(sw.Flush(), qt.IsNil)
	c.Assert(out.String(), qt.Equals, "partial output, no sentinel here")
}
