package daemon

import (
	"bufio"
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestWriteReadFrameRoundTrip(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(writeFrame(&buf, frameStdout, []byte("hello")), qt.IsNil)
	c.Assert(writeFrame(&buf, frameDelta, nil), qt.IsNil)

	br := bufio.NewReader(&buf)
	kind, payload, err := readFrame(br)
	c.Assert(err, qt.IsNil)
	c.Assert(kind, qt.Equals, frameStdout)
	c.Assert(string(payload), qt.Equals, "hello")

	kind, payload, err = readFrame(br)
	c.Assert(err, qt.IsNil)
	c.Assert(kind, qt.Equals, frameDelta)
	c.Assert(len(payload), qt.Equals, 0)
}

func TestReadFrameDetectsTrailerMismatch(t *testing.T) {
	c := qt.New(t)
	var buf bytes.Buffer
	c.Assert(writeFrame(&buf, frameStdout, []byte("x")), qt.IsNil)
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xff

	br := bufio.NewReader(bytes.NewReader(corrupted))
	_, _, err := readFrame(br)
	c.Assert(err, qt.Not(qt.IsNil))
}
