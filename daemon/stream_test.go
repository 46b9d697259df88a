package daemon

import (
	"io"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSentinelSplitterSegment(t *testing.T) {
	c := qt.New(t)
	ch := make(chan []byte, 4)
	ch <- []byte("hello " + sentinelToken + "world" + sentinelToken)
	close(ch)

	sp := &sentinelSplitter{src: chanSource{ch: ch}}

	var got []byte
	err := sp.segment(func(b []byte) { got = append(got, b...) })
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "hello ")

	got = nil
	err = sp.segment(func(b []byte) { got = append(got, b...) })
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "world")
}

func TestSentinelSplitterHandlesSplitTokens(t *testing.T) {
	c := qt.New(t)
	ch := make(chan []byte, 64)
	full := "abc" + sentinelToken + "def" + sentinelToken
	for i := 0; i < len(full); i++ {
		ch <- []byte{full[i]}
	}
	close(ch)

	sp := &sentinelSplitter{src: chanSource{ch: ch}}
	var got []byte
	c.Assert(sp.segment(func(b []byte) { got = append(got, b...) }), qt.IsNil)
	c.Assert(string(got), qt.Equals, "abc")

	got = nil
	c.Assert(sp.segment(func(b []byte) { got = append(got, b...) }), qt.IsNil)
	c.Assert(string(got), qt.Equals, "def")
}

func TestSentinelSplitterEOFWithoutSentinel(t *testing.T) {
	c := qt.New(t)
	ch := make(chan []byte, 1)
	ch <- []byte("no sentinel here")
	close(ch)

	sp := &sentinelSplitter{src: chanSource{ch: ch}}
	err := sp.segment(nil)
	c.Assert(err, qt.Equals, io.EOF)
}
