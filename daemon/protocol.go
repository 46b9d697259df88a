// Package daemon implements the `daemon {start,stop,exec}` coprocess
// frontend (spec §6): a persistent bash process addressed over a
// Unix-domain socket, so repeated bash-exec calls from an interactive
// session avoid paying bash's startup cost on every command. The wire
// protocol's internals are deliberately simple — length-prefixed
// frames, each additionally closed with a sentinel trailer so a
// truncated read is detectable rather than silently mis-framed.
package daemon

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

// frameKind tags what a frame on the wire carries.
type frameKind byte

const (
	frameRequest frameKind = iota + 1
	frameStdout
	frameStderr
	frameDelta
	frameExit
	frameError
)

// frameTrailer closes every frame. Its presence after the declared
// length is what lets a reader notice a length that doesn't match
// what was actually written, rather than silently resyncing on noise.
var frameTrailer = [4]byte{0xf1, 0x53, 0x4e, 0x00}

// writeFrame writes one length-prefixed, sentinel-closed frame:
// [4-byte big-endian length][1-byte kind][payload][4-byte trailer].
func writeFrame(w io.Writer, kind frameKind, payload []byte) error {
	var hdr [5]byte
	binary.BigEndian.PutUint32(hdr[:4], uint32(len(payload)))
	hdr[4] = byte(kind)
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) > 0 {
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	_, err := w.Write(frameTrailer[:])
	return err
}

// readFrame reads one frame written by writeFrame.
func readFrame(r *bufio.Reader) (frameKind, []byte, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return 0, nil, err
	}
	n := binary.BigEndian.Uint32(hdr[:4])
	kind := frameKind(hdr[4])

	payload := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return 0, nil, err
		}
	}

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return 0, nil, err
	}
	if trailer != frameTrailer {
		return 0, nil, fmt.Errorf("daemon: frame trailer mismatch, stream desynced")
	}
	return kind, payload, nil
}
