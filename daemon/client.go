package daemon

import (
	"bufio"
	"fmt"
	"io"
	"net"
)

// Client talks to a running Server over its Unix-domain socket.
type Client struct {
	socketPath string
}

// Dial returns a Client bound to socketPath. Dial itself doesn't
// connect; each Exec call opens and closes its own connection, since
// the protocol is one request per connection.
func Dial(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// ExecResult is what Exec reports back: the command's exit code and
// the env-delta script rendered from the coprocess's state change.
type ExecResult struct {
	ExitCode   int
	DeltaScript string
}

// Exec sends script to the daemon and streams its stdout to out,
// mirroring bash-exec's CLI contract (spec §6) but against a
// persistent coprocess instead of spawning a fresh bash.
func (c *Client) Exec(script string, out io.Writer) (*ExecResult, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("daemon: dialing %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	if err := writeFrame(conn, frameRequest, []byte(script)); err != nil {
		return nil, err
	}

	br := bufio.NewReader(conn)
	res := &ExecResult{}
	for {
		kind, payload, err := readFrame(br)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch kind {
		case frameStdout:
			if _, err := out.Write(payload); err != nil {
				return nil, err
			}
		case frameDelta:
			res.DeltaScript = string(payload)
		case frameExit:
			if len(payload) > 0 {
				res.ExitCode = int(payload[0])
			}
			return res, nil
		case frameError:
			return nil, fmt.Errorf("daemon: %s", payload)
		}
	}
	return res, nil
}
