package daemon

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/isabellaaGrier/reef/bashexec"
)

// Server runs one persistent bash coprocess and serves `exec` requests
// over a Unix-domain socket (spec §6's `daemon {start,stop,exec}`).
// Per §5's concurrency model, a single background goroutine reads the
// coprocess's stdout and hands chunks to whichever exec call is
// currently running; execLocked enforces that only one command is
// in flight against the coprocess at a time. The reader goroutine and
// the connection-accept loop are both tracked in eg, so a failure in
// either surfaces through Wait instead of being silently dropped.
type Server struct {
	socketPath string
	ln         net.Listener
	cmd        *exec.Cmd
	stdin      io.WriteCloser

	chunks chan []byte
	eg     errgroup.Group

	mu            sync.Mutex
	lastEnv       map[string]string
	lastDir       string
	extraPathVars []string
}

// Start spawns the bash coprocess and begins listening on socketPath.
// Call Serve to accept connections and Stop to tear both down.
func Start(socketPath string, extraPathVars []string) (*Server, error) {
	_ = os.Remove(socketPath)
	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command("bash")
	stdin, err := cmd.StdinPipe()
	if err != nil {
		ln.Close()
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		ln.Close()
		return nil, err
	}
	cmd.Stderr = os.Stderr
	prepareCommand(cmd)
	if err := cmd.Start(); err != nil {
		ln.Close()
		return nil, err
	}

	s := &Server{
		socketPath:    socketPath,
		ln:            ln,
		cmd:           cmd,
		stdin:         stdin,
		chunks:        make(chan []byte, 16),
		extraPathVars: extraPathVars,
	}
	s.eg.Go(func() error { return s.readLoop(stdout) })

	// Seed lastEnv/lastDir with the coprocess's own starting state by
	// running a no-op through the exact same protocol every real exec
	// uses, so the first real command's delta excludes bash's own
	// startup variables (PWD, SHLVL's initial bump, ...).
	if err := s.execLocked(":", io.Discard); err != nil {
		s.Stop()
		return nil, err
	}
	return s, nil
}

func (s *Server) readLoop(r io.Reader) error {
	buf := make([]byte, 32*1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			s.chunks <- chunk
		}
		if err != nil {
			close(s.chunks)
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// Serve accepts connections until ctx is cancelled or the listener is
// closed by Stop, and joins the background reader goroutine's result.
func (s *Server) Serve(ctx context.Context) error {
	s.eg.Go(func() error {
		<-ctx.Done()
		s.ln.Close()
		return nil
	})
	s.eg.Go(func() error {
		for {
			conn, err := s.ln.Accept()
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			go s.handleConn(conn)
		}
	})
	return s.eg.Wait()
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()
	br := bufio.NewReader(conn)
	kind, payload, err := readFrame(br)
	if err != nil || kind != frameRequest {
		writeFrame(conn, frameError, []byte("expected a request frame"))
		return
	}
	if err := s.execLocked(string(payload), frameWriter{conn}); err != nil {
		writeFrame(conn, frameError, []byte(err.Error()))
	}
}

// frameWriter adapts a net.Conn into the onChunk callback shape,
// wrapping each chunk of the command's own stdout in a frameStdout.
type frameWriter struct{ w io.Writer }

func (f frameWriter) Write(p []byte) (int, error) {
	if err := writeFrame(f.w, frameStdout, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

const execEcVar = "__reef_daemon_ec"

// execLocked runs script through the persistent coprocess, streaming
// its stdout to out, then updates the server's last-known env/dir
// snapshot and writes a frameDelta and frameExit to out if out is a
// frameWriter. It serializes access to the coprocess: only one
// command runs against it at a time, matching §5's "protocol
// serializes one command at a time".
func (s *Server) execLocked(script string, out io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	full := "{ " + script + "\n}; export " + execEcVar + "=$?; printf '%s' \"" +
		sentinelToken + "\"; env -0; printf '%s' \"" + sentinelToken + "\"; pwd\n"
	if _, err := io.WriteString(s.stdin, full); err != nil {
		return err
	}

	sp := &sentinelSplitter{src: chanSource{ch: s.chunks}}

	if err := sp.segment(func(b []byte) { out.Write(b) }); err != nil {
		return err
	}

	var envBuf bytes.Buffer
	if err := sp.segment(func(b []byte) { envBuf.Write(b) }); err != nil {
		return err
	}

	var dirBuf bytes.Buffer
	if err := sp.segment(func(b []byte) { dirBuf.Write(b) }); err != nil {
		return err
	}

	afterEnv := bashexec.ParseEnvDump(envBuf.String())
	exitCode, _ := strconv.Atoi(afterEnv[execEcVar])
	delete(afterEnv, execEcVar)
	afterDir := strings.TrimSuffix(dirBuf.String(), "\n")

	delta := bashexec.DiffEnv(s.lastEnv, afterEnv, s.lastDir, afterDir, s.extraPathVars)
	s.lastEnv, s.lastDir = afterEnv, afterDir

	if fw, ok := out.(frameWriter); ok {
		writeFrame(fw.w, frameDelta, []byte(delta.Render()))
		writeFrame(fw.w, frameExit, []byte{byte(exitCode)})
	}
	return nil
}

// Stop kills the coprocess and removes the socket file.
func (s *Server) Stop() error {
	s.stdin.Close()
	err := killCommand(s.cmd)
	s.ln.Close()
	_ = os.Remove(s.socketPath)
	return err
}
