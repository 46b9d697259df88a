package daemon

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestServeExecRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a real bash coprocess")
	}
	if _, err := exec.LookPath("bash"); err != nil {
		t.Skip("bash not found in PATH")
	}
	c := qt.New(t)

	sock := filepath.Join(t.TempDir(), "reef.sock")
	srv, err := Start(sock, nil)
	c.Assert(err, qt.IsNil)
	defer srv.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)
	time.Sleep(50 * time.Millisecond)

	client := Dial(sock)
	var out bytes.Buffer
	res, err := client.Exec("echo hi; export FOO=bar", &out)
	c.Assert(err, qt.IsNil)
	c.Assert(out.String(), qt.Equals, "hi\n")
	c.Assert(res.ExitCode, qt.Equals, 0)
	c.Assert(strings.Contains(res.DeltaScript, "set -gx FOO 'bar'"), qt.Equals, true)

	out.Reset()
	res, err = client.Exec("exit 3", &out)
	c.Assert(err, qt.IsNil)
	c.Assert(res.ExitCode, qt.Equals, 3)
}
