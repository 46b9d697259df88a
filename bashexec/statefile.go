package bashexec

import (
	"context"
	"fmt"
	"os"

	maybeio "github.com/google/renameio/v2/maybe"
)

// RunWithStateFile is the state-file variant (spec §4.5): statePath
// holds an `env -0` snapshot from a previous invocation. It is read to
// seed the pre-state and unioned into the environment bash runs with,
// and overwritten with the post-state afterwards, so repeated calls
// see variables set by earlier ones even though the process itself is
// short-lived.
func RunWithStateFile(ctx context.Context, script, statePath string, opts Options) (*Result, error) {
	prior, err := readStateFile(statePath)
	if err != nil {
		return nil, &ExecError{Kind: ErrIO, Desc: fmt.Sprintf("reading state file %s: %v", statePath, err)}
	}

	opts.Env = unionEnv(opts.Env, prior)

	res, err := Run(ctx, script, opts)
	if err != nil {
		return nil, err
	}

	if err := writeStateFile(statePath, opts.Env, res.Delta); err != nil {
		return nil, &ExecError{Kind: ErrIO, Desc: fmt.Sprintf("writing state file %s: %v", statePath, err)}
	}
	return res, nil
}

// readStateFile returns the NUL-separated `env -0` dump, or an empty
// string if the file does not exist yet (a brand new session).
func readStateFile(path string) (string, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unionEnv overlays prior's entries onto base (os.Environ()-shaped
// "NAME=value" strings), letting the caller's own explicit Env win so
// a state file never overrides what the caller deliberately set.
func unionEnv(base []string, priorDump string) []string {
	have := make(map[string]bool, len(base))
	for _, kv := range base {
		if i := indexByte(kv, '='); i >= 0 {
			have[kv[:i]] = true
		}
	}
	out := append([]string{}, base...)
	for name, val := range parseEnvNUL(priorDump) {
		if have[name] {
			continue
		}
		out = append(out, name+"="+val)
	}
	return out
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// writeStateFile folds delta onto the environment the run started
// with and persists the result as a fresh `env -0` dump, written
// atomically so a concurrent reader never observes a half-written
// file.
func writeStateFile(path string, startEnv []string, delta Delta) error {
	merged := make(map[string]string, len(startEnv))
	for _, kv := range startEnv {
		if i := indexByte(kv, '='); i >= 0 {
			merged[kv[:i]] = kv[i+1:]
		}
	}
	for name, val := range delta.Set {
		merged[name] = val
	}
	for name, val := range delta.SetPath {
		merged[name] = val
	}
	for _, name := range delta.Unset {
		delete(merged, name)
	}

	var dump []byte
	for name, val := range merged {
		dump = append(dump, name...)
		dump = append(dump, '=')
		dump = append(dump, val...)
		dump = append(dump, 0)
	}
	return maybeio.WriteFile(path, dump, 0o600)
}
