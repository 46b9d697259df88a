package bashexec

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestParseEnvNUL(t *testing.T) {
	c := qt.New(t)
	dump := "FOO=bar\x00MULTI=line1\nline2\x00EMPTY=\x00"
	got := parseEnvNUL(dump)
	c.Assert(got, qt.DeepEquals, map[string]string{
		"FOO":   "bar",
		"MULTI": "line1\nline2",
		"EMPTY": "",
	})
}

func TestIsPathLike(t *testing.T) {
	c := qt.New(t)
	c.Assert(isPathLike("PATH", nil), qt.Equals, true)
	c.Assert(isPathLike("MANPATH", nil), qt.Equals, true)
	c.Assert(isPathLike("GOPATH", nil), qt.Equals, true)
	c.Assert(isPathLike("HOME", nil), qt.Equals, false)
	c.Assert(isPathLike("CDPATH", []string{"CDPATH"}), qt.Equals, true)
}

func TestDiffEnvFiltersInternalsAndDetectsChanges(t *testing.T) {
	c := qt.New(t)
	before := map[string]string{
		"HOME":   "/home/me",
		"SHLVL":  "1",
		"STALE":  "gone-soon",
		"PATH":   "/usr/bin",
		"KEPT":   "same",
	}
	after := map[string]string{
		"HOME":    "/home/me",
		"SHLVL":   "2",
		"PATH":    "/usr/bin:/opt/bin",
		"KEPT":    "same",
		"MYTMP":   "/tmp",
	}
	d := diffEnv(before, after, "/home/me", "/tmp", nil)
	c.Assert(d.Dir, qt.Equals, "/tmp")
	c.Assert(d.Set, qt.DeepEquals, map[string]string{"MYTMP": "/tmp"})
	c.Assert(d.SetPath, qt.DeepEquals, map[string]string{"PATH": "/usr/bin:/opt/bin"})
	c.Assert(d.Unset, qt.DeepEquals, []string{"STALE"})
}

func TestDiffEnvNoDirChangeWhenSame(t *testing.T) {
	c := qt.New(t)
	d := diffEnv(map[string]string{}, map[string]string{}, "/tmp", "/tmp", nil)
	c.Assert(d.Dir, qt.Equals, "")
	c.Assert(d.Empty(), qt.Equals, true)
}
