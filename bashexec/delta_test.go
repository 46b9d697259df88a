package bashexec

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestDeltaRenderOrdersAndQuotes(t *testing.T) {
	c := qt.New(t)
	d := Delta{
		Dir:     "/tmp",
		Set:     map[string]string{"MYTMP": "/tmp", "NAME": "o'brien"},
		SetPath: map[string]string{"PATH": "/usr/bin:/opt/bin"},
		Unset:   []string{"STALE"},
	}
	got := d.Render()
	want := "set -gx MYTMP '/tmp'\n" +
		"set -gx NAME 'o\\'brien'\n" +
		"set -gx PATH '/usr/bin' '/opt/bin'\n" +
		"set -e STALE\n" +
		"cd '/tmp'\n"
	c.Assert(got, qt.Equals, want)
}

func TestDeltaRenderEmpty(t *testing.T) {
	c := qt.New(t)
	c.Assert(Delta{}.Render(), qt.Equals, "")
}

func TestSingleQuoteEscapesBackslashAndQuote(t *testing.T) {
	c := qt.New(t)
	c.Assert(singleQuote(`a\b'c`), qt.Equals, `'a\\b\'c'`)
}
