// Copyright (c) 2016, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package detect

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestLooksLikeBash(t *testing.T) {
	t.Parallel()
	tests := [...]struct {
		in   string
		want bool
	}{
		{"", false},
		{"echo hello", false},
		{"ls -la /tmp", false},
		{"echo 'export FOO=bar'", false},
		{"echo 'if then do done esac'", false},
		{`echo "no bash here"`, false},

		{"export FOO=bar", true},
		{"unset FOO", true},
		{"declare -A m", true},
		{"local x=1", true},
		{"readonly X=1", true},
		{"echo $(date)", true},
		{"echo $((1+2))", true},
		{"cat <<< hello", true},
		{"[[ -n $x ]]", true},
		{"echo `date`", true},
		{"echo ${x:-d}", true},
		{"cat <(echo hi)", true},
		{"tee >(cat)", true},
		{"for ((i=0;i<3;i++)); do echo $i; done", true},
		{"if true; then echo hi; fi", true},
		{"while true; do echo hi; done", true},
		{"case $x in a) echo hi;; esac", true},

		{"if true\nthen echo hi\nfi", true},
		{"while true\ndo echo hi\ndone", true},

		{"x=export ", false},
		{"exported=1", false},
	}

	for _, test := range tests {
		test := test
		t.Run("", func(t *testing.T) {
			t.Parallel()
			got := LooksLikeBash(test.in)
			qt.Assert(t, got, qt.Equals, test.want)
		})
	}
}
