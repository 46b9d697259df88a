package bashexec

import (
	"sort"
	"strings"
)

// internalVars are bash-maintained variables that always differ
// between invocations (or are housekeeping bash never expects a
// caller to propagate) and so are excluded from a Delta regardless of
// whether their value actually changed.
var internalVars = map[string]bool{
	"_": true, "SHLVL": true, "BASHOPTS": true, "BASH_VERSINFO": true,
	"BASH_VERSION": true, "SHELLOPTS": true, "PWD": true, "OLDPWD": true,
	"PPID": true, "RANDOM": true, "SECONDS": true, "LINENO": true,
	"BASH": true, "BASH_ARGC": true, "BASH_ARGV": true, "BASH_LINENO": true,
	"BASH_SOURCE": true, "BASH_SUBSHELL": true, "FUNCNAME": true,
	"GROUPS": true, "DIRSTACK": true, "HISTCMD": true,
}

// isPathLike matches fishgen's PATH-detection rule (SPEC_FULL Open
// Question #3): anything ending in PATH, plus names the caller
// explicitly opted in via extra.
func isPathLike(name string, extra []string) bool {
	if strings.HasSuffix(name, "PATH") {
		return true
	}
	for _, e := range extra {
		if e == name {
			return true
		}
	}
	return false
}

// parseEnvNUL splits an `env -0` dump into a name->value map. Entries
// without a following "=name" are malformed data bash never emits and
// are skipped rather than panicking.
func parseEnvNUL(dump string) map[string]string {
	out := make(map[string]string)
	for _, entry := range strings.Split(dump, "\x00") {
		if entry == "" {
			continue
		}
		if i := strings.IndexByte(entry, '='); i >= 0 {
			out[entry[:i]] = entry[i+1:]
		}
	}
	return out
}

// Delta is the set of environment and directory changes a bash
// invocation made, translated into fish terms the caller can splice
// into the interactive session.
type Delta struct {
	Dir        string            // new cwd, "" if unchanged
	Set        map[string]string // added or modified scalar vars
	SetPath    map[string]string // added or modified PATH-like vars, raw colon-joined value
	Unset      []string          // vars present before and gone after
}

func diffEnv(before, after map[string]string, beforeDir, afterDir string, extraPathVars []string) Delta {
	d := Delta{Set: map[string]string{}, SetPath: map[string]string{}}
	if afterDir != "" && afterDir != beforeDir {
		d.Dir = afterDir
	}
	for name, av := range after {
		if internalVars[name] {
			continue
		}
		if bv, ok := before[name]; ok && bv == av {
			continue
		}
		if isPathLike(name, extraPathVars) {
			d.SetPath[name] = av
		} else {
			d.Set[name] = av
		}
	}
	for name := range before {
		if internalVars[name] {
			continue
		}
		if _, ok := after[name]; !ok {
			d.Unset = append(d.Unset, name)
		}
	}
	sort.Strings(d.Unset)
	return d
}

// Empty reports whether the delta carries no observable change at all.
func (d Delta) Empty() bool {
	return d.Dir == "" && len(d.Set) == 0 && len(d.SetPath) == 0 && len(d.Unset) == 0
}

// ParseEnvDump exposes parseEnvNUL for callers outside this package
// that maintain their own bash coprocess (the daemon's persistent
// bash, rather than the one-shot bash this package spawns itself) but
// still want the same `env -0` parsing and diffing rules.
func ParseEnvDump(dump string) map[string]string { return parseEnvNUL(dump) }

// DiffEnv exposes diffEnv the same way ParseEnvDump does.
func DiffEnv(before, after map[string]string, beforeDir, afterDir string, extraPathVars []string) Delta {
	return diffEnv(before, after, beforeDir, afterDir, extraPathVars)
}
