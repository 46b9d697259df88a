package detect

import "github.com/isabellaaGrier/reef/syntax"

// Full is the non-"--quick" path of the `detect` CLI subcommand (§6):
// it falls back to a real parse when the byte scan alone found nothing,
// so constructs LooksLikeBash's substring checks can miss (a bare
// C-style arithmetic assignment with no `$((`, say, or a keyword that
// only shows up once the lexer has resolved quoting) still get a
// chance to surface. A parse failure is not itself a positive
// signal — a malformed fish script would fail the same way — so it
// only inspects a successful AST for bash-only node shapes.
func Full(input string) bool {
	if LooksLikeBash(input) {
		return true
	}
	f, err := syntax.Parse(input)
	if err != nil {
		return false
	}
	return hasBashism(f.Stmts)
}

func hasBashism(stmts []*syntax.Stmt) bool {
	for _, stmt := range stmts {
		if stmtHasBashism(stmt) {
			return true
		}
	}
	return false
}

func stmtHasBashism(stmt *syntax.Stmt) bool {
	if stmt == nil {
		return false
	}
	switch cmd := stmt.Cmd.(type) {
	case *syntax.ForArithClause:
		return true
	case *syntax.ForClause:
		return hasBashism(cmd.Body)
	case *syntax.TestClause:
		return true
	case *syntax.CaseClause:
		for _, arm := range cmd.Arms {
			if arm.Term == syntax.CaseFallThru || arm.Term == syntax.CaseContinue {
				return true
			}
			if hasBashism(arm.Body) {
				return true
			}
		}
	case *syntax.IfClause:
		for _, b := range cmd.Branches {
			if hasBashism(b.Cond) || hasBashism(b.Body) {
				return true
			}
		}
		return hasBashism(cmd.Else)
	case *syntax.WhileClause:
		return hasBashism(cmd.Cond) || hasBashism(cmd.Body)
	case *syntax.Block:
		return hasBashism(cmd.Stmts)
	case *syntax.Subshell:
		return hasBashism(cmd.Stmts)
	}
	return false
}
