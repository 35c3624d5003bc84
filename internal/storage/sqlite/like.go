// ABOUTME: LIKE pattern helpers for substring search
// ABOUTME: Escapes wildcard characters and folds case the same way on both sides of the match
package sqlite

import (
	"database/sql/driver"
	"fmt"
	"strings"

	moderncsqlite "modernc.org/sqlite"
)

// likeEscape is the escape character declared in every LIKE clause
const likeEscape = `\`

// foldFunc is the SQL name of foldCase. SQLite's LOWER only folds ASCII.
const foldFunc = "recall_fold"

var likeReplacer = strings.NewReplacer(
	`\`, `\\`,
	`%`, `\%`,
	`_`, `\_`,
)

func init() {
	if err := moderncsqlite.RegisterDeterministicScalarFunction(foldFunc, 1, foldValue); err != nil {
		panic(fmt.Sprintf("registering %s: %v", foldFunc, err))
	}
}

// foldCase is the case folding applied to patterns and column values alike
func foldCase(s string) string {
	return strings.ToLower(s)
}

// foldValue is the SQL side of foldCase; NULL stays NULL
func foldValue(_ *moderncsqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case nil:
		return nil, nil
	case string:
		return foldCase(v), nil
	case []byte:
		return foldCase(string(v)), nil
	default:
		return foldCase(fmt.Sprint(v)), nil
	}
}

// escapeLike escapes LIKE wildcards in s
func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// containsPattern builds a case-folded substring pattern for s
func containsPattern(s string) string {
	return "%" + escapeLike(foldCase(s)) + "%"
}

// likeClause matches column against a bound containsPattern, case-insensitively
func likeClause(column string) string {
	return foldFunc + "(" + column + ") LIKE ? ESCAPE '" + likeEscape + "'"
}
