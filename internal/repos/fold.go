package repos

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// foldFunc is a Unicode-aware replacement for SQLite's LOWER, which only folds ASCII.
// Search patterns are lowered with strings.ToLower, so both sides must fold the same way.
const foldFunc = "fold"

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction(foldFunc, 1, fold); err != nil {
		panic(err)
	}
}

func fold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return strings.ToLower(v), nil
	case []byte:
		return strings.ToLower(string(v)), nil
	default:
		return v, nil
	}
}
