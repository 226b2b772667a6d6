package apiutil

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Extended result codes shared by both SQLite drivers.
const (
	sqliteConstraintForeignKey = 787
	sqliteConstraintUnique     = 2067
)

func ToNullInt64(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func ToNullString(value string) sql.NullString {
	value = strings.TrimSpace(value)
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func IsSQLiteForeignKeyViolation(err error) bool {
	return hasSQLiteCode(err, sqliteConstraintForeignKey, "FOREIGN KEY constraint failed")
}

func IsSQLiteUniqueViolation(err error) bool {
	return hasSQLiteCode(err, sqliteConstraintUnique, "UNIQUE constraint failed")
}

// hasSQLiteCode checks mattn/go-sqlite3 errors by extended code and the
// pure-Go driver's errors through its Code method, then falls back to text.
func hasSQLiteCode(err error, code int, message string) bool {
	if err == nil {
		return false
	}

	var mattnErr sqlite3.Error
	if errors.As(err, &mattnErr) {
		return int(mattnErr.ExtendedCode) == code
	}

	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		return coded.Code() == code
	}

	return strings.Contains(err.Error(), message)
}
