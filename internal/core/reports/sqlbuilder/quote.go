package sqlbuilder

import (
	"fmt"
	"regexp"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var identifierPattern = regexp.MustCompile(`^\w+$`)

// IsIdentifier reports whether name is a bare column or table name.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// QuoteIdentifier renders name as a double-quoted identifier.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteQualified quotes every dot-separated part of a (possibly schema-qualified) table name.
func QuoteQualified(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

// Render returns the statement of s with every bound argument inlined as a single-quoted
// literal. It is meant for logs and sql-only responses, never for execution.
func Render(s sq.Sqlizer) string {
	query, args, err := s.ToSql()
	if err != nil {
		return fmt.Sprintf("[%s]", err)
	}

	escaped := make([]interface{}, len(args))
	for i, arg := range args {
		escaped[i] = strings.ReplaceAll(fmt.Sprint(arg), "'", "''")
	}
	return sq.DebugSqlizer(sq.Expr(query, escaped...))
}
