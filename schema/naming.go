package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton instance for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy converts Go identifiers into database names.
type NamingStrategy interface {
	// ColumnName converts a Go field name to a database column name.
	ColumnName(fieldName string) string
	// TableName converts a Go struct name to a database table name.
	TableName(structName string) string
}

type snakeCaseStrategy struct {
	plural bool
}

// DefaultNamingStrategy maps to snake_case columns and plural snake_case
// tables: TeamID -> team_id, Member -> members.
func DefaultNamingStrategy() NamingStrategy {
	return snakeCaseStrategy{plural: true}
}

// SingularNamingStrategy keeps table names singular: Member -> member.
func SingularNamingStrategy() NamingStrategy {
	return snakeCaseStrategy{}
}

func (s snakeCaseStrategy) ColumnName(fieldName string) string {
	return toSnakeCase(fieldName)
}

func (s snakeCaseStrategy) TableName(structName string) string {
	snake := toSnakeCase(structName)
	if !s.plural {
		return snake
	}
	return pluralize(snake)
}

// toSnakeCase converts any naming convention to snake_case.
// Handles acronyms and digits: HTTPServer -> http_server, TeamID -> team_id.
func toSnakeCase(name string) string {
	if name == "" {
		return ""
	}

	// If already snake_case (contains underscores and no uppercase), return as-is
	if strings.Contains(name, "_") && !hasUpperCase(name) {
		return name
	}

	var result strings.Builder
	result.Grow(len(name) + 4)

	runes := []rune(name)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]

			// aB -> a_b, a1B -> a1_b, ABc -> a_bc
			if unicode.IsLower(prev) || unicode.IsDigit(prev) ||
				(unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])) {
				result.WriteByte('_')
			}
		}
		result.WriteRune(unicode.ToLower(r))
	}

	return result.String()
}

// pluralize pluralizes the last word of a snake_case name.
func pluralize(name string) string {
	if name == "" {
		return ""
	}
	head, last := "", name
	if i := strings.LastIndexByte(name, '_'); i >= 0 {
		head, last = name[:i+1], name[i+1:]
	}
	return head + pluralizeClient.Pluralize(last, 2, false)
}

func hasUpperCase(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}
