// Package sqlsafe validates LLM-generated SQL before it reaches the database.
//
// The checks are deliberately coarse: a case-insensitive SELECT-only prefix
// check plus a substring denylist of mutating keywords. The denylist matches
// anywhere in the text, including inside string literals and identifiers, so
// it over-rejects safe queries (a literal containing "insert") and can in
// principle be evaded by obfuscation. The database role is the real read-only
// boundary; this layer is defense in depth, not a parser-level guarantee.
package sqlsafe

import (
	"fmt"
	"regexp"
	"strings"
)

// DeniedKeywords are rejected as case-insensitive substrings anywhere in the
// statement.
var DeniedKeywords = []string{
	"DROP", "DELETE", "INSERT", "UPDATE", "TRUNCATE", "ALTER", "CREATE", "GRANT", "REVOKE",
}

var (
	fencedSQLPattern     = regexp.MustCompile("(?s)```sql\\s*(.*?)\\s*```")
	fencedGenericPattern = regexp.MustCompile("(?s)^```[^\n]*\n(.*?)```\\s*$")
)

// StripFences removes a ```sql ... ``` or bare ``` ... ``` wrapper if the
// model ignored the no-markdown instruction.
func StripFences(sql string) string {
	sql = strings.TrimSpace(sql)

	if m := fencedSQLPattern.FindStringSubmatch(sql); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := fencedGenericPattern.FindStringSubmatch(sql); m != nil {
		return strings.TrimSpace(m[1])
	}
	return sql
}

// Validate rejects anything that is not a plain SELECT statement.
func Validate(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return fmt.Errorf("empty SQL statement")
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") {
		return fmt.Errorf("only SELECT queries are allowed")
	}

	for _, keyword := range DeniedKeywords {
		if strings.Contains(upper, keyword) {
			return fmt.Errorf("query contains forbidden keyword: %s", keyword)
		}
	}

	return nil
}

// Clean strips fences and validates in one pass, returning the cleaned SQL.
func Clean(sql string) (string, error) {
	cleaned := StripFences(sql)
	if err := Validate(cleaned); err != nil {
		return "", err
	}
	return cleaned, nil
}
