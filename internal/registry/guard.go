package registry

import (
	"errors"
	"regexp"
	"strings"
)

// mutatingKeyword matches write/DDL keywords as whole word tokens.
var mutatingKeyword = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|create|truncate)\b`)

// injectionMarkers are sequences with no place in a single read-only
// statement: comment delimiters and statement chaining.
var injectionMarkers = []string{"--", "/*", "*/", ";"}

// CheckReadOnly applies the two-layer guard for ad-hoc queries: an
// allow-list (the statement must be a SELECT) and a deny-list (no
// mutating keyword tokens, no comment or chaining sequences, no
// unbalanced quotes).
//
// This is a keyword heuristic, not a SQL parser: a mutating keyword
// inside a quoted string literal is rejected all the same, and the
// guard makes no guarantee beyond what these checks express.
func CheckReadOnly(query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return errors.New("query must not be empty")
	}
	if !strings.HasPrefix(strings.ToLower(q), "select") {
		return errors.New("only SELECT queries are allowed")
	}
	if kw := mutatingKeyword.FindString(q); kw != "" {
		return errors.New("mutating keyword " + strings.ToLower(kw) + " is not allowed")
	}
	for _, marker := range injectionMarkers {
		if strings.Contains(q, marker) {
			return errors.New("sequence " + marker + " is not allowed")
		}
	}
	if strings.Count(q, "'")%2 != 0 {
		return errors.New("unbalanced quote")
	}
	return nil
}
