package registry

import (
	"errors"
	"testing"
)

func TestCheckReadOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query string
		ok    bool
	}{
		{"plain select", "SELECT * FROM tasks", true},
		{"lowercase with leading whitespace", "   \n\tselect id, title from tasks", true},
		{"aggregate", "SELECT status, COUNT(*) FROM tasks GROUP BY status", true},
		{"quoted literal", "SELECT * FROM tasks WHERE title = 'milk'", true},
		{"empty", "", false},
		{"whitespace only", "   \n  ", false},
		{"drop statement", "DROP TABLE tasks", false},
		{"insert statement", "INSERT INTO tasks (title) VALUES ('x')", false},
		{"mutating keyword inside select", "SELECT * FROM tasks; DELETE FROM tasks", false},
		{"chained statements", "select 1; select 2", false},
		{"line comment", "SELECT * FROM tasks -- hide the rest", false},
		{"block comment", "SELECT /* sneaky */ * FROM tasks", false},
		{"unbalanced quote", "SELECT * FROM tasks WHERE title = 'milk", false},
		{"update as token", "SELECT * FROM tasks WHERE title = 'update me'", false}, // heuristic: token match, no literal awareness
		{"update as substring of identifier", "SELECT updated_at FROM tasks", true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := CheckReadOnly(tc.query)
			if tc.ok && err != nil {
				t.Errorf("CheckReadOnly(%q) = %v, want nil", tc.query, err)
			}
			if !tc.ok && err == nil {
				t.Errorf("CheckReadOnly(%q) = nil, want error", tc.query)
			}
		})
	}
}

func TestExecuteQueryValidationUsesGuard(t *testing.T) {
	t.Parallel()

	spec, err := Lookup(string(OpExecuteQuery))
	if err != nil {
		t.Fatal(err)
	}

	var ve *ValidationError
	if _, err := spec.Validate(map[string]any{"query": "DROP TABLE tasks"}); !errors.As(err, &ve) || ve.Field != "query" {
		t.Errorf("expected query validation failure, got %v", err)
	}
	if _, err := spec.Validate(map[string]any{"query": "SELECT * FROM tasks"}); err != nil {
		t.Errorf("valid select rejected: %v", err)
	}
}
