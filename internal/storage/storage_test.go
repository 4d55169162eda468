package storage

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestGatewayFailsFastBeforeConnect(t *testing.T) {
	t.Parallel()

	g := New(Config{DSN: "postgres://unused"}, zap.NewNop())

	if _, err := g.RunQuery(context.Background(), "SELECT 1"); err != ErrNotConnected {
		t.Errorf("RunQuery before Connect: got %v, want ErrNotConnected", err)
	}
	if _, err := g.RunCommand(context.Background(), "DELETE FROM tasks"); err != ErrNotConnected {
		t.Errorf("RunCommand before Connect: got %v, want ErrNotConnected", err)
	}
	if _, err := g.IntrospectSchema(context.Background()); err != ErrNotConnected {
		t.Errorf("IntrospectSchema before Connect: got %v, want ErrNotConnected", err)
	}
	if err := g.Ping(context.Background()); err != ErrNotConnected {
		t.Errorf("Ping before Connect: got %v, want ErrNotConnected", err)
	}

	// Close before Connect must be a no-op.
	g.Close()
}

func TestGroupSchemaRows(t *testing.T) {
	t.Parallel()

	rows := []map[string]any{
		{"table_name": "tasks", "column_name": "id", "data_type": "integer", "is_nullable": "NO", "column_default": "nextval('tasks_id_seq')"},
		{"table_name": "tasks", "column_name": "title", "data_type": "character varying", "is_nullable": "NO", "column_default": nil},
		{"table_name": "categories", "column_name": "name", "data_type": "text", "is_nullable": "YES", "column_default": nil},
	}

	schema := groupSchemaRows(rows)
	if len(schema) != 2 {
		t.Fatalf("expected 2 tables, got %d", len(schema))
	}
	tasks := schema["tasks"]
	if len(tasks) != 2 {
		t.Fatalf("expected 2 task columns, got %d", len(tasks))
	}
	if tasks[0].Name != "id" || tasks[0].Nullable {
		t.Errorf("unexpected first column: %+v", tasks[0])
	}
	if tasks[0].Default == nil {
		t.Error("expected id default to be set")
	}
	if tasks[1].Default != nil {
		t.Errorf("expected title default to be nil, got %v", *tasks[1].Default)
	}
	if !schema["categories"][0].Nullable {
		t.Error("expected categories.name to be nullable")
	}
}

func TestStatementOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		sql  string
		want string
	}{
		{"SELECT * FROM tasks", "select"},
		{"\n\tINSERT INTO tasks VALUES ($1)", "insert"},
		{"update tasks set status = $1", "update"},
		{"", "unknown"},
	}
	for _, tc := range tests {
		if got := statementOp(tc.sql); got != tc.want {
			t.Errorf("statementOp(%q) = %q, want %q", tc.sql, got, tc.want)
		}
	}
}
