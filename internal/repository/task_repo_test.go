package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"taskserver/internal/model"
	"taskserver/internal/storage"
)

type fakeGateway struct {
	queryCalls   int
	commandCalls int
	lastSQL      string
	lastArgs     []any

	queryRows   []map[string]any
	queryErr    error
	commandRes  storage.CommandResult
	commandErr  error
	schemaRes   map[string][]model.Column
	schemaErr   error
}

func (f *fakeGateway) RunQuery(_ context.Context, sql string, args ...any) ([]map[string]any, error) {
	f.queryCalls++
	f.lastSQL = sql
	f.lastArgs = args
	return f.queryRows, f.queryErr
}

func (f *fakeGateway) RunCommand(_ context.Context, sql string, args ...any) (storage.CommandResult, error) {
	f.commandCalls++
	f.lastSQL = sql
	f.lastArgs = args
	return f.commandRes, f.commandErr
}

func (f *fakeGateway) IntrospectSchema(context.Context) (map[string][]model.Column, error) {
	return f.schemaRes, f.schemaErr
}

func TestBuildListQuery(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filter   model.TaskFilter
		wantArgs []any
		contains []string
		excludes []string
	}{
		{
			name:     "no filter",
			filter:   model.TaskFilter{},
			wantArgs: nil,
			contains: []string{"GROUP BY t.id", "ORDER BY t.created_at DESC"},
			excludes: []string{"WHERE", "LIMIT", "priority DESC"},
		},
		{
			name:     "status only",
			filter:   model.TaskFilter{Status: "pending"},
			wantArgs: []any{"pending"},
			contains: []string{"WHERE t.status = $1", "ORDER BY t.priority DESC, t.created_at DESC"},
		},
		{
			name:     "all filters with limit",
			filter:   model.TaskFilter{Status: "completed", AssignedTo: "alice", Priority: "high", Limit: 25},
			wantArgs: []any{"completed", "alice", "high", 25},
			contains: []string{"t.status = $1", "t.assigned_to = $2", "t.priority = $3", "LIMIT $4", " AND "},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			sql, args := buildListQuery(tc.filter)
			if len(args) != len(tc.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tc.wantArgs)
			}
			for i := range args {
				if args[i] != tc.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tc.wantArgs[i])
				}
			}
			for _, s := range tc.contains {
				if !strings.Contains(sql, s) {
					t.Errorf("sql missing %q:\n%s", s, sql)
				}
			}
			for _, s := range tc.excludes {
				if strings.Contains(sql, s) {
					t.Errorf("sql should not contain %q:\n%s", s, sql)
				}
			}
		})
	}
}

func TestListRejectsInvalidFilterBeforeStorage(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	repo := NewTaskRepository(gw, zap.NewNop())

	if _, err := repo.List(context.Background(), model.TaskFilter{Status: "done"}); err == nil {
		t.Error("expected error for out-of-enum status filter")
	}
	if _, err := repo.List(context.Background(), model.TaskFilter{Priority: "asap"}); err == nil {
		t.Error("expected error for out-of-enum priority filter")
	}
	if gw.queryCalls != 0 {
		t.Errorf("storage reached %d times for invalid filters", gw.queryCalls)
	}
}

func TestCreateEnforcesBoundaryInvariants(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{}
	repo := NewTaskRepository(gw, zap.NewNop())
	ctx := context.Background()

	if _, err := repo.Create(ctx, model.NewTask{Title: "  "}); err == nil {
		t.Error("expected error for blank title")
	}
	if _, err := repo.Create(ctx, model.NewTask{Title: strings.Repeat("x", model.MaxTitleLen+1)}); err == nil {
		t.Error("expected error for oversized title")
	}
	if _, err := repo.Create(ctx, model.NewTask{Title: "ok", Priority: "asap"}); err == nil {
		t.Error("expected error for out-of-enum priority")
	}
	manyTags := make([]string, model.MaxTags+1)
	if _, err := repo.Create(ctx, model.NewTask{Title: "ok", Tags: manyTags}); err == nil {
		t.Error("expected error for too many tags")
	}
	if gw.commandCalls != 0 {
		t.Errorf("storage reached %d times for invalid creates", gw.commandCalls)
	}
}

func TestCreateDefaultsPriorityAndReturnsRow(t *testing.T) {
	t.Parallel()

	now := time.Now()
	gw := &fakeGateway{
		commandRes: storage.CommandResult{
			RowsAffected: 1,
			Rows: []map[string]any{{
				"id": int32(7), "title": "Buy milk", "description": nil,
				"status": "pending", "priority": "medium", "assigned_to": nil,
				"due_date": nil, "tags": []string{}, "created_at": now, "updated_at": now,
			}},
		},
	}
	repo := NewTaskRepository(gw, zap.NewNop())

	task, err := repo.Create(context.Background(), model.NewTask{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if task.ID != 7 || task.Status != "pending" || task.Priority != "medium" {
		t.Errorf("unexpected task: %+v", task)
	}
	if gw.lastArgs[2] != "medium" {
		t.Errorf("expected medium priority default, got %v", gw.lastArgs[2])
	}
}

func TestUpdateStatusReportsMatch(t *testing.T) {
	t.Parallel()

	gw := &fakeGateway{commandRes: storage.CommandResult{RowsAffected: 1}}
	repo := NewTaskRepository(gw, zap.NewNop())

	ok, err := repo.UpdateStatus(context.Background(), 3, "completed")
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	if !strings.Contains(gw.lastSQL, "updated_at = NOW()") {
		t.Errorf("update must refresh updated_at:\n%s", gw.lastSQL)
	}

	gw.commandRes = storage.CommandResult{RowsAffected: 0}
	ok, err = repo.UpdateStatus(context.Background(), 99, "completed")
	if err != nil || ok {
		t.Fatalf("missing id should report false: ok=%v err=%v", ok, err)
	}

	if _, err := repo.UpdateStatus(context.Background(), 3, "done"); err == nil {
		t.Error("expected error for out-of-enum status")
	}
}

func TestTaskByIDMissing(t *testing.T) {
	t.Parallel()

	repo := NewTaskRepository(&fakeGateway{}, zap.NewNop())
	task, err := repo.ByID(context.Background(), 42)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if task != nil {
		t.Errorf("expected nil for missing task, got %+v", task)
	}
}
