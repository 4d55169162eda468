package repository

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskserver/internal/model"
)

// taskSelect aggregates the joined category names per task.
const taskSelect = `
	SELECT
		t.id, t.title, t.description, t.status, t.priority,
		t.assigned_to, t.due_date, t.tags, t.created_at, t.updated_at,
		COALESCE(ARRAY_AGG(c.name) FILTER (WHERE c.name IS NOT NULL), '{}') AS categories
	FROM tasks t
	LEFT JOIN task_categories tc ON t.id = tc.task_id
	LEFT JOIN categories c ON tc.category_id = c.id`

type TaskRepository struct {
	gw     Gateway
	logger *zap.Logger
}

func NewTaskRepository(gw Gateway, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{gw: gw, logger: logger}
}

// buildListQuery turns a validated filter into a parameterized listing
// statement. Filter values are never concatenated into the SQL text.
func buildListQuery(f model.TaskFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if f.AssignedTo != "" {
		args = append(args, f.AssignedTo)
		conds = append(conds, fmt.Sprintf("t.assigned_to = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		conds = append(conds, fmt.Sprintf("t.priority = $%d", len(args)))
	}

	sql := taskSelect
	if len(conds) > 0 {
		sql += "\n\tWHERE " + strings.Join(conds, " AND ")
	}
	sql += "\n\tGROUP BY t.id"
	// Status listings sort by priority first; the full listing is
	// newest-first only.
	if f.Status != "" {
		sql += "\n\tORDER BY t.priority DESC, t.created_at DESC"
	} else {
		sql += "\n\tORDER BY t.created_at DESC"
	}
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sql += fmt.Sprintf("\n\tLIMIT $%d", len(args))
	}
	return sql, args
}

func (r *TaskRepository) List(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	if f.Status != "" && !model.ValidStatus(f.Status) {
		return nil, fmt.Errorf("invalid status filter %q", f.Status)
	}
	if f.Priority != "" && !model.ValidPriority(f.Priority) {
		return nil, fmt.Errorf("invalid priority filter %q", f.Priority)
	}

	sql, args := buildListQuery(f)
	rows, err := r.gw.RunQuery(ctx, sql, args...)
	if err != nil {
		r.logger.Error("Failed to list tasks", zap.Error(err))
		return nil, err
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, taskFromRow(row))
	}
	r.logger.Debug("Tasks listed", zap.Int("count", len(tasks)))
	return tasks, nil
}

// ByID returns nil without error when no task matches.
func (r *TaskRepository) ByID(ctx context.Context, id int) (*model.Task, error) {
	rows, err := r.gw.RunQuery(ctx, taskSelect+"\n\tWHERE t.id = $1\n\tGROUP BY t.id", id)
	if err != nil {
		r.logger.Error("Failed to get task", zap.Error(err), zap.Int("task_id", id))
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	task := taskFromRow(rows[0])
	return &task, nil
}

const insertTask = `
	INSERT INTO tasks (title, description, priority, assigned_to, due_date, tags)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id, title, description, status, priority, assigned_to, due_date, tags, created_at, updated_at`

func (r *TaskRepository) Create(ctx context.Context, t model.NewTask) (*model.Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, fmt.Errorf("title must not be empty")
	}
	if len(t.Title) > model.MaxTitleLen {
		return nil, fmt.Errorf("title exceeds %d characters", model.MaxTitleLen)
	}
	priority := t.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !model.ValidPriority(priority) {
		return nil, fmt.Errorf("invalid priority %q", priority)
	}
	if len(t.Tags) > model.MaxTags {
		return nil, fmt.Errorf("more than %d tags", model.MaxTags)
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	res, err := r.gw.RunCommand(ctx, insertTask,
		t.Title, t.Description, priority, t.AssignedTo, t.DueDate, tags)
	if err != nil {
		r.logger.Error("Failed to insert task", zap.Error(err), zap.String("title", t.Title))
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("insert returned no row")
	}
	task := taskFromRow(res.Rows[0])
	r.logger.Info("Task created", zap.Int("task_id", task.ID), zap.String("title", task.Title))
	return &task, nil
}

// UpdateStatus reports whether a task matched the id. updated_at is
// refreshed in the same statement.
func (r *TaskRepository) UpdateStatus(ctx context.Context, id int, status string) (bool, error) {
	if !model.ValidStatus(status) {
		return false, fmt.Errorf("invalid status %q", status)
	}
	res, err := r.gw.RunCommand(ctx,
		"UPDATE tasks SET status = $2, updated_at = NOW() WHERE id = $1", id, status)
	if err != nil {
		r.logger.Error("Failed to update task status",
			zap.Error(err), zap.Int("task_id", id), zap.String("status", status))
		return false, err
	}
	updated := res.RowsAffected == 1
	if updated {
		r.logger.Info("Task status updated", zap.Int("task_id", id), zap.String("status", status))
	}
	return updated, nil
}

// Delete reports whether a task matched the id. Comments and category
// links go with it via the cascading foreign keys.
func (r *TaskRepository) Delete(ctx context.Context, id int) (bool, error) {
	res, err := r.gw.RunCommand(ctx, "DELETE FROM tasks WHERE id = $1", id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.Int("task_id", id))
		return false, err
	}
	deleted := res.RowsAffected == 1
	if deleted {
		r.logger.Info("Task deleted", zap.Int("task_id", id))
	}
	return deleted, nil
}
