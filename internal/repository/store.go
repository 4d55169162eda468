package repository

import (
	"context"

	"go.uber.org/zap"

	"taskserver/internal/model"
)

// Store bundles the repositories behind the surface the dispatcher
// consumes.
type Store struct {
	gw         Gateway
	tasks      *TaskRepository
	comments   *CommentRepository
	categories *CategoryRepository
}

func NewStore(gw Gateway, logger *zap.Logger) *Store {
	return &Store{
		gw:         gw,
		tasks:      NewTaskRepository(gw, logger),
		comments:   NewCommentRepository(gw, logger),
		categories: NewCategoryRepository(gw, logger),
	}
}

func (s *Store) ListTasks(ctx context.Context, f model.TaskFilter) ([]model.Task, error) {
	return s.tasks.List(ctx, f)
}

func (s *Store) TaskByID(ctx context.Context, id int) (*model.Task, error) {
	return s.tasks.ByID(ctx, id)
}

func (s *Store) CreateTask(ctx context.Context, t model.NewTask) (*model.Task, error) {
	return s.tasks.Create(ctx, t)
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id int, status string) (bool, error) {
	return s.tasks.UpdateStatus(ctx, id, status)
}

func (s *Store) DeleteTask(ctx context.Context, id int) (bool, error) {
	return s.tasks.Delete(ctx, id)
}

func (s *Store) AddComment(ctx context.Context, taskID int, comment string, author *string) (*model.Comment, error) {
	return s.comments.Add(ctx, taskID, comment, author)
}

func (s *Store) CommentsForTask(ctx context.Context, taskID int) ([]model.Comment, error) {
	return s.comments.ListByTask(ctx, taskID)
}

func (s *Store) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.List(ctx)
}

// RunQuery executes an already-validated read-only statement.
func (s *Store) RunQuery(ctx context.Context, sql string) ([]map[string]any, error) {
	return s.gw.RunQuery(ctx, sql)
}

func (s *Store) Schema(ctx context.Context) (map[string][]model.Column, error) {
	return s.gw.IntrospectSchema(ctx)
}
