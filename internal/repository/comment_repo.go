package repository

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskserver/internal/model"
)

type CommentRepository struct {
	gw     Gateway
	logger *zap.Logger
}

func NewCommentRepository(gw Gateway, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{gw: gw, logger: logger}
}

const insertComment = `
	INSERT INTO task_comments (task_id, comment, author)
	VALUES ($1, $2, $3)
	RETURNING id, task_id, comment, author, created_at`

func (r *CommentRepository) Add(ctx context.Context, taskID int, comment string, author *string) (*model.Comment, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("comment must not be empty")
	}
	res, err := r.gw.RunCommand(ctx, insertComment, taskID, comment, author)
	if err != nil {
		r.logger.Error("Failed to add comment", zap.Error(err), zap.Int("task_id", taskID))
		return nil, err
	}
	if len(res.Rows) == 0 {
		return nil, fmt.Errorf("insert returned no row")
	}
	c := commentFromRow(res.Rows[0])
	r.logger.Info("Comment added", zap.Int("task_id", taskID), zap.Int("comment_id", c.ID))
	return &c, nil
}

func (r *CommentRepository) ListByTask(ctx context.Context, taskID int) ([]model.Comment, error) {
	rows, err := r.gw.RunQuery(ctx,
		"SELECT id, task_id, comment, author, created_at FROM task_comments WHERE task_id = $1 ORDER BY created_at ASC",
		taskID)
	if err != nil {
		r.logger.Error("Failed to list comments", zap.Error(err), zap.Int("task_id", taskID))
		return nil, err
	}
	comments := make([]model.Comment, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, commentFromRow(row))
	}
	return comments, nil
}
