package repository

import (
	"context"

	"go.uber.org/zap"

	"taskserver/internal/model"
)

type CategoryRepository struct {
	gw     Gateway
	logger *zap.Logger
}

func NewCategoryRepository(gw Gateway, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{gw: gw, logger: logger}
}

func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.gw.RunQuery(ctx,
		"SELECT id, name, description, color FROM categories ORDER BY name")
	if err != nil {
		r.logger.Error("Failed to list categories", zap.Error(err))
		return nil, err
	}
	categories := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, categoryFromRow(row))
	}
	return categories, nil
}
