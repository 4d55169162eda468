package repository

import (
	"context"

	"taskserver/internal/model"
	"taskserver/internal/storage"
)

// Gateway is the storage primitive surface the repositories compose.
// *storage.Gateway satisfies it; tests substitute a fake.
type Gateway interface {
	RunQuery(ctx context.Context, sql string, args ...any) ([]map[string]any, error)
	RunCommand(ctx context.Context, sql string, args ...any) (storage.CommandResult, error)
	IntrospectSchema(ctx context.Context) (map[string][]model.Column, error)
}
