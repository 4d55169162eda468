// Package dispatcher routes named operation invocations through
// contract validation to the storage layer and folds every outcome,
// success or failure, into a uniform response envelope.
package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskserver/internal/model"
	"taskserver/internal/registry"
	"taskserver/pkg/metrics"
)

// ErrUnknownResource is wrapped for resource URIs outside the catalog.
var ErrUnknownResource = errors.New("unknown resource")

// Store is the typed storage surface the handlers compose.
// *repository.Store satisfies it; tests substitute a fake.
type Store interface {
	ListTasks(ctx context.Context, f model.TaskFilter) ([]model.Task, error)
	TaskByID(ctx context.Context, id int) (*model.Task, error)
	CreateTask(ctx context.Context, t model.NewTask) (*model.Task, error)
	UpdateTaskStatus(ctx context.Context, id int, status string) (bool, error)
	DeleteTask(ctx context.Context, id int) (bool, error)
	AddComment(ctx context.Context, taskID int, comment string, author *string) (*model.Comment, error)
	CommentsForTask(ctx context.Context, taskID int) ([]model.Comment, error)
	Categories(ctx context.Context) ([]model.Category, error)
	RunQuery(ctx context.Context, sql string) ([]map[string]any, error)
	Schema(ctx context.Context) (map[string][]model.Column, error)
}

type handlerFunc func(ctx context.Context, args registry.Args) (Response, error)

// Dispatcher holds no mutable state; concurrent Invoke calls are
// independent except for contention on the shared connection pool.
type Dispatcher struct {
	store    Store
	logger   *zap.Logger
	handlers map[registry.Op]handlerFunc
}

func New(store Store, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{store: store, logger: logger}
	d.handlers = map[registry.Op]handlerFunc{
		registry.OpListTasks:        d.handleListTasks,
		registry.OpGetTask:          d.handleGetTask,
		registry.OpCreateTask:       d.handleCreateTask,
		registry.OpUpdateTaskStatus: d.handleUpdateTaskStatus,
		registry.OpDeleteTask:       d.handleDeleteTask,
		registry.OpAddTaskComment:   d.handleAddTaskComment,
		registry.OpGetTaskComments:  d.handleGetTaskComments,
		registry.OpListCategories:   d.handleListCategories,
		registry.OpExecuteQuery:     d.handleExecuteQuery,
		registry.OpGetSchema:        d.handleGetSchema,
	}
	for _, spec := range registry.Operations() {
		if _, ok := d.handlers[spec.Op]; !ok {
			panic(fmt.Sprintf("no handler for operation %q", spec.Op))
		}
	}
	return d
}

// Invoke resolves, validates, and executes one named operation. It
// always returns a Response; anticipated failures are in-band and a
// storage failure never surfaces raw database detail.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args map[string]any) (resp Response) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Operation panicked",
				zap.String("operation", name), zap.Any("panic", r))
			metrics.RecordToolInvocation(name, "panic", time.Since(start))
			resp = errorResponse("internal error")
		}
	}()

	spec, err := registry.Lookup(name)
	if err != nil {
		d.logger.Warn("Unknown operation requested", zap.String("operation", name))
		metrics.RecordToolInvocation(name, "unknown_operation", time.Since(start))
		return errorResponse(fmt.Sprintf("unsupported operation %q", name))
	}

	normalized, err := spec.Validate(args)
	if err != nil {
		field := ""
		var ve *registry.ValidationError
		if errors.As(err, &ve) {
			field = ve.Field
		}
		d.logger.Debug("Validation failed",
			zap.String("operation", name), zap.Error(err))
		metrics.IncValidationFailure(name, field)
		metrics.RecordToolInvocation(name, "validation_error", time.Since(start))
		return errorResponse("invalid arguments: " + err.Error())
	}

	resp, err = d.handlers[spec.Op](ctx, normalized)
	if err != nil {
		// Full detail stays in the log; the caller gets a generic line.
		d.logger.Error("Operation failed",
			zap.String("operation", name), zap.Error(err))
		metrics.RecordToolInvocation(name, "storage_error", time.Since(start))
		return errorResponse(failureMessage(spec.Op))
	}

	metrics.RecordToolInvocation(name, "ok", time.Since(start))
	return resp
}

func failureMessage(op registry.Op) string {
	switch op {
	case registry.OpListTasks:
		return "task listing failed"
	case registry.OpGetTask:
		return "task lookup failed"
	case registry.OpCreateTask:
		return "task creation failed"
	case registry.OpUpdateTaskStatus:
		return "task status update failed"
	case registry.OpDeleteTask:
		return "task deletion failed"
	case registry.OpAddTaskComment:
		return "adding the comment failed"
	case registry.OpGetTaskComments:
		return "comment listing failed"
	case registry.OpListCategories:
		return "category listing failed"
	case registry.OpExecuteQuery:
		return "query execution failed"
	case registry.OpGetSchema:
		return "schema introspection failed"
	}
	return "operation failed"
}

// ReadResource serves one read-only endpoint as a JSON document.
func (d *Dispatcher) ReadResource(ctx context.Context, uri string) (string, error) {
	doc, err := d.readResource(ctx, uri)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrUnknownResource) {
			outcome = "unknown"
		}
		metrics.IncResourceRead(uri, outcome)
		return "", err
	}
	metrics.IncResourceRead(uri, "ok")
	return doc, nil
}

func (d *Dispatcher) readResource(ctx context.Context, uri string) (string, error) {
	switch {
	case uri == registry.ResourceSchema:
		schema, err := d.store.Schema(ctx)
		if err != nil {
			d.logger.Error("Schema resource read failed", zap.Error(err))
			return "", errors.New("schema read failed")
		}
		return marshalDoc(struct {
			Count  int                       `json:"count"`
			Tables map[string][]model.Column `json:"tables"`
		}{len(schema), schema})

	case strings.HasPrefix(uri, registry.TaskURIPrefix):
		segment := strings.TrimPrefix(uri, registry.TaskURIPrefix)
		var f model.TaskFilter
		if segment != "all" {
			if !model.ValidStatus(segment) {
				return "", fmt.Errorf("%w: %q", ErrUnknownResource, uri)
			}
			f.Status = segment
		}
		tasks, err := d.store.ListTasks(ctx, f)
		if err != nil {
			d.logger.Error("Task resource read failed",
				zap.String("uri", uri), zap.Error(err))
			return "", errors.New("task read failed")
		}
		return marshalDoc(struct {
			Count int          `json:"count"`
			Tasks []model.Task `json:"tasks"`
		}{len(tasks), tasks})
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownResource, uri)
}

func marshalDoc(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
