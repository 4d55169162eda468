package repository

import (
	"time"

	"taskserver/internal/model"
)

// Row values arrive as map[string]any from the storage gateway; the
// helpers below normalize driver representations (int32 ids, []any
// arrays) into model types.

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func toString(v any) string {
	s, _ := v.(string)
	return s
}

func toStringPtr(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

func toTime(v any) time.Time {
	t, _ := v.(time.Time)
	return t
}

func toTimePtr(v any) *time.Time {
	if t, ok := v.(time.Time); ok {
		return &t
	}
	return nil
}

func toStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return []string{}
}

func taskFromRow(row map[string]any) model.Task {
	return model.Task{
		ID:          toInt(row["id"]),
		Title:       toString(row["title"]),
		Description: toStringPtr(row["description"]),
		Status:      toString(row["status"]),
		Priority:    toString(row["priority"]),
		AssignedTo:  toStringPtr(row["assigned_to"]),
		DueDate:     toTimePtr(row["due_date"]),
		Tags:        toStringSlice(row["tags"]),
		Categories:  toStringSlice(row["categories"]),
		CreatedAt:   toTime(row["created_at"]),
		UpdatedAt:   toTime(row["updated_at"]),
	}
}

func commentFromRow(row map[string]any) model.Comment {
	return model.Comment{
		ID:        toInt(row["id"]),
		TaskID:    toInt(row["task_id"]),
		Comment:   toString(row["comment"]),
		Author:    toStringPtr(row["author"]),
		CreatedAt: toTime(row["created_at"]),
	}
}

func categoryFromRow(row map[string]any) model.Category {
	return model.Category{
		ID:          toInt(row["id"]),
		Name:        toString(row["name"]),
		Description: toStringPtr(row["description"]),
		Color:       toString(row["color"]),
	}
}
