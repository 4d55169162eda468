// Package registry is the authoritative catalog of every operation and
// read endpoint the server exposes, with their declarative input
// contracts. Validation never touches storage.
package registry

import (
	"errors"
	"fmt"
	"time"

	"taskserver/internal/model"
)

// Op identifies one named operation.
type Op string

const (
	OpListTasks        Op = "list_tasks"
	OpGetTask          Op = "get_task"
	OpCreateTask       Op = "create_task"
	OpUpdateTaskStatus Op = "update_task_status"
	OpDeleteTask       Op = "delete_task"
	OpAddTaskComment   Op = "add_task_comment"
	OpGetTaskComments  Op = "get_task_comments"
	OpListCategories   Op = "list_categories"
	OpExecuteQuery     Op = "execute_query"
	OpGetSchema        Op = "get_schema"
)

// ErrUnknownOperation is wrapped by Lookup for names outside the catalog.
var ErrUnknownOperation = errors.New("unknown operation")

// ValidationError reports which field of an argument set violated the
// operation's contract.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
}

// Kind is the expected type of a field value.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindStringList
	// KindTimestamp is an RFC 3339 string, normalized to time.Time.
	KindTimestamp
)

// Field declares the contract of one argument.
type Field struct {
	Name     string
	Kind     Kind
	Required bool
	NonEmpty bool
	Enum     []string
	MaxLen   int
	MaxItems int
	Min, Max int // int bounds, inclusive; both zero means unbounded
}

// Spec declares one operation's contract.
type Spec struct {
	Op          Op
	Description string
	Fields      []Field
}

const maxListLimit = 500

// specTable holds the catalog in registration order.
var specTable = []Spec{
	{
		Op:          OpListTasks,
		Description: "List all tasks, optionally filtered by status, assignee, or priority",
		Fields: []Field{
			{Name: "status", Kind: KindString, Enum: model.Statuses},
			{Name: "assigned_to", Kind: KindString},
			{Name: "priority", Kind: KindString, Enum: model.Priorities},
			{Name: "limit", Kind: KindInt, Min: 1, Max: maxListLimit},
		},
	},
	{
		Op:          OpGetTask,
		Description: "Get details of a specific task by ID",
		Fields: []Field{
			{Name: "task_id", Kind: KindInt, Required: true, Min: 1},
		},
	},
	{
		Op:          OpCreateTask,
		Description: "Create a new task",
		Fields: []Field{
			{Name: "title", Kind: KindString, Required: true, NonEmpty: true, MaxLen: model.MaxTitleLen},
			{Name: "description", Kind: KindString},
			{Name: "priority", Kind: KindString, Enum: model.Priorities},
			{Name: "assigned_to", Kind: KindString},
			{Name: "due_date", Kind: KindTimestamp},
			{Name: "tags", Kind: KindStringList, MaxItems: model.MaxTags},
		},
	},
	{
		Op:          OpUpdateTaskStatus,
		Description: "Update the status of a task",
		Fields: []Field{
			{Name: "task_id", Kind: KindInt, Required: true, Min: 1},
			{Name: "status", Kind: KindString, Required: true, Enum: model.Statuses},
		},
	},
	{
		Op:          OpDeleteTask,
		Description: "Delete a task",
		Fields: []Field{
			{Name: "task_id", Kind: KindInt, Required: true, Min: 1},
		},
	},
	{
		Op:          OpAddTaskComment,
		Description: "Add a comment to a task",
		Fields: []Field{
			{Name: "task_id", Kind: KindInt, Required: true, Min: 1},
			{Name: "comment", Kind: KindString, Required: true, NonEmpty: true},
			{Name: "author", Kind: KindString},
		},
	},
	{
		Op:          OpGetTaskComments,
		Description: "Get all comments for a task",
		Fields: []Field{
			{Name: "task_id", Kind: KindInt, Required: true, Min: 1},
		},
	},
	{
		Op:          OpListCategories,
		Description: "List all available task categories",
	},
	{
		Op:          OpExecuteQuery,
		Description: "Execute a read-only SQL query on the database",
		Fields: []Field{
			{Name: "query", Kind: KindString, Required: true, NonEmpty: true},
		},
	},
	{
		Op:          OpGetSchema,
		Description: "Get database schema information",
	},
}

var specIndex = func() map[Op]Spec {
	idx := make(map[Op]Spec, len(specTable))
	for _, s := range specTable {
		if _, dup := idx[s.Op]; dup {
			panic(fmt.Sprintf("duplicate spec for operation %q", s.Op))
		}
		idx[s.Op] = s
	}
	return idx
}()

// Operations returns the catalog in registration order.
func Operations() []Spec {
	return specTable
}

// Lookup resolves an operation name.
func Lookup(name string) (Spec, error) {
	s, ok := specIndex[Op(name)]
	if !ok {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	return s, nil
}

// Args holds the normalized arguments of a validated invocation.
type Args struct {
	values map[string]any
}

func (a Args) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a Args) String(name string) (string, bool) {
	s, ok := a.values[name].(string)
	return s, ok
}

func (a Args) Int(name string) (int, bool) {
	n, ok := a.values[name].(int)
	return n, ok
}

func (a Args) StringList(name string) ([]string, bool) {
	l, ok := a.values[name].([]string)
	return l, ok
}

func (a Args) Time(name string) (time.Time, bool) {
	t, ok := a.values[name].(time.Time)
	return t, ok
}

// Validate checks args against the contract and returns the normalized
// set. It rejects missing required fields, wrong types, out-of-enum
// values, over-length strings, oversized lists, and out-of-range ints.
func (s Spec) Validate(args map[string]any) (Args, error) {
	normalized := make(map[string]any, len(args))

	for _, f := range s.Fields {
		raw, present := args[f.Name]
		if !present || raw == nil {
			if f.Required {
				return Args{}, &ValidationError{Field: f.Name, Reason: "required field is missing"}
			}
			continue
		}
		value, err := f.normalize(raw)
		if err != nil {
			return Args{}, err
		}
		normalized[f.Name] = value
	}

	if s.Op == OpExecuteQuery {
		query, _ := normalized["query"].(string)
		if err := CheckReadOnly(query); err != nil {
			return Args{}, &ValidationError{Field: "query", Reason: err.Error()}
		}
	}

	return Args{values: normalized}, nil
}

func (f Field) normalize(raw any) (any, error) {
	switch f.Kind {
	case KindString:
		s, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Field: f.Name, Reason: "expected a string"}
		}
		if f.NonEmpty && isBlank(s) {
			return nil, &ValidationError{Field: f.Name, Reason: "must not be empty"}
		}
		if f.MaxLen > 0 && len(s) > f.MaxLen {
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("exceeds %d characters", f.MaxLen)}
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("must be one of %v", f.Enum)}
		}
		return s, nil

	case KindInt:
		n, ok := asInt(raw)
		if !ok {
			return nil, &ValidationError{Field: f.Name, Reason: "expected an integer"}
		}
		if f.Min != 0 && n < f.Min {
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("must be at least %d", f.Min)}
		}
		if f.Max != 0 && n > f.Max {
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("must be at most %d", f.Max)}
		}
		return n, nil

	case KindStringList:
		list, ok := asStringList(raw)
		if !ok {
			return nil, &ValidationError{Field: f.Name, Reason: "expected a list of strings"}
		}
		if f.MaxItems > 0 && len(list) > f.MaxItems {
			return nil, &ValidationError{Field: f.Name, Reason: fmt.Sprintf("more than %d items", f.MaxItems)}
		}
		return list, nil

	case KindTimestamp:
		s, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Field: f.Name, Reason: "expected an RFC 3339 timestamp string"}
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, &ValidationError{Field: f.Name, Reason: "not a valid RFC 3339 timestamp"}
		}
		return t, nil
	}
	return nil, &ValidationError{Field: f.Name, Reason: "unsupported field kind"}
}

// asInt accepts native ints and whole JSON numbers.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func asStringList(v any) ([]string, bool) {
	switch l := v.(type) {
	case []string:
		return l, true
	case []any:
		out := make([]string, 0, len(l))
		for _, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
