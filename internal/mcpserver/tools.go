package mcpserver

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"taskserver/internal/dispatcher"
	"taskserver/internal/registry"
)

type listTasksInput struct {
	Status     string `json:"status,omitempty" jsonschema:"Filter by status: pending, in_progress, completed, cancelled"`
	AssignedTo string `json:"assigned_to,omitempty" jsonschema:"Filter by assignee"`
	Priority   string `json:"priority,omitempty" jsonschema:"Filter by priority: low, medium, high, urgent"`
	Limit      int    `json:"limit,omitempty" jsonschema:"Maximum number of tasks to return (1-500)"`
}

type getTaskInput struct {
	TaskID int `json:"task_id" jsonschema:"Task ID"`
}

type createTaskInput struct {
	Title       string   `json:"title" jsonschema:"Task title"`
	Description string   `json:"description,omitempty" jsonschema:"Task description"`
	Priority    string   `json:"priority,omitempty" jsonschema:"Priority: low, medium, high, urgent (defaults to medium)"`
	AssignedTo  string   `json:"assigned_to,omitempty" jsonschema:"Assignee"`
	DueDate     string   `json:"due_date,omitempty" jsonschema:"Due date as an RFC 3339 timestamp"`
	Tags        []string `json:"tags,omitempty" jsonschema:"Tags (at most 10)"`
}

type updateTaskStatusInput struct {
	TaskID int    `json:"task_id" jsonschema:"Task ID"`
	Status string `json:"status" jsonschema:"New status: pending, in_progress, completed, cancelled"`
}

type deleteTaskInput struct {
	TaskID int `json:"task_id" jsonschema:"Task ID"`
}

type addTaskCommentInput struct {
	TaskID  int    `json:"task_id" jsonschema:"Task ID"`
	Comment string `json:"comment" jsonschema:"Comment text"`
	Author  string `json:"author,omitempty" jsonschema:"Comment author (defaults to Anonymous)"`
}

type getTaskCommentsInput struct {
	TaskID int `json:"task_id" jsonschema:"Task ID"`
}

type listCategoriesInput struct{}

type executeQueryInput struct {
	Query string `json:"query" jsonschema:"A single read-only SELECT statement"`
}

type getSchemaInput struct{}

func (s *Server) registerTools(srv *mcpsdk.Server) {
	addTool(s, srv, registry.OpListTasks, func(in listTasksInput) map[string]any {
		args := map[string]any{}
		putString(args, "status", in.Status)
		putString(args, "assigned_to", in.AssignedTo)
		putString(args, "priority", in.Priority)
		if in.Limit != 0 {
			args["limit"] = in.Limit
		}
		return args
	})
	addTool(s, srv, registry.OpGetTask, func(in getTaskInput) map[string]any {
		return map[string]any{"task_id": in.TaskID}
	})
	addTool(s, srv, registry.OpCreateTask, func(in createTaskInput) map[string]any {
		args := map[string]any{"title": in.Title}
		putString(args, "description", in.Description)
		putString(args, "priority", in.Priority)
		putString(args, "assigned_to", in.AssignedTo)
		putString(args, "due_date", in.DueDate)
		if len(in.Tags) > 0 {
			args["tags"] = in.Tags
		}
		return args
	})
	addTool(s, srv, registry.OpUpdateTaskStatus, func(in updateTaskStatusInput) map[string]any {
		return map[string]any{"task_id": in.TaskID, "status": in.Status}
	})
	addTool(s, srv, registry.OpDeleteTask, func(in deleteTaskInput) map[string]any {
		return map[string]any{"task_id": in.TaskID}
	})
	addTool(s, srv, registry.OpAddTaskComment, func(in addTaskCommentInput) map[string]any {
		args := map[string]any{"task_id": in.TaskID, "comment": in.Comment}
		putString(args, "author", in.Author)
		return args
	})
	addTool(s, srv, registry.OpGetTaskComments, func(in getTaskCommentsInput) map[string]any {
		return map[string]any{"task_id": in.TaskID}
	})
	addTool(s, srv, registry.OpListCategories, func(listCategoriesInput) map[string]any {
		return map[string]any{}
	})
	addTool(s, srv, registry.OpExecuteQuery, func(in executeQueryInput) map[string]any {
		return map[string]any{"query": in.Query}
	})
	addTool(s, srv, registry.OpGetSchema, func(getSchemaInput) map[string]any {
		return map[string]any{}
	})
}

// addTool registers one operation, bridging the typed protocol input to
// the dispatcher's argument map. The dispatcher validates; the SDK
// schema derived from In is a first-pass filter only.
func addTool[In any](s *Server, srv *mcpsdk.Server, op registry.Op, fold func(In) map[string]any) {
	spec, err := registry.Lookup(string(op))
	if err != nil {
		panic(err)
	}
	mcpsdk.AddTool(srv, &mcpsdk.Tool{
		Name:        string(op),
		Description: spec.Description,
	}, func(ctx context.Context, _ *mcpsdk.CallToolRequest, in In) (*mcpsdk.CallToolResult, any, error) {
		resp := s.dispatcher.Invoke(ctx, string(op), fold(in))
		return toolResult(resp), nil, nil
	})
}

func toolResult(resp dispatcher.Response) *mcpsdk.CallToolResult {
	content := make([]mcpsdk.Content, 0, len(resp.Blocks))
	for _, b := range resp.Blocks {
		content = append(content, &mcpsdk.TextContent{Text: b.Text})
	}
	return &mcpsdk.CallToolResult{Content: content, IsError: resp.IsError}
}

func putString(args map[string]any, name, value string) {
	if value != "" {
		args[name] = value
	}
}
