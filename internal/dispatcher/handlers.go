package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"taskserver/internal/model"
	"taskserver/internal/registry"
)

func (d *Dispatcher) handleListTasks(ctx context.Context, args registry.Args) (Response, error) {
	var f model.TaskFilter
	if s, ok := args.String("status"); ok {
		f.Status = s
	}
	if s, ok := args.String("assigned_to"); ok {
		f.AssignedTo = s
	}
	if s, ok := args.String("priority"); ok {
		f.Priority = s
	}
	if n, ok := args.Int("limit"); ok {
		f.Limit = n
	}

	tasks, err := d.store.ListTasks(ctx, f)
	if err != nil {
		return Response{}, err
	}

	var b strings.Builder
	if f.Status != "" {
		fmt.Fprintf(&b, "Tasks with status '%s':\n\n", f.Status)
	} else {
		b.WriteString("All tasks:\n\n")
	}
	if len(tasks) == 0 {
		b.WriteString("No tasks found.")
		return textResponse(b.String()), nil
	}
	for _, t := range tasks {
		fmt.Fprintf(&b, "ID: %d\nTitle: %s\nStatus: %s\nPriority: %s\n",
			t.ID, t.Title, t.Status, t.Priority)
		if t.AssignedTo != nil {
			fmt.Fprintf(&b, "Assigned to: %s\n", *t.AssignedTo)
		}
		if len(t.Categories) > 0 {
			fmt.Fprintf(&b, "Categories: %s\n", strings.Join(t.Categories, ", "))
		}
		fmt.Fprintf(&b, "Created: %s\n---\n", t.CreatedAt.Format(time.RFC3339))
	}
	return textResponse(b.String()), nil
}

func (d *Dispatcher) handleGetTask(ctx context.Context, args registry.Args) (Response, error) {
	id, _ := args.Int("task_id")
	task, err := d.store.TaskByID(ctx, id)
	if err != nil {
		return Response{}, err
	}
	if task == nil {
		return textResponse(fmt.Sprintf("Task with ID %d not found.", id)), nil
	}

	block, err := jsonBlock(task)
	if err != nil {
		return Response{}, err
	}
	return Response{Blocks: []Block{
		{Type: BlockTypeText, Text: fmt.Sprintf("Task %d: %s", task.ID, task.Title)},
		block,
	}}, nil
}

func (d *Dispatcher) handleCreateTask(ctx context.Context, args registry.Args) (Response, error) {
	nt := model.NewTask{Priority: model.PriorityMedium}
	nt.Title, _ = args.String("title")
	if s, ok := args.String("description"); ok {
		nt.Description = &s
	}
	if s, ok := args.String("priority"); ok {
		nt.Priority = s
	}
	if s, ok := args.String("assigned_to"); ok {
		nt.AssignedTo = &s
	}
	if ts, ok := args.Time("due_date"); ok {
		nt.DueDate = &ts
	}
	if tags, ok := args.StringList("tags"); ok {
		nt.Tags = tags
	}

	task, err := d.store.CreateTask(ctx, nt)
	if err != nil {
		return Response{}, err
	}

	block, err := jsonBlock(task)
	if err != nil {
		return Response{}, err
	}
	text := fmt.Sprintf("Task created successfully!\n\nID: %d\nTitle: %s\nStatus: %s\nPriority: %s",
		task.ID, task.Title, task.Status, task.Priority)
	return Response{Blocks: []Block{{Type: BlockTypeText, Text: text}, block}}, nil
}

func (d *Dispatcher) handleUpdateTaskStatus(ctx context.Context, args registry.Args) (Response, error) {
	id, _ := args.Int("task_id")
	status, _ := args.String("status")

	updated, err := d.store.UpdateTaskStatus(ctx, id, status)
	if err != nil {
		return Response{}, err
	}
	if !updated {
		return textResponse(fmt.Sprintf("Failed to update task %d status.", id)), nil
	}
	return textResponse(fmt.Sprintf("Task %d status updated to '%s' successfully.", id, status)), nil
}

func (d *Dispatcher) handleDeleteTask(ctx context.Context, args registry.Args) (Response, error) {
	id, _ := args.Int("task_id")

	deleted, err := d.store.DeleteTask(ctx, id)
	if err != nil {
		return Response{}, err
	}
	if !deleted {
		return textResponse(fmt.Sprintf("Failed to delete task %d.", id)), nil
	}
	return textResponse(fmt.Sprintf("Task %d deleted successfully.", id)), nil
}

func (d *Dispatcher) handleAddTaskComment(ctx context.Context, args registry.Args) (Response, error) {
	id, _ := args.Int("task_id")
	text, _ := args.String("comment")
	author := "Anonymous"
	if s, ok := args.String("author"); ok && s != "" {
		author = s
	}

	comment, err := d.store.AddComment(ctx, id, text, &author)
	if err != nil {
		return Response{}, err
	}

	block, err := jsonBlock(comment)
	if err != nil {
		return Response{}, err
	}
	head := fmt.Sprintf("Comment added to task %d:\n\nAuthor: %s\nComment: %s\nCreated: %s",
		id, author, comment.Comment, comment.CreatedAt.Format(time.RFC3339))
	return Response{Blocks: []Block{{Type: BlockTypeText, Text: head}, block}}, nil
}

func (d *Dispatcher) handleGetTaskComments(ctx context.Context, args registry.Args) (Response, error) {
	id, _ := args.Int("task_id")

	comments, err := d.store.CommentsForTask(ctx, id)
	if err != nil {
		return Response{}, err
	}
	if len(comments) == 0 {
		return textResponse(fmt.Sprintf("No comments found for task %d.", id)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Comments for task %d:\n\n", id)
	for _, c := range comments {
		author := "Anonymous"
		if c.Author != nil {
			author = *c.Author
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n---\n",
			c.CreatedAt.Format(time.RFC3339), author, c.Comment)
	}
	return textResponse(b.String()), nil
}

func (d *Dispatcher) handleListCategories(ctx context.Context, _ registry.Args) (Response, error) {
	categories, err := d.store.Categories(ctx)
	if err != nil {
		return Response{}, err
	}
	if len(categories) == 0 {
		return textResponse("No categories found."), nil
	}

	var b strings.Builder
	b.WriteString("Available categories:\n\n")
	for _, c := range categories {
		description := "No description"
		if c.Description != nil {
			description = *c.Description
		}
		fmt.Fprintf(&b, "ID: %d\nName: %s\nDescription: %s\nColor: %s\n---\n",
			c.ID, c.Name, description, c.Color)
	}
	return textResponse(b.String()), nil
}

func (d *Dispatcher) handleExecuteQuery(ctx context.Context, args registry.Args) (Response, error) {
	query, _ := args.String("query")

	rows, err := d.store.RunQuery(ctx, query)
	if err != nil {
		return Response{}, err
	}
	if len(rows) == 0 {
		return textResponse("Query executed successfully. No results returned."), nil
	}

	block, err := jsonBlock(rows)
	if err != nil {
		return Response{}, err
	}
	head := fmt.Sprintf("Query Results (%d rows):", len(rows))
	return Response{Blocks: []Block{{Type: BlockTypeText, Text: head}, block}}, nil
}

func (d *Dispatcher) handleGetSchema(ctx context.Context, _ registry.Args) (Response, error) {
	schema, err := d.store.Schema(ctx)
	if err != nil {
		return Response{}, err
	}

	tables := make([]string, 0, len(schema))
	for name := range schema {
		tables = append(tables, name)
	}
	sort.Strings(tables)

	var b strings.Builder
	b.WriteString("Database Schema:\n")
	for _, name := range tables {
		fmt.Fprintf(&b, "\nTable: %s\n", name)
		for _, col := range schema[name] {
			nullable := " (not null)"
			if col.Nullable {
				nullable = " (nullable)"
			}
			fmt.Fprintf(&b, "  - %s: %s%s", col.Name, col.Type, nullable)
			if col.Default != nil {
				fmt.Fprintf(&b, " default: %s", *col.Default)
			}
			b.WriteString("\n")
		}
	}
	return textResponse(b.String()), nil
}
