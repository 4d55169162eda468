package mcpserver

import (
	"context"
	"strings"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"taskserver/internal/dispatcher"
	"taskserver/internal/model"
)

type stubStore struct {
	tasks  []model.Task
	schema map[string][]model.Column
}

func (s *stubStore) ListTasks(context.Context, model.TaskFilter) ([]model.Task, error) {
	return s.tasks, nil
}
func (s *stubStore) TaskByID(context.Context, int) (*model.Task, error) { return nil, nil }
func (s *stubStore) CreateTask(context.Context, model.NewTask) (*model.Task, error) {
	return nil, nil
}
func (s *stubStore) UpdateTaskStatus(context.Context, int, string) (bool, error) {
	return false, nil
}
func (s *stubStore) DeleteTask(context.Context, int) (bool, error) { return false, nil }
func (s *stubStore) AddComment(context.Context, int, string, *string) (*model.Comment, error) {
	return nil, nil
}
func (s *stubStore) CommentsForTask(context.Context, int) ([]model.Comment, error) {
	return nil, nil
}
func (s *stubStore) Categories(context.Context) ([]model.Category, error) { return nil, nil }
func (s *stubStore) RunQuery(context.Context, string) ([]map[string]any, error) {
	return nil, nil
}
func (s *stubStore) Schema(context.Context) (map[string][]model.Column, error) {
	return s.schema, nil
}

func newTestServer(store dispatcher.Store) *Server {
	return New(dispatcher.New(store, zap.NewNop()), zap.NewNop())
}

func TestToolResultMapsBlocksAndErrorFlag(t *testing.T) {
	t.Parallel()

	resp := dispatcher.Response{
		Blocks: []dispatcher.Block{
			{Type: dispatcher.BlockTypeText, Text: "head"},
			{Type: dispatcher.BlockTypeJSON, Text: `{"id": 1}`},
		},
		IsError: true,
	}

	result := toolResult(resp)
	if !result.IsError {
		t.Error("IsError flag lost")
	}
	if len(result.Content) != 2 {
		t.Fatalf("expected 2 content blocks, got %d", len(result.Content))
	}
	for i, want := range []string{"head", `{"id": 1}`} {
		tc, ok := result.Content[i].(*mcpsdk.TextContent)
		if !ok {
			t.Fatalf("content %d is %T, want *TextContent", i, result.Content[i])
		}
		if tc.Text != want {
			t.Errorf("content %d text %q, want %q", i, tc.Text, want)
		}
	}
}

func TestHandleResourceKnownURI(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubStore{tasks: []model.Task{{ID: 1, Title: "x"}}})

	result, err := s.handleResource(context.Background(), &mcpsdk.ReadResourceRequest{
		Params: &mcpsdk.ReadResourceParams{URI: "task://all"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected 1 content entry, got %d", len(result.Contents))
	}
	c := result.Contents[0]
	if c.URI != "task://all" || c.MIMEType != "application/json" {
		t.Errorf("unexpected content metadata %+v", c)
	}
	if !strings.Contains(c.Text, `"count": 1`) {
		t.Errorf("unexpected document %q", c.Text)
	}
}

func TestHandleResourceUnknownURI(t *testing.T) {
	t.Parallel()

	s := newTestServer(&stubStore{})

	_, err := s.handleResource(context.Background(), &mcpsdk.ReadResourceRequest{
		Params: &mcpsdk.ReadResourceParams{URI: "task://archived"},
	})
	if err == nil {
		t.Fatal("expected error for unknown resource")
	}
}
