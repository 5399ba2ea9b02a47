package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/conv"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/store"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/tool"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

const user = "@alice:example.org"

func TestTodoLifecycle(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateTodo(ctx, user, "buy milk", "", "", "shopping")
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if created.ID == 0 || created.Title != "buy milk" || created.Completed {
		t.Fatalf("created = %+v", created)
	}
	if created.Priority != "medium" {
		t.Errorf("default priority = %q, want medium", created.Priority)
	}

	got, err := s.GetTodo(ctx, user, created.ID)
	if err != nil {
		t.Fatalf("GetTodo: %v", err)
	}
	if got.Title != "buy milk" || got.Category != "shopping" {
		t.Errorf("got = %+v", got)
	}

	done := true
	updated, err := s.UpdateTodo(ctx, user, created.ID, store.TodoUpdate{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	if !updated.Completed {
		t.Error("update did not set completed")
	}

	if err := s.DeleteTodo(ctx, user, created.ID); err != nil {
		t.Fatalf("DeleteTodo: %v", err)
	}
	if _, err := s.GetTodo(ctx, user, created.ID); !errors.Is(err, store.ErrTodoNotFound) {
		t.Errorf("GetTodo after delete = %v, want ErrTodoNotFound", err)
	}
}

func TestTodoNotFound(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.GetTodo(ctx, user, 99); !errors.Is(err, store.ErrTodoNotFound) {
		t.Errorf("GetTodo = %v, want ErrTodoNotFound", err)
	}
	if err := s.DeleteTodo(ctx, user, 99); !errors.Is(err, store.ErrTodoNotFound) {
		t.Errorf("DeleteTodo = %v, want ErrTodoNotFound", err)
	}
	title := "x"
	if _, err := s.UpdateTodo(ctx, user, 99, store.TodoUpdate{Title: &title}); !errors.Is(err, store.ErrTodoNotFound) {
		t.Errorf("UpdateTodo = %v, want ErrTodoNotFound", err)
	}
}

func TestTodoUserIsolation(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	created, err := s.CreateTodo(ctx, user, "private", "", "", "")
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}
	if _, err := s.GetTodo(ctx, "@bob:example.org", created.ID); !errors.Is(err, store.ErrTodoNotFound) {
		t.Errorf("another user's GetTodo = %v, want ErrTodoNotFound", err)
	}
}

func TestListTodosFilters(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	seed := []struct {
		title    string
		priority string
		category string
		done     bool
	}{
		{"buy milk", "high", "shopping", false},
		{"call mom", "", "home", true},
		{"write report", "high", "work", false},
	}
	for _, row := range seed {
		created, err := s.CreateTodo(ctx, user, row.title, "", row.priority, row.category)
		if err != nil {
			t.Fatalf("CreateTodo(%s): %v", row.title, err)
		}
		if row.done {
			done := true
			if _, err := s.UpdateTodo(ctx, user, created.ID, store.TodoUpdate{Completed: &done}); err != nil {
				t.Fatalf("UpdateTodo(%s): %v", row.title, err)
			}
		}
	}

	all, err := s.ListTodos(ctx, user, store.TodoFilter{})
	if err != nil {
		t.Fatalf("ListTodos: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("all = %d rows, want 3", len(all))
	}
	// Insertion order is the display order.
	if all[0].Title != "buy milk" || all[2].Title != "write report" {
		t.Errorf("order = %q, %q, %q", all[0].Title, all[1].Title, all[2].Title)
	}

	pending := false
	open, err := s.ListTodos(ctx, user, store.TodoFilter{Completed: &pending})
	if err != nil {
		t.Fatalf("ListTodos pending: %v", err)
	}
	if len(open) != 2 {
		t.Errorf("pending = %d rows, want 2", len(open))
	}

	high, err := s.ListTodos(ctx, user, store.TodoFilter{Priority: "high", Category: "work"})
	if err != nil {
		t.Fatalf("ListTodos filtered: %v", err)
	}
	if len(high) != 1 || high[0].Title != "write report" {
		t.Errorf("filtered = %+v, want just the report", high)
	}

	byKeyword, err := s.ListTodos(ctx, user, store.TodoFilter{Keyword: "MILK"})
	if err != nil {
		t.Fatalf("ListTodos keyword: %v", err)
	}
	if len(byKeyword) != 1 || byKeyword[0].Title != "buy milk" {
		t.Errorf("keyword search = %+v, want case-insensitive match on buy milk", byKeyword)
	}
}

func TestHistoryLastN(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	const conversation = "!room:example.org:" + user

	for i, text := range []string{"first", "second", "third"} {
		role := conv.RoleUser
		if i%2 == 1 {
			role = conv.RoleAssistant
		}
		if err := s.AppendUtterance(ctx, conversation, role, text); err != nil {
			t.Fatalf("AppendUtterance(%s): %v", text, err)
		}
	}

	got, err := s.LastN(ctx, conversation, 2)
	if err != nil {
		t.Fatalf("LastN: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("LastN = %d rows, want 2", len(got))
	}
	// Chronological order within the window.
	if got[0].Content != "second" || got[1].Content != "third" {
		t.Errorf("window = %q, %q — want second, third", got[0].Content, got[1].Content)
	}

	if rows, err := s.LastN(ctx, "unseen-conversation", 5); err != nil || len(rows) != 0 {
		t.Errorf("LastN(new conversation) = %v rows, err %v; want empty", len(rows), err)
	}
}

func TestInvokerCreateAndList(t *testing.T) {
	s := newStore(t)
	inv := store.NewInvoker(s)
	ctx := context.Background()

	raw, err := inv.Invoke(ctx, &tool.Call{Name: tool.OpCreateTodo, Args: map[string]any{
		"user_id": user, "title": "buy milk",
	}})
	if err != nil {
		t.Fatalf("Invoke create: %v", err)
	}
	res := tool.Normalize(raw)
	if !res.OK() || res.Payload.Get("title").String() != "buy milk" {
		t.Fatalf("create result = %s (err %v)", raw, res.Err)
	}
	id := res.Payload.Get("id").Int()
	if id == 0 {
		t.Fatal("create result carries no id")
	}

	raw, err = inv.Invoke(ctx, &tool.Call{Name: tool.OpListTodos, Args: map[string]any{
		"user_id": user, "status": "pending",
	}})
	if err != nil {
		t.Fatalf("Invoke list: %v", err)
	}
	res = tool.Normalize(raw)
	if n := len(res.Payload.Array()); n != 1 {
		t.Errorf("list = %d items, want 1", n)
	}
}

func TestInvokerDeleteShape(t *testing.T) {
	s := newStore(t)
	inv := store.NewInvoker(s)
	ctx := context.Background()

	created, err := s.CreateTodo(ctx, user, "temp", "", "", "")
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	raw, err := inv.Invoke(ctx, &tool.Call{Name: tool.OpDeleteTodo, Args: map[string]any{
		"user_id": user, "task_id": int(created.ID),
	}})
	if err != nil {
		t.Fatalf("Invoke delete: %v", err)
	}
	var shape struct {
		OK     bool  `json:"ok"`
		TaskID int64 `json:"task_id"`
	}
	if err := json.Unmarshal(raw, &shape); err != nil {
		t.Fatalf("delete result %s: %v", raw, err)
	}
	if !shape.OK || shape.TaskID != created.ID {
		t.Errorf("delete result = %+v", shape)
	}
}

func TestInvokerMissingTask(t *testing.T) {
	s := newStore(t)
	inv := store.NewInvoker(s)
	ctx := context.Background()

	for _, op := range []string{tool.OpGetTodo, tool.OpDeleteTodo} {
		_, err := inv.Invoke(ctx, &tool.Call{Name: op, Args: map[string]any{
			"user_id": user, "task_id": 404,
		}})
		if !errors.Is(err, tool.ErrNotFound) {
			t.Errorf("Invoke %s on missing task = %v, want tool.ErrNotFound", op, err)
		}
	}
}

func TestInvokerCompleteViaUpdate(t *testing.T) {
	s := newStore(t)
	inv := store.NewInvoker(s)
	ctx := context.Background()

	created, err := s.CreateTodo(ctx, user, "finishable", "", "", "")
	if err != nil {
		t.Fatalf("CreateTodo: %v", err)
	}

	raw, err := inv.Invoke(ctx, &tool.Call{Name: tool.OpUpdateTodo, Args: map[string]any{
		"user_id": user, "task_id": int(created.ID), "completed": true,
	}})
	if err != nil {
		t.Fatalf("Invoke update: %v", err)
	}
	res := tool.Normalize(raw)
	if !res.Payload.Get("completed").Bool() {
		t.Errorf("update result = %s, want completed true", raw)
	}
}
