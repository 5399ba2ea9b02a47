package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/tool"
)

// Invoker executes canonical tool calls against the task store. It is the
// local stand-in for a remote tool backend: input is a validated tool.Call,
// output is raw JSON that still goes through tool.Normalize like any other
// backend's would.
type Invoker struct {
	store *Store
}

// NewInvoker wraps the store as a tool.Invoker.
func NewInvoker(s *Store) *Invoker {
	return &Invoker{store: s}
}

var _ tool.Invoker = (*Invoker)(nil)

// Invoke dispatches the call by operation name. Missing rows surface as
// tool.ErrNotFound so the normalizer can classify them.
func (i *Invoker) Invoke(ctx context.Context, call *tool.Call) (json.RawMessage, error) {
	args := callArgs(call.Args)

	switch call.Name {
	case tool.OpCreateTodo:
		return i.create(ctx, args)
	case tool.OpListTodos:
		return i.list(ctx, args, "")
	case tool.OpUpdateTodo:
		return i.update(ctx, args)
	case tool.OpDeleteTodo:
		return i.delete(ctx, args)
	case tool.OpGetTodo:
		return i.get(ctx, args)
	case tool.OpSearchTasks:
		return i.list(ctx, args, args.str("keyword"))
	default:
		return nil, fmt.Errorf("unknown operation %q", call.Name)
	}
}

func (i *Invoker) create(ctx context.Context, args callArgs) (json.RawMessage, error) {
	todo, err := i.store.CreateTodo(ctx, args.str("user_id"), args.str("title"),
		args.str("description"), args.str("priority"), args.str("category"))
	if err != nil {
		return nil, err
	}
	return json.Marshal(todo)
}

func (i *Invoker) get(ctx context.Context, args callArgs) (json.RawMessage, error) {
	todo, err := i.store.GetTodo(ctx, args.str("user_id"), args.id())
	if err != nil {
		return nil, mapNotFound(err)
	}
	return json.Marshal(todo)
}

func (i *Invoker) list(ctx context.Context, args callArgs, keyword string) (json.RawMessage, error) {
	filter := TodoFilter{
		Priority: args.str("priority"),
		Category: args.str("category"),
		Keyword:  keyword,
	}
	switch args.str("status") {
	case "pending":
		done := false
		filter.Completed = &done
	case "completed":
		done := true
		filter.Completed = &done
	}

	todos, err := i.store.ListTodos(ctx, args.str("user_id"), filter)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []*Todo{}
	}
	return json.Marshal(todos)
}

func (i *Invoker) update(ctx context.Context, args callArgs) (json.RawMessage, error) {
	var upd TodoUpdate
	if v, ok := args["title"].(string); ok {
		upd.Title = &v
	}
	if v, ok := args["description"].(string); ok {
		upd.Description = &v
	}
	if v, ok := args["completed"].(bool); ok {
		upd.Completed = &v
	}

	todo, err := i.store.UpdateTodo(ctx, args.str("user_id"), args.id(), upd)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return json.Marshal(todo)
}

func (i *Invoker) delete(ctx context.Context, args callArgs) (json.RawMessage, error) {
	id := args.id()
	if err := i.store.DeleteTodo(ctx, args.str("user_id"), id); err != nil {
		return nil, mapNotFound(err)
	}
	return json.Marshal(map[string]any{"ok": true, "task_id": id})
}

func mapNotFound(err error) error {
	if errors.Is(err, ErrTodoNotFound) {
		return fmt.Errorf("%w: %v", tool.ErrNotFound, err)
	}
	return err
}

// callArgs reads values out of a tool call's argument map.
type callArgs map[string]any

func (a callArgs) str(key string) string {
	v, _ := a[key].(string)
	return v
}

// id handles both freshly built calls (Go int) and calls revived from
// persisted JSON (float64).
func (a callArgs) id() int64 {
	switch v := a["task_id"].(type) {
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
