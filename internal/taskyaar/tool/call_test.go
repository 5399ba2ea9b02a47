package tool_test

import (
	"errors"
	"testing"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/tool"
)

func newBuilder(t *testing.T) *tool.Builder {
	t.Helper()
	b, err := tool.NewBuilder()
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

func TestBuildCreate(t *testing.T) {
	b := newBuilder(t)

	call, err := b.Build(intent.CreateTask, intent.Slots{intent.SlotNewContent: "buy milk"}, "@user:example.org")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if call.Name != tool.OpCreateTodo {
		t.Errorf("op = %q, want %q", call.Name, tool.OpCreateTodo)
	}
	if call.Args["title"] != "buy milk" {
		t.Errorf("title = %v, want %q", call.Args["title"], "buy milk")
	}
}

func TestBuildCreateWithoutContent(t *testing.T) {
	b := newBuilder(t)

	_, err := b.Build(intent.CreateTask, intent.Slots{}, "@user:example.org")
	if !errors.Is(err, tool.ErrMissingContent) {
		t.Fatalf("Build err = %v, want ErrMissingContent", err)
	}
}

func TestBuildListDefaultsStatus(t *testing.T) {
	b := newBuilder(t)

	call, err := b.Build(intent.ListTasks, intent.Slots{}, "@user:example.org")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if call.Name != tool.OpListTodos {
		t.Errorf("op = %q, want %q", call.Name, tool.OpListTodos)
	}
	if call.Args["status"] != "all" {
		t.Errorf("status = %v, want %q", call.Args["status"], "all")
	}
}

func TestBuildCompleteMapsToUpdate(t *testing.T) {
	b := newBuilder(t)

	call, err := b.Build(intent.CompleteTask, intent.Slots{intent.SlotTaskID: "3"}, "@user:example.org")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if call.Name != tool.OpUpdateTodo {
		t.Errorf("op = %q, want %q", call.Name, tool.OpUpdateTodo)
	}
	if call.Args["completed"] != true {
		t.Errorf("completed = %v, want true", call.Args["completed"])
	}
	if call.Args["task_id"] != 3 {
		t.Errorf("task_id = %v, want 3", call.Args["task_id"])
	}
}

func TestBuildDelete(t *testing.T) {
	b := newBuilder(t)

	call, err := b.Build(intent.DeleteTask, intent.Slots{intent.SlotTaskID: "9"}, "@user:example.org")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if call.Name != tool.OpDeleteTodo {
		t.Errorf("op = %q, want %q", call.Name, tool.OpDeleteTodo)
	}
}

func TestBuildTargetErrors(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		name  string
		slots intent.Slots
		want  error
	}{
		{"no target at all", intent.Slots{}, tool.ErrMissingTarget},
		{"non-numeric id", intent.Slots{intent.SlotTaskID: "abc"}, tool.ErrMalformedSlot},
		{"zero id", intent.Slots{intent.SlotTaskID: "0"}, tool.ErrMalformedSlot},
		{"negative id", intent.Slots{intent.SlotTaskID: "-4"}, tool.ErrMalformedSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(intent.DeleteTask, tt.slots, "@user:example.org")
			if !errors.Is(err, tt.want) {
				t.Errorf("Build err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildSearchFilters(t *testing.T) {
	b := newBuilder(t)

	call, err := b.Build(intent.SearchTasks, intent.Slots{
		intent.SlotPriority: "high",
		intent.SlotCategory: "work",
		intent.SlotKeyword:  "report",
	}, "@user:example.org")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if call.Name != tool.OpSearchTasks {
		t.Errorf("op = %q, want %q", call.Name, tool.OpSearchTasks)
	}
	for arg, want := range map[string]string{
		"status": "all", "priority": "high", "category": "work", "keyword": "report",
	} {
		if call.Args[arg] != want {
			t.Errorf("arg %s = %v, want %q", arg, call.Args[arg], want)
		}
	}
}

func TestBuildGet(t *testing.T) {
	b := newBuilder(t)

	call, err := b.BuildGet(5, "@user:example.org")
	if err != nil {
		t.Fatalf("BuildGet: %v", err)
	}
	if call.Name != tool.OpGetTodo {
		t.Errorf("op = %q, want %q", call.Name, tool.OpGetTodo)
	}
	if call.Args["task_id"] != 5 {
		t.Errorf("task_id = %v, want 5", call.Args["task_id"])
	}
}

func TestBuildUpdateRequiresContent(t *testing.T) {
	b := newBuilder(t)

	_, err := b.Build(intent.UpdateTask, intent.Slots{intent.SlotTaskID: "2"}, "@user:example.org")
	if !errors.Is(err, tool.ErrMissingContent) {
		t.Fatalf("Build err = %v, want ErrMissingContent", err)
	}
}
