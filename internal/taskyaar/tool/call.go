// Package tool converts resolved intents into canonical tool calls and
// normalizes whatever shape the external task store returns into a single
// internal result type. Nothing downstream of this package inspects raw
// store output.
package tool

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
)

// Operation names are the contract surface with the tool layer. They are
// stable identifiers — renaming any of them requires a compatibility shim.
const (
	OpCreateTodo  = "create_todo"
	OpListTodos   = "list_todos"
	OpUpdateTodo  = "update_todo"
	OpDeleteTodo  = "delete_todo"
	OpGetTodo     = "get_todo"
	OpSearchTasks = "search_tasks"
)

// Call is the canonical, tool-agnostic shape of an external operation
// invocation.
type Call struct {
	Name string         `json:"name"`
	Args map[string]any `json:"arguments"`
}

// Invoker executes a canonical tool call against the external task store
// and returns the raw JSON payload. Implementations own their timeouts;
// the interpreter only passes ctx through.
type Invoker interface {
	Invoke(ctx context.Context, call *Call) (json.RawMessage, error)
}

// Builder errors. The engine converts these into user-facing clarification
// messages; they never reach the caller of process() as hard failures.
var (
	// ErrMissingTarget means the intent needs a task reference and neither
	// task_id nor search_term survived resolution.
	ErrMissingTarget = errors.New("tool: no task reference in slots")
	// ErrMalformedSlot means a slot value failed validation (e.g. a
	// non-numeric task id) and no tool call may be built from it.
	ErrMalformedSlot = errors.New("tool: malformed slot value")
	// ErrMissingContent means a create/update had no usable text content.
	ErrMissingContent = errors.New("tool: no content in slots")
)

//go:embed schemas/*.json
var schemasFS embed.FS

// Builder maps intents to canonical calls and validates every argument set
// against the operation's embedded JSON Schema before it leaves the
// interpreter. A schema that fails to compile is a startup error.
type Builder struct {
	schemas map[string]*jsonschema.Schema
}

// NewBuilder compiles the embedded operation schemas. It fails fast: a
// missing or invalid schema aborts startup before any turn is processed.
func NewBuilder() (*Builder, error) {
	ops := []string{OpCreateTodo, OpListTodos, OpUpdateTodo, OpDeleteTodo, OpGetTodo, OpSearchTasks}

	compiler := jsonschema.NewCompiler()
	for _, op := range ops {
		raw, err := schemasFS.ReadFile("schemas/" + op + ".json")
		if err != nil {
			return nil, fmt.Errorf("tool: read schema for %s: %w", op, err)
		}
		if err := compiler.AddResource(op+".json", bytes.NewReader(raw)); err != nil {
			return nil, fmt.Errorf("tool: add schema for %s: %w", op, err)
		}
	}

	schemas := make(map[string]*jsonschema.Schema, len(ops))
	for _, op := range ops {
		s, err := compiler.Compile(op + ".json")
		if err != nil {
			return nil, fmt.Errorf("tool: compile schema for %s: %w", op, err)
		}
		schemas[op] = s
	}
	return &Builder{schemas: schemas}, nil
}

// Build maps a resolved intent and its slots onto a canonical call.
// Missing optional slots are filled with their documented defaults
// (status_filter defaults to "all"). Confirm/Deny/Unknown never reach
// Build — the engine consumes them before invocation.
func (b *Builder) Build(in intent.Intent, slots intent.Slots, userID string) (*Call, error) {
	args := map[string]any{"user_id": userID}

	switch in {
	case intent.CreateTask:
		title := slots[intent.SlotNewContent]
		if title == "" {
			return nil, ErrMissingContent
		}
		args["title"] = title

	case intent.ListTasks:
		status := slots[intent.SlotStatusFilter]
		if status == "" {
			status = "all"
		}
		args["status"] = status
		return b.finish(OpListTodos, args)

	case intent.UpdateTask:
		id, err := b.taskID(slots)
		if err != nil {
			return nil, err
		}
		title := slots[intent.SlotNewContent]
		if title == "" {
			return nil, ErrMissingContent
		}
		args["task_id"] = id
		args["title"] = title
		return b.finish(OpUpdateTodo, args)

	case intent.CompleteTask:
		// The canonical operation set has no complete_todo; completion is
		// an update with the completed flag.
		id, err := b.taskID(slots)
		if err != nil {
			return nil, err
		}
		args["task_id"] = id
		args["completed"] = true
		return b.finish(OpUpdateTodo, args)

	case intent.DeleteTask:
		id, err := b.taskID(slots)
		if err != nil {
			return nil, err
		}
		args["task_id"] = id
		return b.finish(OpDeleteTodo, args)

	case intent.SearchTasks:
		status := slots[intent.SlotStatusFilter]
		if status == "" {
			status = "all"
		}
		args["status"] = status
		for slot, arg := range map[string]string{
			intent.SlotPriority: "priority",
			intent.SlotCategory: "category",
			intent.SlotKeyword:  "keyword",
		} {
			if v := slots[slot]; v != "" {
				args[arg] = v
			}
		}
		return b.finish(OpSearchTasks, args)

	default:
		return nil, fmt.Errorf("tool: intent %q has no tool mapping", in)
	}

	return b.finish(OpCreateTodo, args)
}

// BuildGet builds a get_todo call for the given task id. The engine uses it
// to verify a deletion target exists (and fetch its title for the
// confirmation prompt) before gating.
func (b *Builder) BuildGet(taskID int, userID string) (*Call, error) {
	return b.finish(OpGetTodo, map[string]any{"user_id": userID, "task_id": taskID})
}

// taskID parses the task_id slot, requiring it to be present and numeric.
func (b *Builder) taskID(slots intent.Slots) (int, error) {
	raw := slots[intent.SlotTaskID]
	if raw == "" {
		return 0, ErrMissingTarget
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: task id %q is not a positive integer", ErrMalformedSlot, raw)
	}
	return id, nil
}

// finish validates args against the operation's schema and wraps them in a
// Call. A validation failure here is an interpreter bug, not user error,
// and is returned as a plain error for the fail-soft layer to log.
func (b *Builder) finish(op string, args map[string]any) (*Call, error) {
	schema, ok := b.schemas[op]
	if !ok {
		return nil, fmt.Errorf("tool: no schema for operation %q", op)
	}

	// Round-trip through JSON so the validator sees plain decoded values
	// (float64 numbers, not Go ints).
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("tool: encode args for %s: %w", op, err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("tool: decode args for %s: %w", op, err)
	}
	if err := schema.Validate(decoded); err != nil {
		return nil, fmt.Errorf("tool: args for %s fail schema: %w", op, err)
	}

	return &Call{Name: op, Args: args}, nil
}
