// Package intent maps free-text utterances to task intents and slot values
// using an ordered, language-aware rule table.
//
// Rules are evaluated most-specific-first and the first rule whose pattern
// matches wins — there is no scoring, so classification is deterministic for
// a given (text, language) pair. English and Urdu lexicons share the same
// rule shape (pattern → intent + slot extractors) so behaviour is uniform
// across languages.
package intent

// Intent identifies the canonical operation a user utterance maps to.
type Intent string

const (
	// CreateTask adds a new task.
	CreateTask Intent = "create_task"
	// ListTasks lists existing tasks, optionally filtered by status.
	ListTasks Intent = "list_tasks"
	// UpdateTask rewrites the title of an existing task.
	UpdateTask Intent = "update_task"
	// CompleteTask marks an existing task as done.
	CompleteTask Intent = "complete_task"
	// DeleteTask removes a task. Destructive — gated behind confirmation.
	DeleteTask Intent = "delete_task"
	// SearchTasks searches tasks by priority, category, and/or keyword.
	SearchTasks Intent = "search_tasks"
	// Confirm is an affirmative reply to a pending confirmation prompt.
	Confirm Intent = "confirm"
	// Deny is a negative reply to a pending confirmation prompt.
	Deny Intent = "deny"
	// Unknown means no rule matched. The caller must not invoke any tool
	// and should ask the user for clarification.
	Unknown Intent = "unknown"
)

// Destructive reports whether the intent removes data and therefore must
// pass the confirmation gate before its tool call fires.
func (i Intent) Destructive() bool {
	return i == DeleteTask
}

// RequiresTarget reports whether the intent needs a concrete task reference
// (task_id or search_term) before it can be turned into a tool call.
func (i Intent) RequiresTarget() bool {
	switch i {
	case UpdateTask, CompleteTask, DeleteTask:
		return true
	}
	return false
}

// Slot names. Keys are unique within a slot set; there are no ordering
// semantics.
const (
	SlotTaskID       = "task_id"
	SlotSearchTerm   = "search_term"
	SlotNewContent   = "new_content"
	SlotStatusFilter = "status_filter"
	SlotPriority     = "priority"
	SlotCategory     = "category"
	SlotKeyword      = "keyword"
)

// Slots holds the named values extracted from an utterance.
type Slots map[string]string

// Clone returns a shallow copy so callers can fill missing slots without
// mutating the matcher's output.
func (s Slots) Clone() Slots {
	out := make(Slots, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Has reports whether the named slot is present and non-empty.
func (s Slots) Has(name string) bool {
	return s[name] != ""
}
