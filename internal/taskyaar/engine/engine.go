// Package engine runs the turn pipeline: detect language, match the
// utterance against the rule table, resolve missing targets from history,
// gate destructive operations behind a confirmation, invoke the tool layer,
// and render the reply.
//
// The engine is stateless between turns. Conversation history and the
// pending confirmation are re-read from the store on every call, so a
// process restart mid-conversation changes nothing about the next turn.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/confirm"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/conv"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/reply"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/resolve"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/tool"
)

// HistoryStore persists and reloads conversation turns.
type HistoryStore interface {
	AppendUtterance(ctx context.Context, conversationID, role, content string) error
	LastN(ctx context.Context, conversationID string, n int) ([]conv.Utterance, error)
}

// PendingStore persists the per-conversation confirmation gate.
type PendingStore interface {
	Put(ctx context.Context, p *confirm.Pending) error
	Get(ctx context.Context, conversationID string) (*confirm.Pending, error)
	Clear(ctx context.Context, conversationID string) error
}

// Turn is one user utterance addressed to the interpreter.
type Turn struct {
	// ConversationID scopes history and the confirmation gate.
	ConversationID string
	// UserID owns the tasks the turn operates on.
	UserID string
	// Text is the raw utterance.
	Text string
}

// Outcome is the interpreter's response to a turn.
type Outcome struct {
	Reply    string
	Intent   intent.Intent
	Language intent.Language
	// ToolCalls holds the external invocations made while handling the
	// turn, in execution order.
	ToolCalls []*tool.Call
	// Pending is the confirmation gate left armed by this turn, if any.
	Pending *confirm.Pending
}

// Engine processes turns.
type Engine struct {
	matcher     *intent.Matcher
	resolver    *resolve.Resolver
	builder     *tool.Builder
	invoker     tool.Invoker
	formatter   *reply.Formatter
	history     HistoryStore
	pending     PendingStore
	window      int
	defaultLang intent.Language
	logger      *slog.Logger
}

// Options configures a new Engine.
type Options struct {
	Matcher *intent.Matcher
	Builder *tool.Builder
	Invoker tool.Invoker
	History HistoryStore
	Pending PendingStore
	// HistoryWindow bounds how many utterances reference resolution scans;
	// non-positive means resolve.DefaultWindow.
	HistoryWindow int
	// DefaultLanguage is used when an utterance carries no language signal;
	// unset or unsupported means English.
	DefaultLanguage intent.Language
	Logger          *slog.Logger
}

// New wires an Engine. All collaborators except Logger are required.
func New(opts Options) (*Engine, error) {
	switch {
	case opts.Matcher == nil:
		return nil, errors.New("engine: matcher is required")
	case opts.Builder == nil:
		return nil, errors.New("engine: builder is required")
	case opts.Invoker == nil:
		return nil, errors.New("engine: invoker is required")
	case opts.History == nil:
		return nil, errors.New("engine: history store is required")
	case opts.Pending == nil:
		return nil, errors.New("engine: pending store is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	window := opts.HistoryWindow
	if window <= 0 {
		window = resolve.DefaultWindow
	}
	defaultLang := opts.DefaultLanguage
	if !defaultLang.Valid() {
		defaultLang = intent.English
	}
	return &Engine{
		matcher:     opts.Matcher,
		resolver:    resolve.New(window),
		builder:     opts.Builder,
		invoker:     opts.Invoker,
		formatter:   reply.New(),
		history:     opts.History,
		pending:     opts.Pending,
		window:      window,
		defaultLang: defaultLang,
		logger:      logger,
	}, nil
}

// Process handles one turn end to end and records both sides of it in
// history. Interpreter-level failures (no rule matched, unresolved
// reference, malformed slot) come back as clarification replies, not
// errors; err is reserved for infrastructure faults.
func (e *Engine) Process(ctx context.Context, turn Turn) (*Outcome, error) {
	lang := intent.DetectLanguage(turn.Text, e.defaultLang)

	history, err := e.history.LastN(ctx, turn.ConversationID, e.window)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	pending, err := e.pending.Get(ctx, turn.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("load pending confirmation: %w", err)
	}

	in, slots := e.matcher.Match(turn.Text, lang)
	e.logger.Debug("matched utterance",
		"conversation_id", turn.ConversationID, "intent", string(in), "language", string(lang))

	out := &Outcome{Intent: in, Language: lang}

	if pending != nil {
		handled, err := e.resolvePending(ctx, turn, pending, in, out)
		if err != nil {
			return nil, err
		}
		if handled {
			return e.record(ctx, turn, out)
		}
		// An unrelated resolved intent abandons the gate silently and the
		// turn proceeds as if nothing was pending.
	}

	switch in {
	case intent.Confirm, intent.Deny:
		out.Reply = e.formatter.Clarify(reply.ClarifyNothingPending, lang)
		return e.record(ctx, turn, out)
	case intent.Unknown:
		out.Reply = e.formatter.Clarify(reply.ClarifyUnknown, lang)
		return e.record(ctx, turn, out)
	}

	if in.RequiresTarget() {
		resolved, ok := e.resolver.Resolve(slots, history)
		if !ok {
			out.Reply = e.formatter.Clarify(reply.ClarifyAmbiguous, lang)
			return e.record(ctx, turn, out)
		}
		slots = resolved

		// A search-term target has to be narrowed to a single task id
		// before any mutating call can be built from it.
		if !slots.Has(intent.SlotTaskID) && slots.Has(intent.SlotSearchTerm) {
			slots, err = e.narrowTarget(ctx, turn, slots, out)
			if err != nil {
				return nil, err
			}
			if out.Reply != "" {
				return e.record(ctx, turn, out)
			}
		}
	}

	call, err := e.builder.Build(in, slots, turn.UserID)
	if err != nil {
		switch {
		case errors.Is(err, tool.ErrMissingTarget):
			out.Reply = e.formatter.Clarify(reply.ClarifyAmbiguous, lang)
		case errors.Is(err, tool.ErrMalformedSlot):
			out.Reply = e.formatter.Clarify(reply.ClarifyMalformedID, lang)
		case errors.Is(err, tool.ErrMissingContent):
			out.Reply = e.formatter.Clarify(reply.ClarifyMissingContent, lang)
		default:
			e.logger.Error("build tool call failed",
				"conversation_id", turn.ConversationID, "intent", string(in), "error", err)
			out.Reply = e.formatter.Format(tool.Failure(tool.KindExecution, err.Error()), in, lang)
		}
		return e.record(ctx, turn, out)
	}

	if in.Destructive() {
		if err := e.gate(ctx, turn, in, lang, call, out); err != nil {
			return nil, err
		}
		return e.record(ctx, turn, out)
	}

	res := e.invoke(ctx, call, out)
	out.Reply = e.formatter.Format(res, in, lang)
	return e.record(ctx, turn, out)
}

// resolvePending applies the current turn to an active confirmation gate.
// It reports whether the turn was consumed by the gate; a resolved
// non-confirm intent clears the gate and lets the turn fall through.
func (e *Engine) resolvePending(ctx context.Context, turn Turn, pending *confirm.Pending, in intent.Intent, out *Outcome) (bool, error) {
	switch in {
	case intent.Confirm:
		// Clear before executing so the held call can never fire twice,
		// even if the process dies between the two steps.
		if err := e.pending.Clear(ctx, turn.ConversationID); err != nil {
			return false, fmt.Errorf("clear pending confirmation: %w", err)
		}
		var call tool.Call
		if err := json.Unmarshal([]byte(pending.CallJSON), &call); err != nil {
			e.logger.Error("held tool call is unreadable",
				"conversation_id", turn.ConversationID, "error", err)
			out.Reply = e.formatter.Format(
				tool.Failure(tool.KindExecution, err.Error()), pending.Intent, pending.Language)
			return true, nil
		}
		res := e.invoke(ctx, &call, out)
		out.Reply = e.formatter.Format(res, pending.Intent, pending.Language)
		return true, nil

	case intent.Deny:
		if err := e.pending.Clear(ctx, turn.ConversationID); err != nil {
			return false, fmt.Errorf("clear pending confirmation: %w", err)
		}
		out.Reply = e.formatter.Cancelled(pending.Language)
		return true, nil

	case intent.Unknown:
		// The gate stays armed until a clear yes or no arrives.
		out.Pending = pending
		out.Reply = e.formatter.Clarify(reply.ClarifyConfirmOrCancel, pending.Language)
		return true, nil

	default:
		// The user moved on. Drop the gate without comment; mentioning the
		// abandoned operation in the reply would only confuse.
		if err := e.pending.Clear(ctx, turn.ConversationID); err != nil {
			return false, fmt.Errorf("clear pending confirmation: %w", err)
		}
		e.logger.Debug("pending confirmation abandoned",
			"conversation_id", turn.ConversationID,
			"abandoned_intent", string(pending.Intent), "new_intent", string(in))
		return false, nil
	}
}

// narrowTarget turns a search-term target into a task id by querying the
// store. Zero matches or more than one match short-circuits with a reply set
// on out; exactly one match fills the task_id slot.
func (e *Engine) narrowTarget(ctx context.Context, turn Turn, slots intent.Slots, out *Outcome) (intent.Slots, error) {
	term := slots[intent.SlotSearchTerm]
	call, err := e.builder.Build(intent.SearchTasks, intent.Slots{intent.SlotKeyword: term}, turn.UserID)
	if err != nil {
		return nil, fmt.Errorf("build target search: %w", err)
	}

	res := e.invoke(ctx, call, out)
	if !res.OK() {
		out.Reply = e.formatter.Format(res, intent.SearchTasks, out.Language)
		return slots, nil
	}

	matches := res.Payload.Array()
	switch len(matches) {
	case 1:
		filled := slots.Clone()
		filled[intent.SlotTaskID] = strconv.FormatInt(matches[0].Get("id").Int(), 10)
		return filled, nil
	case 0:
		out.Reply = e.formatter.Format(
			tool.Failure(tool.KindNotFound, "no task matches "+term), out.Intent, out.Language)
		return slots, nil
	default:
		e.logger.Debug("target search is ambiguous",
			"conversation_id", turn.ConversationID, "term", term, "matches", len(matches))
		out.Reply = e.formatter.Clarify(reply.ClarifyAmbiguous, out.Language)
		return slots, nil
	}
}

// gate verifies the deletion target exists, persists the held call, and
// replies with the confirmation prompt. Nothing is deleted on this turn.
func (e *Engine) gate(ctx context.Context, turn Turn, in intent.Intent, lang intent.Language, call *tool.Call, out *Outcome) error {
	id, _ := call.Args["task_id"].(int)

	getCall, err := e.builder.BuildGet(id, turn.UserID)
	if err != nil {
		return fmt.Errorf("build target lookup: %w", err)
	}
	res := e.invoke(ctx, getCall, out)
	if !res.OK() {
		out.Reply = e.formatter.Format(res, in, lang)
		return nil
	}

	label := fmt.Sprintf("**#%d** (%s)", id, res.Payload.Get("title").String())

	raw, err := json.Marshal(call)
	if err != nil {
		return fmt.Errorf("serialize held call: %w", err)
	}
	p := &confirm.Pending{
		ConversationID: turn.ConversationID,
		Intent:         in,
		CallJSON:       string(raw),
		TargetLabel:    label,
		Language:       lang,
	}
	if err := e.pending.Put(ctx, p); err != nil {
		return fmt.Errorf("store pending confirmation: %w", err)
	}

	out.Pending = p
	out.Reply = e.formatter.ConfirmPrompt(label, lang)
	return nil
}

// invoke runs one tool call, records it on the outcome, and normalizes the
// result.
func (e *Engine) invoke(ctx context.Context, call *tool.Call, out *Outcome) tool.Result {
	out.ToolCalls = append(out.ToolCalls, call)
	raw, err := e.invoker.Invoke(ctx, call)
	if err != nil {
		e.logger.Warn("tool invocation failed", "operation", call.Name, "error", err)
		return tool.NormalizeErr(err)
	}
	res := tool.Normalize(raw)
	if !res.OK() {
		e.logger.Warn("tool result rejected",
			"operation", call.Name, "kind", string(res.Err.Kind), "error", res.Err.Message)
	}
	return res
}

// record appends both sides of the turn to history and returns the outcome.
func (e *Engine) record(ctx context.Context, turn Turn, out *Outcome) (*Outcome, error) {
	if err := e.history.AppendUtterance(ctx, turn.ConversationID, conv.RoleUser, turn.Text); err != nil {
		return nil, fmt.Errorf("record user turn: %w", err)
	}
	if err := e.history.AppendUtterance(ctx, turn.ConversationID, conv.RoleAssistant, out.Reply); err != nil {
		return nil, fmt.Errorf("record assistant turn: %w", err)
	}
	return out, nil
}
