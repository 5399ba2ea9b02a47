// Package reply renders normalized tool results into localized,
// human-readable text. It is the only place user-facing wording is decided:
// error kinds arrive as values and leave as sentences, and raw store output
// never reaches this package at all.
package reply

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/tool"
)

// Status glyphs for task rendering.
const (
	glyphPending   = "⏳"
	glyphCompleted = "✅"
)

// Formatter renders results and clarification prompts.
type Formatter struct{}

// New creates a Formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format renders a normalized tool result for the given intent and
// language. Error results render apologetically; only validation-type
// errors the user can act on (a missing task id) are surfaced specifically.
func (f *Formatter) Format(res tool.Result, in intent.Intent, lang intent.Language) string {
	if !res.OK() {
		switch res.Err.Kind {
		case tool.KindNotFound:
			return text(lang, keyNotFound)
		case tool.KindInvalidArgument:
			return text(lang, keyMalformedID)
		default:
			// Execution and malformed-result failures share one generic
			// apology; the kind stays in the logs only.
			return text(lang, keyGenericError)
		}
	}

	switch in {
	case intent.CreateTask:
		return fmt.Sprintf(text(lang, keyCreated),
			res.Payload.Get("title").String(), res.Payload.Get("id").Int())

	case intent.CompleteTask:
		return fmt.Sprintf(text(lang, keyCompleted),
			res.Payload.Get("id").Int(), res.Payload.Get("title").String())

	case intent.UpdateTask:
		return fmt.Sprintf(text(lang, keyUpdated),
			res.Payload.Get("id").Int(), res.Payload.Get("title").String())

	case intent.DeleteTask:
		return fmt.Sprintf(text(lang, keyDeleted), res.Payload.Get("task_id").Int())

	case intent.ListTasks, intent.SearchTasks:
		empty := keyEmptyList
		if in == intent.SearchTasks {
			empty = keyNoMatches
		}
		return f.renderList(res.Payload, lang, empty)

	default:
		// No dedicated rendering — fall back to the raw payload string,
		// which covers bare-scalar tool results.
		return res.Payload.String()
	}
}

// renderList renders a task array as an ordered list, one line per item,
// preserving the store's return order.
func (f *Formatter) renderList(payload gjson.Result, lang intent.Language, emptyKey msgKey) string {
	items := payload.Array()
	if len(items) == 0 {
		return text(lang, emptyKey)
	}

	var sb strings.Builder
	for i, item := range items {
		glyph := glyphPending
		if item.Get("completed").Bool() {
			glyph = glyphCompleted
		}
		fmt.Fprintf(&sb, "%d. %s **#%d** %s", i+1, glyph, item.Get("id").Int(), item.Get("title").String())
		if i < len(items)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// ConfirmPrompt renders the question asked before a deletion proceeds.
// target is a human-readable label such as "**#3** (buy milk)".
func (f *Formatter) ConfirmPrompt(target string, lang intent.Language) string {
	return fmt.Sprintf(text(lang, keyConfirmPrompt), target)
}

// Cancelled renders the reply to a denied confirmation.
func (f *Formatter) Cancelled(lang intent.Language) string {
	return text(lang, keyCancelled)
}

// Clarification message kinds used by the engine's fail-soft paths.
type ClarifyKind int

const (
	// ClarifyUnknown: no rule matched the utterance.
	ClarifyUnknown ClarifyKind = iota
	// ClarifyAmbiguous: the context resolver found no referent.
	ClarifyAmbiguous
	// ClarifyMalformedID: the task id slot failed validation.
	ClarifyMalformedID
	// ClarifyMissingContent: a create/update carried no text.
	ClarifyMissingContent
	// ClarifyNothingPending: confirm/deny arrived with no pending gate.
	ClarifyNothingPending
	// ClarifyConfirmOrCancel: a pending gate is active and the reply was
	// neither an affirmative nor a negative.
	ClarifyConfirmOrCancel
)

// Clarify renders a clarification prompt for the given kind.
func (f *Formatter) Clarify(kind ClarifyKind, lang intent.Language) string {
	switch kind {
	case ClarifyAmbiguous:
		return text(lang, keyAmbiguous)
	case ClarifyMalformedID:
		return text(lang, keyMalformedID)
	case ClarifyMissingContent:
		return text(lang, keyMissingContent)
	case ClarifyNothingPending:
		return text(lang, keyNothingPending)
	case ClarifyConfirmOrCancel:
		return text(lang, keyConfirmOrCancel)
	default:
		return text(lang, keyUnknown)
	}
}
