// Package resolve fills missing target slots by scanning recent
// conversation history for the most recently referenced task.
//
// It is a pure read-then-fill step: history is never mutated and nothing is
// cached across turns. When no referent is found within the window the
// resolver reports failure and the caller must ask the user to specify
// which task they meant.
package resolve

import (
	"regexp"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/conv"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
)

// DefaultWindow is how many recent utterances are scanned when no window is
// configured.
const DefaultWindow = 20

var (
	// idMarker matches task IDs as the formatter renders them (**#12**) and
	// as users say them ("task 12"). The bold markers are stripped by the
	// leading group being optional.
	idMarker = regexp.MustCompile(`#(\d+)`)
	// spokenID matches a user saying "task 12" outright.
	spokenID = regexp.MustCompile(`\btask\s+(\d+)\b`)
	// boldTitle matches a non-numeric bold span in an assistant reply,
	// e.g. "Saved **groceries** as **#4**." — used as a title fallback
	// when a turn carries no ID marker.
	boldTitle = regexp.MustCompile(`\*\*([^#*][^*]*)\*\*`)
)

// Resolver scans bounded history windows for task references.
type Resolver struct {
	window int
}

// New creates a Resolver scanning at most window utterances per turn.
// Non-positive windows fall back to DefaultWindow.
func New(window int) *Resolver {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Resolver{window: window}
}

// Resolve returns a copy of slots with the missing target filled from
// history, walking backward so the most recent reference wins. The second
// return is false when no referent was found within the window.
//
// Only intents that need a target call this, and only when both task_id and
// search_term are absent (either because the utterance was anaphoric —
// "delete it" — or simply silent about the target).
func (r *Resolver) Resolve(slots intent.Slots, history []conv.Utterance) (intent.Slots, bool) {
	if slots.Has(intent.SlotTaskID) || slots.Has(intent.SlotSearchTerm) {
		return slots, true
	}

	start := len(history) - r.window
	if start < 0 {
		start = 0
	}

	for i := len(history) - 1; i >= start; i-- {
		u := history[i]

		if g := idMarker.FindStringSubmatch(u.Content); g != nil {
			filled := slots.Clone()
			filled[intent.SlotTaskID] = g[1]
			return filled, true
		}
		if g := spokenID.FindStringSubmatch(u.Content); g != nil {
			filled := slots.Clone()
			filled[intent.SlotTaskID] = g[1]
			return filled, true
		}
		if u.Role == conv.RoleAssistant {
			if g := boldTitle.FindStringSubmatch(u.Content); g != nil {
				filled := slots.Clone()
				filled[intent.SlotSearchTerm] = g[1]
				return filled, true
			}
		}
	}
	return slots, false
}
