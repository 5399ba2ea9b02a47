// Package confirm implements the persistence side of the confirmation gate
// that destructive intents must pass before their tool call fires.
//
// A Pending record is the held tool call plus enough context to prompt and
// resolve it. At most one exists per conversation at any time; it is
// created by the gate, consumed exactly once by an affirmative reply,
// dropped by a negative reply, abandoned by an unrelated resolved intent,
// or lazily expired after its TTL.
//
// Records live in the database rather than process memory so that a restart
// between the prompt and the reply does not change the outcome of the next
// turn.
package confirm

import (
	"time"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
)

// DefaultTTL is how long a pending confirmation stays valid without a
// reply. An expired record is treated as if it never existed.
const DefaultTTL = 5 * time.Minute

// Pending is a held destructive operation awaiting a yes/no reply.
type Pending struct {
	// ConversationID scopes the record; the primary key.
	ConversationID string

	// Intent is the destructive intent that was gated.
	Intent intent.Intent

	// CallJSON is the serialized canonical tool call, re-executed verbatim
	// (and exactly once) when the user confirms.
	CallJSON string

	// TargetLabel is the human-readable target used in the prompt,
	// e.g. "**#3** (buy milk)".
	TargetLabel string

	// Language the prompt was issued in; the resolution reply follows it.
	Language intent.Language

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the record has passed its deadline at now.
func (p *Pending) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
