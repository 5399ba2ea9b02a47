// Package conv defines the conversation primitives shared by the
// interpreter pipeline and the history store. Utterances are append-only:
// once recorded they are never edited, and their insertion order carries
// meaning (recency drives reference resolution).
package conv

import "time"

// Roles for history entries.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Utterance is one recorded turn of a conversation.
type Utterance struct {
	Role      string
	Content   string
	CreatedAt time.Time
}
