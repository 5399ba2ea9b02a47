package confirm

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
)

// Store persists Pending records in the pending_confirmations table.
type Store struct {
	db  *sql.DB
	ttl time.Duration
}

// NewStore creates a Store backed by the given database. ttl controls how
// long a pending confirmation remains valid; pass 0 to use DefaultTTL.
func NewStore(db *sql.DB, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{db: db, ttl: ttl}
}

// Put stores p for its conversation, replacing any previous record. The
// at-most-one-per-conversation invariant is enforced by the primary key.
// CreatedAt/ExpiresAt are stamped here.
func (s *Store) Put(ctx context.Context, p *Pending) error {
	now := time.Now()
	p.CreatedAt = now
	p.ExpiresAt = now.Add(s.ttl)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_confirmations (conversation_id, intent, call_json, target_label, language, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(conversation_id) DO UPDATE SET
			intent = excluded.intent,
			call_json = excluded.call_json,
			target_label = excluded.target_label,
			language = excluded.language,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at
	`, p.ConversationID, string(p.Intent), p.CallJSON, p.TargetLabel, string(p.Language), now, p.ExpiresAt)
	if err != nil {
		return fmt.Errorf("put pending confirmation: %w", err)
	}
	return nil
}

// Get returns the pending confirmation for the conversation, or nil when
// there is none. Expired records are deleted on the way out (lazy expiry),
// so callers never observe a stale gate.
func (s *Store) Get(ctx context.Context, conversationID string) (*Pending, error) {
	p := &Pending{ConversationID: conversationID}
	var in, lang string

	err := s.db.QueryRowContext(ctx, `
		SELECT intent, call_json, target_label, language, created_at, expires_at
		FROM pending_confirmations
		WHERE conversation_id = ?
	`, conversationID).Scan(&in, &p.CallJSON, &p.TargetLabel, &lang, &p.CreatedAt, &p.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pending confirmation: %w", err)
	}

	p.Intent = intent.Intent(in)
	p.Language = intent.Language(lang)

	if p.Expired(time.Now()) {
		if err := s.Clear(ctx, conversationID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return p, nil
}

// Clear removes the conversation's pending confirmation, if any.
func (s *Store) Clear(ctx context.Context, conversationID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM pending_confirmations WHERE conversation_id = ?`, conversationID)
	if err != nil {
		return fmt.Errorf("clear pending confirmation: %w", err)
	}
	return nil
}
