package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/conv"
)

// AppendUtterance records one turn of conversation. Every row gets a fresh
// turn id so log lines can point at a specific utterance.
func (s *Store) AppendUtterance(ctx context.Context, conversationID, role, content string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (turn_id, conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, uuid.NewString(), conversationID, role, content, time.Now())
	if err != nil {
		return fmt.Errorf("append utterance: %w", err)
	}
	return nil
}

// LastN returns the conversation's most recent n utterances in chronological
// order. Fewer rows than n is not an error; a new conversation returns nil.
func (s *Store) LastN(ctx context.Context, conversationID string, n int) ([]conv.Utterance, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT role, content, created_at FROM (
			SELECT seq, role, content, created_at
			FROM history
			WHERE conversation_id = ?
			ORDER BY seq DESC
			LIMIT ?
		) ORDER BY seq ASC
	`, conversationID, n)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var out []conv.Utterance
	for rows.Next() {
		var u conv.Utterance
		if err := rows.Scan(&u.Role, &u.Content, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan utterance: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return out, nil
}
