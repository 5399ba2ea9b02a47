package matrix

import (
	"context"
	"database/sql"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/id"
)

// syncStateStore persists the filter id and /sync next_batch token in the
// matrix_sync_state table so the assistant resumes where it left off instead
// of re-processing already-answered messages after a restart.
type syncStateStore struct {
	db *sql.DB
}

var _ mautrix.SyncStore = (*syncStateStore)(nil)

func newSyncStateStore(db *sql.DB) *syncStateStore {
	return &syncStateStore{db: db}
}

func (s *syncStateStore) SaveFilterID(ctx context.Context, userID id.UserID, filterID string) error {
	return s.save(ctx, userID.String(), "filter_id", filterID)
}

func (s *syncStateStore) LoadFilterID(ctx context.Context, userID id.UserID) (string, error) {
	return s.load(ctx, userID.String(), "filter_id")
}

func (s *syncStateStore) SaveNextBatch(ctx context.Context, userID id.UserID, token string) error {
	return s.save(ctx, userID.String(), "next_batch", token)
}

func (s *syncStateStore) LoadNextBatch(ctx context.Context, userID id.UserID) (string, error) {
	return s.load(ctx, userID.String(), "next_batch")
}

func (s *syncStateStore) save(ctx context.Context, userID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matrix_sync_state (user_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value
	`, userID, key, value)
	return err
}

// load returns ("", nil) when no value has been saved yet; mautrix treats an
// empty token as a fresh start.
func (s *syncStateStore) load(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM matrix_sync_state WHERE user_id = ? AND key = ?",
		userID, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}
