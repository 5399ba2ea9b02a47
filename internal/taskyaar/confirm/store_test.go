package confirm_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mjunaidk/taskyaar/internal/taskyaar/confirm"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/store"
)

func newPendingStore(t *testing.T, ttl time.Duration) *confirm.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return confirm.NewStore(s.DB(), ttl)
}

const conversation = "!room:example.org:@alice:example.org"

func pending(callJSON string) *confirm.Pending {
	return &confirm.Pending{
		ConversationID: conversation,
		Intent:         intent.DeleteTask,
		CallJSON:       callJSON,
		TargetLabel:    "**#3** (buy milk)",
		Language:       intent.English,
	}
}

func TestPutGetClear(t *testing.T) {
	ps := newPendingStore(t, 0)
	ctx := context.Background()

	if err := ps.Put(ctx, pending(`{"name":"delete_todo"}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := ps.Get(ctx, conversation)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for a stored record")
	}
	if got.Intent != intent.DeleteTask || got.CallJSON != `{"name":"delete_todo"}` {
		t.Errorf("got = %+v", got)
	}
	if got.TargetLabel != "**#3** (buy milk)" || got.Language != intent.English {
		t.Errorf("got = %+v", got)
	}
	if got.ExpiresAt.Before(got.CreatedAt) {
		t.Errorf("expiry %s precedes creation %s", got.ExpiresAt, got.CreatedAt)
	}

	if err := ps.Clear(ctx, conversation); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err = ps.Get(ctx, conversation)
	if err != nil || got != nil {
		t.Errorf("Get after Clear = %+v, %v; want nil, nil", got, err)
	}
}

func TestGetMissing(t *testing.T) {
	ps := newPendingStore(t, 0)
	got, err := ps.Get(context.Background(), "never-seen")
	if err != nil || got != nil {
		t.Errorf("Get = %+v, %v; want nil, nil", got, err)
	}
}

func TestPutReplacesExisting(t *testing.T) {
	ps := newPendingStore(t, 0)
	ctx := context.Background()

	if err := ps.Put(ctx, pending(`{"first":true}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := ps.Put(ctx, pending(`{"second":true}`)); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, err := ps.Get(ctx, conversation)
	if err != nil || got == nil {
		t.Fatalf("Get = %+v, %v", got, err)
	}
	if got.CallJSON != `{"second":true}` {
		t.Errorf("CallJSON = %q, want the replacement", got.CallJSON)
	}
}

func TestExpiredRecordIsDropped(t *testing.T) {
	ps := newPendingStore(t, time.Millisecond)
	ctx := context.Background()

	if err := ps.Put(ctx, pending(`{}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	got, err := ps.Get(ctx, conversation)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get returned an expired record: %+v", got)
	}

	// The lazy expiry deleted the row, so the next Get stays empty too.
	if got, _ := ps.Get(ctx, conversation); got != nil {
		t.Errorf("expired record resurfaced: %+v", got)
	}
}

func TestPendingExpired(t *testing.T) {
	now := time.Now()
	p := &confirm.Pending{ExpiresAt: now.Add(time.Minute)}
	if p.Expired(now) {
		t.Error("record expired before its deadline")
	}
	if !p.Expired(now.Add(2 * time.Minute)) {
		t.Error("record not expired after its deadline")
	}
}
