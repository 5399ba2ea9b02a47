// Package app wires the TaskYaar assistant together: storage, the turn
// engine, and the Matrix frontend.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"maunium.net/go/mautrix/event"

	"github.com/mjunaidk/taskyaar/common/retry"
	"github.com/mjunaidk/taskyaar/common/trace"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/config"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/confirm"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/engine"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/intent"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/matrix"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/store"
	"github.com/mjunaidk/taskyaar/internal/taskyaar/tool"
)

// App is the running assistant.
type App struct {
	cfg    *config.Config
	store  *store.Store
	engine *engine.Engine
	client *matrix.Client
	logger *slog.Logger
}

// New builds the full assistant from configuration. Everything that can fail
// fails here, before any message is processed: database and migrations,
// rule-table compilation, and the operation schemas.
func New(cfg *config.Config) (*App, error) {
	logger := slog.Default()

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	matcher, err := intent.NewMatcher(intent.MatcherOptions{Categories: cfg.Categories})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build matcher: %w", err)
	}
	builder, err := tool.NewBuilder()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build tool schemas: %w", err)
	}

	eng, err := engine.New(engine.Options{
		Matcher:         matcher,
		Builder:         builder,
		Invoker:         store.NewInvoker(st),
		History:         st,
		Pending:         confirm.NewStore(st.DB(), cfg.ConfirmTTL),
		HistoryWindow:   cfg.HistoryWindow,
		DefaultLanguage: intent.Language(cfg.DefaultLanguage),
		Logger:          logger,
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("build engine: %w", err)
	}

	client, err := matrix.New(&matrix.Config{
		Homeserver:  cfg.Matrix.Homeserver,
		UserID:      cfg.Matrix.UserID,
		AccessToken: cfg.Matrix.AccessToken,
		Rooms:       cfg.Matrix.Rooms,
		DB:          st.DB(),
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("create matrix client: %w", err)
	}

	return &App{cfg: cfg, store: st, engine: eng, client: client, logger: logger}, nil
}

// Run starts the Matrix sync and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.client.Start(ctx, a.handleMessage); err != nil {
		return fmt.Errorf("start matrix client: %w", err)
	}
	a.logger.Info("taskyaar is listening",
		"homeserver", a.cfg.Matrix.Homeserver, "rooms", len(a.cfg.Matrix.Rooms))

	<-ctx.Done()
	a.logger.Info("shutting down")
	return nil
}

// Stop tears the assistant down.
func (a *App) Stop() {
	a.client.Stop()
	if err := a.store.Close(); err != nil {
		a.logger.Error("close store", "error", err)
	}
}

// handleMessage runs one Matrix message through the engine and sends the
// reply back to the room. The conversation is keyed by room and sender, so
// two users in the same room have independent history and confirmation
// gates.
func (a *App) handleMessage(ctx context.Context, evt *event.Event) {
	roomID := evt.RoomID.String()
	sender := evt.Sender.String()
	text := evt.Content.AsMessage().Body

	traceID := trace.GenerateID()
	ctx = trace.WithTraceID(ctx, traceID)
	logger := a.logger.With("trace_id", traceID, "room", roomID, "sender", sender)

	if err := a.client.SetTyping(ctx, roomID, true, 10*time.Second); err != nil {
		logger.Debug("set typing failed", "error", err)
	}
	defer a.client.SetTyping(ctx, roomID, false, 0)

	out, err := a.engine.Process(ctx, engine.Turn{
		ConversationID: roomID + ":" + sender,
		UserID:         sender,
		Text:           text,
	})
	if err != nil {
		logger.Error("turn failed", "error", err)
		return
	}
	logger.Info("turn processed",
		"intent", string(out.Intent), "language", string(out.Language), "tool_calls", len(out.ToolCalls))

	// Matrix sends are retried; a transient homeserver error should not eat
	// a reply the engine already committed to history.
	err = retry.Do(ctx, retry.DefaultConfig, func() error {
		return a.client.SendMarkdown(ctx, roomID, out.Reply)
	})
	if err != nil {
		logger.Error("send reply failed", "error", err)
	}
}
