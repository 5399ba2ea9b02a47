// Package matrix is the Matrix frontend: it syncs with the homeserver,
// filters events down to plain text messages in allowed rooms, and sends the
// interpreter's replies back with markdown rendering.
package matrix

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"maunium.net/go/mautrix"
	"maunium.net/go/mautrix/event"
	"maunium.net/go/mautrix/format"
	"maunium.net/go/mautrix/id"
)

// Config holds the Matrix connection settings.
type Config struct {
	Homeserver  string
	UserID      string
	AccessToken string
	// Rooms the assistant listens in. Messages from other rooms are ignored.
	Rooms []string
	// DB persists the sync token across restarts. When nil the token lives
	// in memory and a restart replays recent room history.
	DB *sql.DB
}

// MessageHandler receives one incoming text message.
type MessageHandler func(ctx context.Context, evt *event.Event)

// Client wraps the mautrix client.
type Client struct {
	client  *mautrix.Client
	config  *Config
	stopCh  chan struct{}
	handler MessageHandler
}

// New creates a Client. No network traffic happens until Start.
func New(config *Config) (*Client, error) {
	client, err := mautrix.NewClient(config.Homeserver, id.UserID(config.UserID), config.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("create matrix client: %w", err)
	}

	if config.DB != nil {
		client.Store = newSyncStateStore(config.DB)
	} else {
		slog.Warn("matrix sync token is not persisted; history will replay after a restart")
	}

	return &Client{client: client, config: config, stopCh: make(chan struct{})}, nil
}

// Start joins the configured rooms and begins syncing in the background.
// The sync loop reconnects with exponential backoff; without it a transient
// homeserver error would leave the assistant deaf until the next restart.
func (c *Client) Start(ctx context.Context, handler MessageHandler) error {
	c.handler = handler

	syncer := c.client.Syncer.(*mautrix.DefaultSyncer)
	syncer.OnEventType(event.EventMessage, c.onMessage)

	for _, room := range c.config.Rooms {
		if err := c.joinRoom(ctx, id.RoomID(room)); err != nil {
			return fmt.Errorf("join room %s: %w", room, err)
		}
	}

	go c.syncLoop()
	return nil
}

const (
	backoffMin = 2 * time.Second
	backoffMax = 5 * time.Minute
	// A connection that held this long counts as recovered and resets the
	// backoff, so a crash loop hours later starts from backoffMin again.
	syncHealthyAfter = 1 * time.Minute
)

// nextBackoff picks the delay before the next reconnect attempt given the
// previous delay and how long the sync connection stayed up before failing.
func nextBackoff(previous, connected time.Duration) time.Duration {
	if connected >= syncHealthyAfter {
		return backoffMin
	}
	next := previous * 2
	if next < backoffMin {
		next = backoffMin
	}
	if next > backoffMax {
		next = backoffMax
	}
	return next
}

func (c *Client) syncLoop() {
	var backoff time.Duration
	for {
		started := time.Now()
		err := c.client.Sync()
		if err == nil {
			// Clean StopSync.
			return
		}
		select {
		case <-c.stopCh:
			return
		default:
		}
		backoff = nextBackoff(backoff, time.Since(started))
		slog.Error("matrix sync interrupted, reconnecting", "error", err, "backoff", backoff)
		select {
		case <-c.stopCh:
			return
		case <-time.After(backoff):
		}
	}
}

// Stop shuts down the sync loop.
func (c *Client) Stop() {
	close(c.stopCh)
	c.client.StopSync()
}

// SendMarkdown renders text as markdown (the reply formatter emits markdown
// bold around task ids) and sends it with a plain-text fallback body.
func (c *Client) SendMarkdown(ctx context.Context, roomID, text string) error {
	content := format.RenderMarkdown(text, true, false)
	if _, err := c.client.SendMessageEvent(ctx, id.RoomID(roomID), event.EventMessage, &content); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SetTyping toggles the typing indicator while a turn is being processed.
func (c *Client) SetTyping(ctx context.Context, roomID string, typing bool, timeout time.Duration) error {
	if _, err := c.client.UserTyping(ctx, id.RoomID(roomID), typing, timeout); err != nil {
		return fmt.Errorf("set typing: %w", err)
	}
	return nil
}

// UserID returns the assistant's own Matrix user id.
func (c *Client) UserID() string {
	return c.config.UserID
}

func (c *Client) allowedRoom(roomID string) bool {
	for _, room := range c.config.Rooms {
		if room == roomID {
			return true
		}
	}
	return false
}

// onMessage drops everything except other users' plain text messages in
// allowed rooms, then hands the event to the registered handler.
func (c *Client) onMessage(ctx context.Context, evt *event.Event) {
	if evt.Sender == id.UserID(c.config.UserID) {
		return
	}
	content := evt.Content.AsMessage()
	if content == nil || content.MsgType != event.MsgText {
		return
	}
	if !c.allowedRoom(evt.RoomID.String()) {
		return
	}
	if c.handler != nil {
		c.handler(ctx, evt)
	}
}

func (c *Client) joinRoom(ctx context.Context, roomID id.RoomID) error {
	_, err := c.client.JoinRoomByID(ctx, roomID)
	if err != nil {
		// Homeservers answer M_FORBIDDEN when the bot is already a member.
		if errors.Is(err, mautrix.MForbidden) {
			slog.Warn("could not join room, continuing", "room", roomID)
			return nil
		}
		return err
	}
	return nil
}
