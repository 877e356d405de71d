// Package resolver decides what text an analysis command should operate on.
// It turns an invoking command event into either a single (text, author)
// pair or an ordered conversation transcript anchored at a replied-to
// message, reading message history from the database store.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caldas/arbiterbot/internal/database"
)

// Resolution errors. Handlers match these with errors.Is and surface a
// specific, actionable message to the invoking user.
var (
	ErrNoTargetText       = errors.New("no target text: reply to a message or provide text directly")
	ErrTargetUnavailable  = errors.New("replied-to message could not be fetched")
	ErrMissingReplyAnchor = errors.New("command must be a reply to a message")
	ErrEmptyConversation  = errors.New("conversation contains no text")
)

// MessageSource is the slice of the database store the resolver needs.
type MessageSource interface {
	GetMessage(ctx context.Context, chatID int64, messageID int) (*database.Message, error)
	GetMessagesAfter(ctx context.Context, chatID int64, afterID, beforeID, limit int) ([]*database.Message, error)
}

// Invocation describes the command event being resolved, independent of
// the chat platform that delivered it.
type Invocation struct {
	ChatID    int64
	MessageID int

	// ReplyToID is the anchor message ID when the command was sent as a
	// reply, zero otherwise.
	ReplyToID int

	// UserID and UserName identify the invoking user.
	UserID   int64
	UserName string

	// Text is the inline argument text, with the command itself stripped.
	Text string
}

// Target is a single piece of text attributed to its author.
type Target struct {
	Text     string
	UserID   int64
	UserName string
}

// Window is an ordered conversation transcript anchored at a replied-to
// message.
type Window struct {
	// Transcript is the "{author}: {text}" rendering, chronological,
	// with empty-text messages dropped.
	Transcript string

	// Anchor is the message the window starts from (inclusive).
	Anchor *database.Message

	// MessageCount is the number of messages contributing transcript lines.
	MessageCount int
}

// Resolver assembles analysis targets from invocations and stored history.
type Resolver struct {
	source  MessageSource
	horizon int
	logger  *slog.Logger
}

// New creates a Resolver. horizon caps how many messages after the anchor
// a conversation window may collect.
func New(source MessageSource, horizon int, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		source:  source,
		horizon: horizon,
		logger:  logger.With("component", "resolver"),
	}
}

// ResolveSingle produces the text a single-message analysis should run on.
// A reply takes priority over inline text; with neither, it fails with
// ErrNoTargetText.
func (r *Resolver) ResolveSingle(ctx context.Context, inv Invocation) (*Target, error) {
	if inv.ReplyToID != 0 {
		msg, err := r.source.GetMessage(ctx, inv.ChatID, inv.ReplyToID)
		if err != nil {
			if errors.Is(err, database.ErrMessageNotFound) {
				return nil, ErrTargetUnavailable
			}
			return nil, fmt.Errorf("fetching reply target: %w", err)
		}
		return &Target{Text: msg.Content, UserID: msg.UserID, UserName: msg.UserName}, nil
	}

	text := strings.TrimSpace(inv.Text)
	if text == "" {
		return nil, ErrNoTargetText
	}
	return &Target{Text: text, UserID: inv.UserID, UserName: inv.UserName}, nil
}

// ResolveWindow builds a conversation transcript from the replied-to anchor
// (inclusive) through the messages between the anchor and the invoking
// command, capped at the configured horizon. The invoking command itself is
// never part of the window.
func (r *Resolver) ResolveWindow(ctx context.Context, inv Invocation) (*Window, error) {
	if inv.ReplyToID == 0 {
		return nil, ErrMissingReplyAnchor
	}

	anchor, err := r.source.GetMessage(ctx, inv.ChatID, inv.ReplyToID)
	if err != nil {
		if errors.Is(err, database.ErrMessageNotFound) {
			return nil, ErrTargetUnavailable
		}
		return nil, fmt.Errorf("fetching window anchor: %w", err)
	}

	following, err := r.source.GetMessagesAfter(ctx, inv.ChatID, anchor.MessageID, inv.MessageID, r.horizon)
	if err != nil {
		return nil, fmt.Errorf("fetching window messages: %w", err)
	}

	messages := make([]*database.Message, 0, len(following)+1)
	messages = append(messages, anchor)
	messages = append(messages, following...)

	var sb strings.Builder
	count := 0
	for _, m := range messages {
		if m.Content == "" {
			continue
		}
		if count > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(m.UserName)
		sb.WriteString(": ")
		sb.WriteString(m.Content)
		count++
	}

	if count == 0 {
		return nil, ErrEmptyConversation
	}

	r.logger.DebugContext(ctx, "Resolved conversation window",
		"chat_id", inv.ChatID, "anchor_id", anchor.MessageID, "line_count", count)

	return &Window{Transcript: sb.String(), Anchor: anchor, MessageCount: count}, nil
}
