package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/caldas/arbiterbot/internal/gemini"
	"github.com/caldas/arbiterbot/internal/recall"
	"github.com/caldas/arbiterbot/internal/resolver"
)

// maxReplyLength is Telegram's hard cap on message text.
const maxReplyLength = 4096

// invocationFrom builds a platform-neutral resolver invocation from a
// command message.
func invocationFrom(msg *models.Message) resolver.Invocation {
	inv := resolver.Invocation{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text:      commandArgs(msg.Text),
	}
	if msg.From != nil {
		inv.UserID = msg.From.ID
		inv.UserName = displayName(msg.From)
	}
	if msg.ReplyToMessage != nil {
		inv.ReplyToID = msg.ReplyToMessage.ID
	}
	return inv
}

// commandArgs strips the leading "/command[@bot]" token from a message.
func commandArgs(text string) string {
	if !strings.HasPrefix(text, "/") {
		return strings.TrimSpace(text)
	}
	if idx := strings.IndexAny(text, " \n"); idx != -1 {
		return strings.TrimSpace(text[idx+1:])
	}
	return ""
}

// displayName picks the most human-readable identity for a user.
func displayName(u *models.User) string {
	if u == nil {
		return "Unknown"
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("user %d", u.ID)
}

// truncate shortens text to maxLen, appending an ellipsis when it cuts.
func truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return text[:maxLen]
	}
	return text[:maxLen-3] + "..."
}

// messageLink returns a t.me deep link to a message, or "" for chat types
// that have no stable link format (private chats and basic groups).
func messageLink(chatID int64, messageID int) string {
	// Supergroup/channel IDs are -100 followed by the internal ID.
	if chatID >= -1000000000000 {
		return ""
	}
	return fmt.Sprintf("https://t.me/c/%d/%d", -chatID-1000000000000, messageID)
}

// reply sends text as a reply to the invoking message, falling back to a
// plain send if the original is gone.
func reply(ctx context.Context, b *bot.Bot, log *slog.Logger, msg *models.Message, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text:   truncate(text, maxReplyLength),
		ReplyParameters: &models.ReplyParameters{
			MessageID:                msg.ID,
			AllowSendingWithoutReply: true,
		},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", msg.Chat.ID)
	}
}

// sendTyping shows a typing indicator while a model call is in flight.
func sendTyping(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64) {
	_, err := b.SendChatAction(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	})
	if err != nil {
		log.DebugContext(ctx, "Failed to send typing action", "error", err, "chat_id", chatID)
	}
}

// replyResolveError maps a resolver failure onto its configured user-facing
// message. These are user-input errors: always answered specifically, never
// logged as exceptional.
func (h HandlerDeps) replyResolveError(ctx context.Context, b *bot.Bot, log *slog.Logger, msg *models.Message, err error) bool {
	msgs := h.Config.Messages
	switch {
	case errors.Is(err, resolver.ErrNoTargetText):
		reply(ctx, b, log, msg, msgs.NoTargetText)
	case errors.Is(err, resolver.ErrTargetUnavailable):
		reply(ctx, b, log, msg, msgs.TargetGone)
	case errors.Is(err, resolver.ErrMissingReplyAnchor):
		reply(ctx, b, log, msg, msgs.ReplyRequired)
	case errors.Is(err, resolver.ErrEmptyConversation):
		reply(ctx, b, log, msg, msgs.EmptyWindow)
	default:
		return false
	}
	return true
}

// replyRecallError maps cache-query failures onto precise user messages:
// the out-of-range reply includes how many entries actually exist.
func (h HandlerDeps) replyRecallError(ctx context.Context, b *bot.Bot, log *slog.Logger, msg *models.Message, err error) {
	var emptyErr *recall.EmptyError
	var rangeErr *recall.RangeError
	switch {
	case errors.As(err, &emptyErr):
		reply(ctx, b, log, msg, h.Config.Messages.EmptyCache)
	case errors.As(err, &rangeErr):
		reply(ctx, b, log, msg, fmt.Sprintf(h.Config.Messages.IndexOutOfRange, rangeErr.Count))
	default:
		log.ErrorContext(ctx, "Unexpected recall failure", "error", err, "chat_id", msg.Chat.ID)
		reply(ctx, b, log, msg, h.Config.Messages.GeneralError)
	}
}

// replyAnalysisError handles a generative API failure. Both failure classes
// are logged with full diagnostics and answered with the generic message;
// raw API payloads never reach the chat.
func (h HandlerDeps) replyAnalysisError(ctx context.Context, b *bot.Bot, log *slog.Logger, msg *models.Message, err error) {
	var reqErr *gemini.RequestError
	var parseErr *gemini.ParseError
	switch {
	case errors.As(err, &reqErr):
		log.ErrorContext(ctx, "Generative API request failed",
			"status", reqErr.StatusCode, "body", reqErr.Body, "error", err)
	case errors.As(err, &parseErr):
		log.ErrorContext(ctx, "Generative API response unparseable",
			"raw", parseErr.Raw, "error", err)
	default:
		log.ErrorContext(ctx, "Unexpected analysis failure", "error", err)
	}
	reply(ctx, b, log, msg, h.Config.Messages.GeneralError)
}
