package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSnipeHandler returns a handler for the /snipe command.
func NewSnipeHandler(deps HandlerDeps) bot.HandlerFunc {
	return snipeHandler{deps}.Handle
}

// NewEditSnipeHandler returns a handler for the /editsnipe command.
func NewEditSnipeHandler(deps HandlerDeps) bot.HandlerFunc {
	return editSnipeHandler{deps}.Handle
}

// snipeHandler recalls a recently deleted message by recency index.
type snipeHandler struct {
	deps HandlerDeps
}

func (h snipeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "snipe")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Snipe handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	msg := update.Message

	index, err := recallIndex(msg.Text)
	if err != nil {
		reply(ctx, b, log, msg, h.deps.Config.Messages.InvalidIndex)
		return
	}

	d, err := h.deps.Recall.Deletion(msg.Chat.ID, index)
	if err != nil {
		h.deps.replyRecallError(ctx, b, log, msg, err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Deleted message #%d — %s at %s:\n", index, d.UserName, d.Timestamp.Format(time.RFC822))
	if d.Content != "" {
		sb.WriteString(d.Content)
	} else {
		sb.WriteString("(no text)")
	}
	if d.Attachment != "" {
		sb.WriteString("\n(had an attachment)")
	}

	reply(ctx, b, log, msg, sb.String())
	log.InfoContext(ctx, "Recalled deleted message", "chat_id", msg.Chat.ID, "index", index)
}

// editSnipeHandler recalls a recently edited message by recency index.
type editSnipeHandler struct {
	deps HandlerDeps
}

func (h editSnipeHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "editsnipe")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Editsnipe handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	msg := update.Message

	index, err := recallIndex(msg.Text)
	if err != nil {
		reply(ctx, b, log, msg, h.deps.Config.Messages.InvalidIndex)
		return
	}

	e, err := h.deps.Recall.Edit(msg.Chat.ID, index)
	if err != nil {
		h.deps.replyRecallError(ctx, b, log, msg, err)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Edit #%d — %s at %s:\n", index, e.UserName, e.EditedAt.Format(time.RFC822))
	fmt.Fprintf(&sb, "Before: %s\nAfter: %s", e.Before, e.After)
	if link := messageLink(e.ChatID, e.MessageID); link != "" {
		fmt.Fprintf(&sb, "\n%s", link)
	}

	reply(ctx, b, log, msg, sb.String())
	log.InfoContext(ctx, "Recalled edited message", "chat_id", msg.Chat.ID, "index", index)
}

// recallIndex parses the optional 1-based index argument, defaulting to 1.
func recallIndex(text string) (int, error) {
	args := commandArgs(text)
	if args == "" {
		return 1, nil
	}
	index, err := strconv.Atoi(strings.Fields(args)[0])
	if err != nil || index < 1 {
		return 0, fmt.Errorf("invalid recall index %q", args)
	}
	return index, nil
}
