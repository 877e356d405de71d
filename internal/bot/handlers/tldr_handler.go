package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewTLDRHandler returns a handler for the /tldr command.
func NewTLDRHandler(deps HandlerDeps) bot.HandlerFunc {
	return tldrHandler{deps}.Handle
}

// tldrHandler summarises the conversation starting from the replied-to
// message.
type tldrHandler struct {
	deps HandlerDeps
}

func (h tldrHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "tldr")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "TLDR handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	msg := update.Message

	window, err := h.deps.Resolver.ResolveWindow(ctx, invocationFrom(msg))
	if err != nil {
		if !h.deps.replyResolveError(ctx, b, log, msg, err) {
			log.ErrorContext(ctx, "Failed to resolve conversation window", "error", err, "chat_id", msg.Chat.ID)
			reply(ctx, b, log, msg, h.deps.Config.Messages.GeneralError)
		}
		return
	}

	sendTyping(ctx, b, log, msg.Chat.ID)

	summary, err := h.deps.GeminiClient.Summarize(ctx, window.Transcript)
	if err != nil {
		h.deps.replyAnalysisError(ctx, b, log, msg, err)
		return
	}

	if summary == "" {
		reply(ctx, b, log, msg, h.deps.Config.Messages.NothingGenerated)
		return
	}

	text := fmt.Sprintf("TL;DR — summary of the conversation since %s's message:\n\n%s",
		window.Anchor.UserName, summary)
	reply(ctx, b, log, msg, text)
	log.InfoContext(ctx, "Summary complete", "chat_id", msg.Chat.ID, "message_count", window.MessageCount)
}
