package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewResetHandler returns a handler for the /reset command, which wipes the
// recorded message history. Requires admin privileges (enforced by middleware).
func NewResetHandler(deps HandlerDeps) bot.HandlerFunc {
	return resetHandler{deps}.Handle
}

type resetHandler struct {
	deps HandlerDeps
}

func (h resetHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "reset")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Reset handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	msg := update.Message

	log.InfoContext(ctx, "Admin requested history reset", "chat_id", msg.Chat.ID, "user_id", msg.From.ID)

	if err := h.deps.Store.DeleteAllMessages(ctx); err != nil {
		log.ErrorContext(ctx, "Failed to reset message history", "error", err)
		reply(ctx, b, log, msg, h.deps.Config.Messages.GeneralError)
		return
	}

	reply(ctx, b, log, msg, h.deps.Config.Messages.HistoryReset)
}
