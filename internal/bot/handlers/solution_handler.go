package handlers

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewSolutionHandler returns a handler for the /solution command.
func NewSolutionHandler(deps HandlerDeps) bot.HandlerFunc {
	return solutionHandler{deps}.Handle
}

// solutionHandler proposes a neutral resolution for the discussion starting
// from the replied-to message.
type solutionHandler struct {
	deps HandlerDeps
}

func (h solutionHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "solution")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Solution handler received update with nil message or sender", "update_id", update.ID)
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

	solution, err := h.deps.GeminiClient.ProposeSolution(ctx, window.Transcript)
	if err != nil {
		h.deps.replyAnalysisError(ctx, b, log, msg, err)
		return
	}

	if solution == "" {
		reply(ctx, b, log, msg, h.deps.Config.Messages.NothingGenerated)
		return
	}

	text := fmt.Sprintf("A potential solution for the conversation since %s's message:\n\n%s",
		window.Anchor.UserName, solution)
	reply(ctx, b, log, msg, text)
	log.InfoContext(ctx, "Solution proposal complete", "chat_id", msg.Chat.ID, "message_count", window.MessageCount)
}
