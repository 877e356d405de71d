// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewAnalyseHandler returns a handler for the /analyse command.
func NewAnalyseHandler(deps HandlerDeps) bot.HandlerFunc {
	return analyseHandler{deps}.Handle
}

// analyseHandler checks a message (reply target or inline text) for
// logical fallacies.
type analyseHandler struct {
	deps HandlerDeps
}

func (h analyseHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "analyse")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Analyse handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	msg := update.Message

	target, err := h.deps.Resolver.ResolveSingle(ctx, invocationFrom(msg))
	if err != nil {
		if !h.deps.replyResolveError(ctx, b, log, msg, err) {
			log.ErrorContext(ctx, "Failed to resolve analysis target", "error", err, "chat_id", msg.Chat.ID)
			reply(ctx, b, log, msg, h.deps.Config.Messages.GeneralError)
		}
		return
	}

	sendTyping(ctx, b, log, msg.Chat.ID)

	findings, err := h.deps.GeminiClient.AnalyzeFallacies(ctx, target.Text)
	if err != nil {
		h.deps.replyAnalysisError(ctx, b, log, msg, err)
		return
	}

	if len(findings) == 0 {
		reply(ctx, b, log, msg, h.deps.Config.Messages.NoFallacies)
		return
	}

	var sb strings.Builder
	plural := "fallacies"
	if len(findings) == 1 {
		plural = "fallacy"
	}
	fmt.Fprintf(&sb, "Logical fallacy analysis — found %d potential %s:\n", len(findings), plural)
	for i, f := range findings {
		fmt.Fprintf(&sb, "\n%d. %s\nExplanation: %s\nQuote: \"%s\"\n", i+1, f.Name, f.Explanation, f.Quote)
	}
	fmt.Fprintf(&sb, "\nAnalysed for %s", target.UserName)

	reply(ctx, b, log, msg, sb.String())
	log.InfoContext(ctx, "Fallacy analysis complete", "chat_id", msg.Chat.ID, "finding_count", len(findings))
}
