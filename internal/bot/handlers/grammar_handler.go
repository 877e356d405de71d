package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewGrammarHandler returns a handler for the /grammar command.
func NewGrammarHandler(deps HandlerDeps) bot.HandlerFunc {
	return grammarHandler{deps}.Handle
}

// grammarHandler checks a message (reply target or inline text) for
// grammatical errors and suggests corrections.
type grammarHandler struct {
	deps HandlerDeps
}

func (h grammarHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "grammar")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Grammar handler received update with nil message or sender", "update_id", update.ID)
		return
	}
	msg := update.Message

	target, err := h.deps.Resolver.ResolveSingle(ctx, invocationFrom(msg))
	if err != nil {
		if !h.deps.replyResolveError(ctx, b, log, msg, err) {
			log.ErrorContext(ctx, "Failed to resolve grammar target", "error", err, "chat_id", msg.Chat.ID)
			reply(ctx, b, log, msg, h.deps.Config.Messages.GeneralError)
		}
		return
	}

	sendTyping(ctx, b, log, msg.Chat.ID)

	findings, err := h.deps.GeminiClient.AnalyzeGrammar(ctx, target.Text)
	if err != nil {
		h.deps.replyAnalysisError(ctx, b, log, msg, err)
		return
	}

	if len(findings) == 0 {
		reply(ctx, b, log, msg, h.deps.Config.Messages.NoGrammarIssues)
		return
	}

	var sb strings.Builder
	plural := "errors"
	if len(findings) == 1 {
		plural = "error"
	}
	fmt.Fprintf(&sb, "Grammar analysis — found %d potential %s:\n", len(findings), plural)
	for i, f := range findings {
		fmt.Fprintf(&sb, "\n%d. %s\nExplanation: %s\nCorrection: %s\nOriginal: \"%s\"\n",
			i+1, f.Type, f.Explanation, f.Correction, f.Quote)
	}
	fmt.Fprintf(&sb, "\nChecked for %s", target.UserName)

	reply(ctx, b, log, msg, sb.String())
	log.InfoContext(ctx, "Grammar analysis complete", "chat_id", msg.Chat.ID, "finding_count", len(findings))
}
