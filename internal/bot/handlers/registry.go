package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its pattern and middleware.
// It encapsulates all information needed to register a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available bot
// commands, including the analysis command aliases.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	command := func(pattern string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) {
		handlers["/"+pattern] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     handler,
			MatchType:   tgbot.MatchTypeCommandStartOnly,
			Middleware:  mw,
		}
	}

	command("start", NewStartHandler(deps))
	command("help", NewHelpHandler(deps))

	analyse := NewAnalyseHandler(deps)
	command("analyse", analyse)
	command("analyze", analyse)

	command("grammar", NewGrammarHandler(deps))

	tldr := NewTLDRHandler(deps)
	command("tldr", tldr)
	command("summarise", tldr)
	command("summarize", tldr)

	command("solution", NewSolutionHandler(deps))

	command("snipe", NewSnipeHandler(deps))
	command("editsnipe", NewEditSnipeHandler(deps))

	command("reset", NewResetHandler(deps), AdminOnly(deps))

	return handlers
}
