package gemini

// Prompt templates for the analysis operations. Each takes the target text
// or transcript as its single formatting argument.
const (
	fallacyPrompt = `Analyse the following text for logical fallacies. For each fallacy found, provide its name, an explanation, and the specific quote. If none are found, return an empty array. Text: "%s"`

	grammarPrompt = `Analyse the text for grammatical errors. For each error, provide its type, an explanation, the suggested correction, and the quote. If none, return an empty array. Text: "%s"`

	summaryPrompt = "Provide a concise summary of the following conversation, capturing the main points and arguments:\n---\n%s\n---"

	solutionPrompt = "Act as a neutral third-party observer. Analyse the conversation, identify the core issue (argument or problem), and propose a concise, practical, and actionable solution. Your tone should be constructive and unbiased. Conversation:\n---\n%s\n---"
)
