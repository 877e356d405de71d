// Package gemini implements the schema-constrained client for Google's
// Gemini generative API. Structured analyses declare a response schema and
// either return data matching it or fail; plain-text analyses may
// legitimately return nothing.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/caldas/arbiterbot/internal/config"
)

// Client defines the analysis operations backed by the generative API.
type Client interface {
	// AnalyzeFallacies checks text for logical fallacies. An empty slice
	// means the model found none; that is a success, not an error.
	AnalyzeFallacies(ctx context.Context, text string) ([]Fallacy, error)

	// AnalyzeGrammar checks text for grammatical errors.
	AnalyzeGrammar(ctx context.Context, text string) ([]GrammarIssue, error)

	// Summarize produces a plain-text summary of a conversation transcript.
	// An empty string with a nil error means the model produced nothing.
	Summarize(ctx context.Context, transcript string) (string, error)

	// ProposeSolution proposes a neutral resolution for a discussion.
	ProposeSolution(ctx context.Context, transcript string) (string, error)
}

type sdkClient struct {
	genaiClient *genai.Client
	log         *slog.Logger
	modelName   string
	temperature float32
	timeout     time.Duration
	maxRetries  int
	retryDelay  time.Duration
}

// NewClient creates a new Gemini client holding a single long-lived
// connection to the API for the lifetime of the process.
func NewClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	return newClient(ctx, cfg, log, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// newClient is the test seam: tests inject a ClientConfig whose HTTPOptions
// point at a mock server.
func newClient(ctx context.Context, cfg config.GeminiConfig, log *slog.Logger, clientCfg *genai.ClientConfig) (Client, error) {
	if log == nil {
		log = slog.Default()
	}

	gi, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	logger := log.With("component", "gemini_client")
	logger.Info("Gemini client initialized successfully", "model", cfg.ModelName)

	return &sdkClient{
		genaiClient: gi,
		log:         logger,
		modelName:   cfg.ModelName,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  time.Duration(cfg.RetryDelaySeconds) * time.Second,
	}, nil
}

func (c *sdkClient) AnalyzeFallacies(ctx context.Context, text string) ([]Fallacy, error) {
	var findings []Fallacy
	if err := c.generateStructured(ctx, fmt.Sprintf(fallacyPrompt, text), fallacyListSchema, &findings); err != nil {
		return nil, err
	}
	return findings, nil
}

func (c *sdkClient) AnalyzeGrammar(ctx context.Context, text string) ([]GrammarIssue, error) {
	var findings []GrammarIssue
	if err := c.generateStructured(ctx, fmt.Sprintf(grammarPrompt, text), grammarListSchema, &findings); err != nil {
		return nil, err
	}
	return findings, nil
}

func (c *sdkClient) Summarize(ctx context.Context, transcript string) (string, error) {
	return c.generateText(ctx, fmt.Sprintf(summaryPrompt, transcript))
}

func (c *sdkClient) ProposeSolution(ctx context.Context, transcript string) (string, error) {
	return c.generateText(ctx, fmt.Sprintf(solutionPrompt, transcript))
}

// generateStructured runs a schema-constrained request and decodes the JSON
// payload into out. A payload that fails to decode is a *ParseError; a call
// that does not reach a well-formed envelope at all is a *RequestError.
func (c *sdkClient) generateStructured(ctx context.Context, prompt string, schema *genai.Schema, out any) error {
	resp, err := c.generateWithRetries(ctx, prompt, schema)
	if err != nil {
		return err
	}

	text, ok := firstPartText(resp)
	if !ok {
		c.log.ErrorContext(ctx, "Schema-constrained response missing content part")
		return &ParseError{Raw: rawEnvelope(resp), Err: errors.New("response contains no content part")}
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		c.log.ErrorContext(ctx, "Failed to decode schema-constrained payload", "error", err, "payload", text)
		return &ParseError{Raw: text, Err: err}
	}

	return nil
}

// generateText runs a plain request. Absence of any content part is not an
// error: the model may legitimately produce nothing.
func (c *sdkClient) generateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.generateWithRetries(ctx, prompt, nil)
	if err != nil {
		return "", err
	}

	text, _ := firstPartText(resp)
	return text, nil
}

func (c *sdkClient) generateWithRetries(ctx context.Context, prompt string, schema *genai.Schema) (*genai.GenerateContentResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	cfg := &genai.GenerateContentConfig{
		Temperature: &c.temperature,
	}
	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = schema
	}

	var resp *genai.GenerateContentResponse
	var err error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		resp, err = c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, cfg)
		if err == nil {
			return resp, nil
		}

		reqErr := classifyRequestError(err)
		if (reqErr.StatusCode == 500 || reqErr.StatusCode == 503) && attempt < c.maxRetries {
			c.log.WarnContext(ctx, "Gemini API call failed, retrying",
				"attempt", attempt+1, "max_retries", c.maxRetries, "status", reqErr.StatusCode)
			select {
			case <-time.After(c.retryDelay):
				continue
			case <-ctx.Done():
				return nil, &RequestError{Err: ctx.Err()}
			}
		}

		c.log.ErrorContext(ctx, "Gemini API call failed",
			"status", reqErr.StatusCode, "error", err)
		return nil, reqErr
	}

	return nil, classifyRequestError(err)
}

// classifyRequestError maps any SDK/transport failure onto *RequestError,
// preserving the HTTP status and raw body when the API reported one.
func classifyRequestError(err error) *RequestError {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &RequestError{StatusCode: apiErr.Code, Body: apiErr.Message, Err: err}
	}
	return &RequestError{Err: err}
}

// firstPartText extracts the first candidate's first content part, the
// single payload slot the endpoint contract defines.
func firstPartText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", false
	}
	return cand.Content.Parts[0].Text, true
}

func rawEnvelope(resp *genai.GenerateContentResponse) string {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf("%+v", resp)
	}
	return string(raw)
}
