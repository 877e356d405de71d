package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/caldas/arbiterbot/internal/config"
)

// newMockClient builds a Client whose SDK traffic is redirected to an
// httptest server running the given handler.
func newMockClient(t *testing.T, maxRetries int, handler http.HandlerFunc) Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.GeminiConfig{
		APIKey:            "test-key",
		ModelName:         "test-model",
		Temperature:       0.5,
		MaxRetries:        maxRetries,
		RetryDelaySeconds: 0,
		Timeout:           5 * time.Second,
	}

	client, err := newClient(context.Background(), cfg, slog.Default(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  srv.Client(),
		HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL},
	})
	if err != nil {
		t.Fatalf("newClient returned error: %v", err)
	}
	return client
}

// respondText writes a well-formed generate-content envelope whose single
// part carries the given text.
func respondText(w http.ResponseWriter, text string) {
	envelope := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{
				"role":  "model",
				"parts": []map[string]any{{"text": text}},
			}},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(envelope)
}

func respondError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprintf(w, `{"error":{"code":%d,"message":%q,"status":"INTERNAL"}}`, code, message)
}

func TestAnalyzeFallaciesParsesFindings(t *testing.T) {
	t.Parallel()

	client := newMockClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		respondText(w, `[{"fallacy_name":"Ad Hominem","explanation":"Attacks the speaker.","quote":"you would say that"}]`)
	})

	findings, err := client.AnalyzeFallacies(context.Background(), "you would say that")
	if err != nil {
		t.Fatalf("AnalyzeFallacies returned error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	f := findings[0]
	if f.Name != "Ad Hominem" {
		t.Errorf("Name = %q, want %q", f.Name, "Ad Hominem")
	}
	if f.Explanation != "Attacks the speaker." {
		t.Errorf("Explanation = %q", f.Explanation)
	}
	if f.Quote != "you would say that" {
		t.Errorf("Quote = %q", f.Quote)
	}
}

func TestAnalyzeFallaciesEmptyResultIsSuccess(t *testing.T) {
	t.Parallel()

	client := newMockClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		respondText(w, `[]`)
	})

	findings, err := client.AnalyzeFallacies(context.Background(), "a perfectly sound argument")
	if err != nil {
		t.Fatalf("AnalyzeFallacies returned error: %v", err)
	}
	if len(findings) != 0 {
		t.Errorf("got %d findings, want 0", len(findings))
	}
}

func TestAnalyzeGrammarParsesFindings(t *testing.T) {
	t.Parallel()

	client := newMockClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		respondText(w, `[{"error_type":"Agreement","explanation":"Subject and verb disagree.","correction":"they were","quote":"they was"}]`)
	})

	findings, err := client.AnalyzeGrammar(context.Background(), "they was here")
	if err != nil {
		t.Fatalf("AnalyzeGrammar returned error: %v", err)
	}
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1", len(findings))
	}
	if findings[0].Correction != "they were" {
		t.Errorf("Correction = %q, want %q", findings[0].Correction, "they were")
	}
}

func TestRequestErrorCarriesStatus(t *testing.T) {
	t.Parallel()

	client := newMockClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusInternalServerError, "backend exploded")
	})

	_, err := client.AnalyzeFallacies(context.Background(), "text")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", reqErr.StatusCode)
	}
	if reqErr.Body == "" {
		t.Error("Body is empty, want the API error message preserved")
	}
}

func TestUnparseablePayloadIsParseError(t *testing.T) {
	t.Parallel()

	client := newMockClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		respondText(w, `this is prose, not the promised JSON array`)
	})

	_, err := client.AnalyzeFallacies(context.Background(), "text")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if parseErr.Raw == "" {
		t.Error("Raw is empty, want the offending payload preserved")
	}
}

func TestStructuredResponseWithoutPartsIsParseError(t *testing.T) {
	t.Parallel()

	client := newMockClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[]}`)
	})

	_, err := client.AnalyzeGrammar(context.Background(), "text")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
}

func TestSummarizeReturnsText(t *testing.T) {
	t.Parallel()

	client := newMockClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		respondText(w, "They argued about tabs versus spaces.")
	})

	summary, err := client.Summarize(context.Background(), "alice: tabs\nbob: spaces")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "They argued about tabs versus spaces." {
		t.Errorf("summary = %q", summary)
	}
}

func TestSummarizeEmptyResponseIsNotAnError(t *testing.T) {
	t.Parallel()

	client := newMockClient(t, 0, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"candidates":[]}`)
	})

	summary, err := client.Summarize(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if summary != "" {
		t.Errorf("summary = %q, want empty", summary)
	}
}

func TestRetriesTransientServerErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newMockClient(t, 2, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			respondError(w, http.StatusServiceUnavailable, "overloaded")
			return
		}
		respondText(w, `[]`)
	})

	_, err := client.AnalyzeFallacies(context.Background(), "text")
	if err != nil {
		t.Fatalf("AnalyzeFallacies returned error after retry: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("server saw %d calls, want 2", got)
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newMockClient(t, 3, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		respondError(w, http.StatusBadRequest, "malformed schema")
	})

	_, err := client.AnalyzeFallacies(context.Background(), "text")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error = %v, want *RequestError", err)
	}
	if reqErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", reqErr.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1 (no retries)", got)
	}
}
