package handlers

import (
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
)

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare command", "/analyse", ""},
		{"command with args", "/analyse this claim", "this claim"},
		{"command with bot suffix", "/analyse@arbiter_bot this claim", "this claim"},
		{"args on next line", "/analyse\nthis claim", "this claim"},
		{"surrounding whitespace", "/analyse   padded   ", "padded"},
		{"plain text passthrough", "no command here", "no command here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := commandArgs(tt.in); got != tt.want {
				t.Errorf("commandArgs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRecallIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    int
		wantErr bool
	}{
		{"no argument defaults to most recent", "/snipe", 1, false},
		{"explicit index", "/snipe 3", 3, false},
		{"extra tokens ignored", "/snipe 2 please", 2, false},
		{"zero is invalid", "/snipe 0", 0, true},
		{"negative is invalid", "/snipe -1", 0, true},
		{"non-numeric is invalid", "/snipe latest", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := recallIndex(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("recallIndex(%q) succeeded with %d, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("recallIndex(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("recallIndex(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user *models.User
		want string
	}{
		{"full name", &models.User{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"first name only", &models.User{FirstName: "Ada"}, "Ada"},
		{"username fallback", &models.User{Username: "ada"}, "ada"},
		{"id fallback", &models.User{ID: 42}, "user 42"},
		{"nil user", nil, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := displayName(tt.user); got != tt.want {
				t.Errorf("displayName = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate left %q, want unchanged", got)
	}

	long := strings.Repeat("a", 100)
	got := truncate(long, 10)
	if len(got) != 10 {
		t.Errorf("truncated length = %d, want 10", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated text %q missing ellipsis", got)
	}
}

func TestMessageLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		chatID int64
		want   string
	}{
		{"supergroup", -1001234567890, "https://t.me/c/1234567890/7"},
		{"basic group has no link", -12345, ""},
		{"private chat has no link", 42, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := messageLink(tt.chatID, 7); got != tt.want {
				t.Errorf("messageLink(%d, 7) = %q, want %q", tt.chatID, got, tt.want)
			}
		})
	}
}

func TestInvocationFrom(t *testing.T) {
	t.Parallel()

	msg := &models.Message{
		ID:   20,
		Chat: models.Chat{ID: -100},
		From: &models.User{ID: 7, FirstName: "Ada"},
		Text: "/analyse some claim",
		ReplyToMessage: &models.Message{
			ID: 10,
		},
	}

	inv := invocationFrom(msg)
	if inv.ChatID != -100 || inv.MessageID != 20 {
		t.Errorf("ChatID/MessageID = %d/%d, want -100/20", inv.ChatID, inv.MessageID)
	}
	if inv.ReplyToID != 10 {
		t.Errorf("ReplyToID = %d, want 10", inv.ReplyToID)
	}
	if inv.UserID != 7 || inv.UserName != "Ada" {
		t.Errorf("UserID/UserName = %d/%q, want 7/Ada", inv.UserID, inv.UserName)
	}
	if inv.Text != "some claim" {
		t.Errorf("Text = %q, want %q", inv.Text, "some claim")
	}
}
