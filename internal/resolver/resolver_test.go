package resolver

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/caldas/arbiterbot/internal/database"
)

// fakeSource serves a fixed set of messages for one chat, ordered by
// message ID the way the real store is.
type fakeSource struct {
	messages map[int]*database.Message
	failWith error
}

func (f *fakeSource) GetMessage(_ context.Context, _ int64, messageID int) (*database.Message, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	msg, ok := f.messages[messageID]
	if !ok {
		return nil, database.ErrMessageNotFound
	}
	return msg, nil
}

func (f *fakeSource) GetMessagesAfter(_ context.Context, _ int64, afterID, beforeID, limit int) ([]*database.Message, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []*database.Message
	for id := afterID + 1; id < beforeID && len(out) < limit; id++ {
		if msg, ok := f.messages[id]; ok {
			out = append(out, msg)
		}
	}
	return out, nil
}

func msg(id int, userID int64, userName, content string) *database.Message {
	return &database.Message{ChatID: 1, MessageID: id, UserID: userID, UserName: userName, Content: content}
}

func newTestResolver(source MessageSource, horizon int) *Resolver {
	return New(source, horizon, slog.Default())
}

func TestResolveSingle(t *testing.T) {
	t.Parallel()

	source := &fakeSource{messages: map[int]*database.Message{
		10: msg(10, 42, "alice", "original text"),
	}}

	tests := []struct {
		name     string
		inv      Invocation
		wantErr  error
		wantText string
		wantUser string
	}{
		{
			name:     "reply target wins",
			inv:      Invocation{ChatID: 1, MessageID: 20, ReplyToID: 10, UserID: 7, UserName: "bob", Text: "ignored inline"},
			wantText: "original text",
			wantUser: "alice",
		},
		{
			name:     "inline text when not a reply",
			inv:      Invocation{ChatID: 1, MessageID: 20, UserID: 7, UserName: "bob", Text: "  argue with this  "},
			wantText: "argue with this",
			wantUser: "bob",
		},
		{
			name:    "no reply and no inline text",
			inv:     Invocation{ChatID: 1, MessageID: 20, UserID: 7, UserName: "bob"},
			wantErr: ErrNoTargetText,
		},
		{
			name:    "whitespace-only inline text",
			inv:     Invocation{ChatID: 1, MessageID: 20, UserID: 7, UserName: "bob", Text: "   "},
			wantErr: ErrNoTargetText,
		},
		{
			name:    "reply to a message the store never saw",
			inv:     Invocation{ChatID: 1, MessageID: 20, ReplyToID: 99, UserID: 7, UserName: "bob"},
			wantErr: ErrTargetUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestResolver(source, 300)
			target, err := r.ResolveSingle(context.Background(), tt.inv)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveSingle error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveSingle returned error: %v", err)
			}
			if target.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", target.Text, tt.wantText)
			}
			if target.UserName != tt.wantUser {
				t.Errorf("UserName = %q, want %q", target.UserName, tt.wantUser)
			}
		})
	}
}

func TestResolveSingleStoreFailure(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("disk on fire")
	r := newTestResolver(&fakeSource{failWith: storeErr}, 300)

	_, err := r.ResolveSingle(context.Background(), Invocation{ChatID: 1, MessageID: 20, ReplyToID: 10})
	if !errors.Is(err, storeErr) {
		t.Errorf("ResolveSingle error = %v, want wrapped %v", err, storeErr)
	}
	if errors.Is(err, ErrTargetUnavailable) {
		t.Error("infrastructure failure must not be reported as an unavailable target")
	}
}

func TestResolveWindow(t *testing.T) {
	t.Parallel()

	source := &fakeSource{messages: map[int]*database.Message{
		10: msg(10, 1, "alice", "the anchor"),
		11: msg(11, 2, "bob", "a reply"),
		12: msg(12, 1, "alice", ""), // photo-only, no transcript line
		13: msg(13, 3, "carol", "last word"),
		20: msg(20, 4, "dave", "after the command"),
	}}

	r := newTestResolver(source, 300)
	window, err := r.ResolveWindow(context.Background(), Invocation{ChatID: 1, MessageID: 15, ReplyToID: 10})
	if err != nil {
		t.Fatalf("ResolveWindow returned error: %v", err)
	}

	want := "alice: the anchor\nbob: a reply\ncarol: last word"
	if window.Transcript != want {
		t.Errorf("Transcript = %q, want %q", window.Transcript, want)
	}
	if window.MessageCount != 3 {
		t.Errorf("MessageCount = %d, want 3", window.MessageCount)
	}
	if window.Anchor == nil || window.Anchor.MessageID != 10 {
		t.Errorf("Anchor = %+v, want message 10", window.Anchor)
	}
}

func TestResolveWindowErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  *fakeSource
		inv     Invocation
		wantErr error
	}{
		{
			name:    "not a reply",
			source:  &fakeSource{},
			inv:     Invocation{ChatID: 1, MessageID: 15},
			wantErr: ErrMissingReplyAnchor,
		},
		{
			name:    "anchor never stored",
			source:  &fakeSource{messages: map[int]*database.Message{}},
			inv:     Invocation{ChatID: 1, MessageID: 15, ReplyToID: 10},
			wantErr: ErrTargetUnavailable,
		},
		{
			name: "window holds no text",
			source: &fakeSource{messages: map[int]*database.Message{
				10: msg(10, 1, "alice", ""),
				11: msg(11, 2, "bob", ""),
			}},
			inv:     Invocation{ChatID: 1, MessageID: 15, ReplyToID: 10},
			wantErr: ErrEmptyConversation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestResolver(tt.source, 300)
			_, err := r.ResolveWindow(context.Background(), tt.inv)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResolveWindow error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveWindowHorizon(t *testing.T) {
	t.Parallel()

	messages := map[int]*database.Message{10: msg(10, 1, "alice", "anchor")}
	for id := 11; id <= 30; id++ {
		messages[id] = msg(id, 2, "bob", "filler")
	}

	r := newTestResolver(&fakeSource{messages: messages}, 5)
	window, err := r.ResolveWindow(context.Background(), Invocation{ChatID: 1, MessageID: 40, ReplyToID: 10})
	if err != nil {
		t.Fatalf("ResolveWindow returned error: %v", err)
	}

	// Anchor plus at most horizon following messages.
	if window.MessageCount != 6 {
		t.Errorf("MessageCount = %d, want 6", window.MessageCount)
	}
}

func TestResolveWindowExcludesInvokingCommand(t *testing.T) {
	t.Parallel()

	source := &fakeSource{messages: map[int]*database.Message{
		10: msg(10, 1, "alice", "anchor"),
		15: msg(15, 2, "bob", "/tldr"), // already recorded by the time it resolves
	}}

	r := newTestResolver(source, 300)
	window, err := r.ResolveWindow(context.Background(), Invocation{ChatID: 1, MessageID: 15, ReplyToID: 10})
	if err != nil {
		t.Fatalf("ResolveWindow returned error: %v", err)
	}
	if window.Transcript != "alice: anchor" {
		t.Errorf("Transcript = %q, want only the anchor line", window.Transcript)
	}
}
