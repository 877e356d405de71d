package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/caldas/arbiterbot/internal/database"
	"github.com/caldas/arbiterbot/internal/recall"
)

// NewWatchHandler returns the default handler that observes every update no
// command handler claimed. It records new messages into the store (the
// history that powers reply anchors and conversation windows) and feeds
// edit and deletion events into the recall cache.
func NewWatchHandler(deps HandlerDeps) bot.HandlerFunc {
	return watchHandler{deps}.Handle
}

type watchHandler struct {
	deps HandlerDeps
}

func (h watchHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	switch {
	case update.Message != nil:
		h.recordMessage(ctx, update.Message)
	case update.EditedMessage != nil:
		h.recordEdit(ctx, update.EditedMessage)
	case update.DeletedBusinessMessages != nil:
		h.recordDeletions(ctx, update.DeletedBusinessMessages)
	}
}

func (h watchHandler) recordMessage(ctx context.Context, msg *models.Message) {
	log := h.deps.Logger.With("handler", "watch")

	if msg.From == nil {
		return
	}

	content := msg.Text
	if content == "" {
		content = msg.Caption
	}
	attachment := attachmentFileID(msg)
	if content == "" && attachment == "" {
		return
	}

	record := &database.Message{
		ChatID:     msg.Chat.ID,
		MessageID:  msg.ID,
		UserID:     msg.From.ID,
		UserName:   displayName(msg.From),
		Content:    content,
		Attachment: attachment,
		Timestamp:  time.Unix(int64(msg.Date), 0).UTC(),
	}
	if err := h.deps.Store.SaveMessage(ctx, record); err != nil {
		log.ErrorContext(ctx, "Failed to record message",
			"error", err, "chat_id", msg.Chat.ID, "message_id", msg.ID)
	}
}

// recordEdit captures the before/after pair for the recall cache, then
// updates the stored copy so later windows see the current text.
func (h watchHandler) recordEdit(ctx context.Context, msg *models.Message) {
	log := h.deps.Logger.With("handler", "watch")

	if msg.From == nil {
		return
	}

	after := msg.Text
	if after == "" {
		after = msg.Caption
	}

	before, err := h.deps.Store.GetMessage(ctx, msg.Chat.ID, msg.ID)
	if err != nil {
		if !errors.Is(err, database.ErrMessageNotFound) {
			log.ErrorContext(ctx, "Failed to fetch pre-edit message",
				"error", err, "chat_id", msg.Chat.ID, "message_id", msg.ID)
		}
		// Never saw the original; record the current text so future edits
		// of this message have a baseline.
		h.recordMessage(ctx, msg)
		return
	}

	editedAt := time.Now().UTC()
	if msg.EditDate != 0 {
		editedAt = time.Unix(int64(msg.EditDate), 0).UTC()
	}

	h.deps.Recall.RecordEdit(msg.Chat.ID, recall.Edit{
		UserID:    msg.From.ID,
		UserName:  displayName(msg.From),
		Before:    before.Content,
		After:     after,
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		EditedAt:  editedAt,
	})

	if err := h.deps.Store.UpdateMessageContent(ctx, msg.Chat.ID, msg.ID, after); err != nil {
		log.ErrorContext(ctx, "Failed to update stored message after edit",
			"error", err, "chat_id", msg.Chat.ID, "message_id", msg.ID)
	}
}

// recordDeletions reconstructs deleted messages from the store; the
// platform event carries only their IDs.
func (h watchHandler) recordDeletions(ctx context.Context, deleted *models.BusinessMessagesDeleted) {
	log := h.deps.Logger.With("handler", "watch")

	chatID := deleted.Chat.ID
	for _, messageID := range deleted.MessageIDs {
		msg, err := h.deps.Store.GetMessage(ctx, chatID, messageID)
		if err != nil {
			if !errors.Is(err, database.ErrMessageNotFound) {
				log.ErrorContext(ctx, "Failed to fetch deleted message",
					"error", err, "chat_id", chatID, "message_id", messageID)
			}
			continue
		}

		h.deps.Recall.RecordDeletion(chatID, recall.Deletion{
			UserID:     msg.UserID,
			UserName:   msg.UserName,
			Content:    msg.Content,
			Attachment: msg.Attachment,
			Timestamp:  msg.Timestamp,
		})
	}
}

// attachmentFileID returns the platform file ID of the message's first
// attachment, if any.
func attachmentFileID(msg *models.Message) string {
	switch {
	case len(msg.Photo) > 0:
		return msg.Photo[len(msg.Photo)-1].FileID
	case msg.Document != nil:
		return msg.Document.FileID
	case msg.Video != nil:
		return msg.Video.FileID
	case msg.Animation != nil:
		return msg.Animation.FileID
	case msg.Sticker != nil:
		return msg.Sticker.FileID
	case msg.Voice != nil:
		return msg.Voice.FileID
	case msg.Audio != nil:
		return msg.Audio.FileID
	default:
		return ""
	}
}
