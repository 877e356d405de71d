package database

import "time"

// Message is one recorded chat message. Every text or media message seen by
// the bot is stored so that reply anchors can be fetched, conversation
// windows assembled, and deleted messages reconstructed from their IDs.
type Message struct {
	ID        uint      `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`

	ChatID    int64 `db:"chat_id"`
	MessageID int   `db:"message_id"`
	UserID    int64 `db:"user_id"`

	// UserName is the sender's display name at the time the message was seen.
	UserName string `db:"user_name"`

	Content string `db:"content"`

	// Attachment holds the platform file ID of the first attachment, if any.
	Attachment string `db:"attachment"`

	Timestamp time.Time `db:"timestamp"`
}
