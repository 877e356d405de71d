package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrMessageNotFound is returned when a requested message is not recorded.
var ErrMessageNotFound = errors.New("message not found")

// Store defines the data access interface for recorded messages.
// Methods accept context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveMessage inserts a new message record. Re-saving the same
	// (chat_id, message_id) pair replaces the stored copy.
	SaveMessage(ctx context.Context, message *Message) error

	// GetMessage retrieves a single message by chat and message ID.
	// Returns ErrMessageNotFound if it was never recorded.
	GetMessage(ctx context.Context, chatID int64, messageID int) (*Message, error)

	// GetMessagesAfter retrieves up to limit messages in a chat with
	// afterID < message_id < beforeID, in chronological order.
	GetMessagesAfter(ctx context.Context, chatID int64, afterID, beforeID, limit int) ([]*Message, error)

	// UpdateMessageContent replaces the stored text of an existing message.
	UpdateMessageContent(ctx context.Context, chatID int64, messageID int, content string) error

	// DeleteMessagesBefore removes messages recorded before the cutoff.
	// Returns the number of rows removed.
	DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteAllMessages removes every recorded message (admin reset).
	DeleteAllMessages(ctx context.Context) error

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
// It requires a connected sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveMessage(ctx context.Context, message *Message) error {
	if message == nil {
		return fmt.Errorf("cannot save nil message")
	}
	if message.ChatID == 0 {
		return fmt.Errorf("message must have a non-zero chat_id")
	}
	if message.MessageID == 0 {
		return fmt.Errorf("message must have a non-zero message_id")
	}
	if message.Timestamp.IsZero() {
		return fmt.Errorf("message must have a non-zero timestamp")
	}

	now := time.Now().UTC()
	message.CreatedAt = now
	message.UpdatedAt = now

	query := `
        INSERT OR REPLACE INTO messages
            (chat_id, message_id, user_id, user_name, content, attachment, timestamp, created_at, updated_at)
        VALUES
            (:chat_id, :message_id, :user_id, :user_name, :content, :attachment, :timestamp, :created_at, :updated_at);
    `

	result, err := s.db.NamedExecContext(ctx, query, message)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving message",
			"chat_id", message.ChatID, "message_id", message.MessageID, "error", err)
		return fmt.Errorf("failed to save message (chat %d, msg %d): %w", message.ChatID, message.MessageID, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		message.ID = uint(id) //nolint:gosec // row IDs fit comfortably in uint
	}

	return nil
}

func (s *sqlxStore) GetMessage(ctx context.Context, chatID int64, messageID int) (*Message, error) {
	var msg Message
	query := `SELECT * FROM messages WHERE chat_id = ? AND message_id = ? LIMIT 1;`

	if err := s.db.GetContext(ctx, &msg, query, chatID, messageID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		s.logger.ErrorContext(ctx, "Error fetching message",
			"chat_id", chatID, "message_id", messageID, "error", err)
		return nil, fmt.Errorf("failed to fetch message (chat %d, msg %d): %w", chatID, messageID, err)
	}

	return &msg, nil
}

func (s *sqlxStore) GetMessagesAfter(ctx context.Context, chatID int64, afterID, beforeID, limit int) ([]*Message, error) {
	if limit <= 0 {
		return nil, nil
	}

	var msgs []*Message
	query := `
        SELECT * FROM messages
        WHERE chat_id = ? AND message_id > ? AND message_id < ?
        ORDER BY message_id ASC
        LIMIT ?;
    `

	if err := s.db.SelectContext(ctx, &msgs, query, chatID, afterID, beforeID, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error fetching messages after anchor",
			"chat_id", chatID, "after_id", afterID, "error", err)
		return nil, fmt.Errorf("failed to fetch messages after %d in chat %d: %w", afterID, chatID, err)
	}

	return msgs, nil
}

func (s *sqlxStore) UpdateMessageContent(ctx context.Context, chatID int64, messageID int, content string) error {
	query := `UPDATE messages SET content = ?, updated_at = ? WHERE chat_id = ? AND message_id = ?;`

	result, err := s.db.ExecContext(ctx, query, content, time.Now().UTC(), chatID, messageID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error updating message content",
			"chat_id", chatID, "message_id", messageID, "error", err)
		return fmt.Errorf("failed to update message (chat %d, msg %d): %w", chatID, messageID, err)
	}

	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrMessageNotFound
	}

	return nil
}

func (s *sqlxStore) DeleteMessagesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE timestamp < ?;`, cutoff)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error pruning old messages", "cutoff", cutoff, "error", err)
		return 0, fmt.Errorf("failed to prune messages before %s: %w", cutoff, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return rows, nil
}

func (s *sqlxStore) DeleteAllMessages(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM messages;`); err != nil {
		s.logger.ErrorContext(ctx, "Error deleting all messages", "error", err)
		return fmt.Errorf("failed to delete all messages: %w", err)
	}
	return nil
}

func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	s.logger.InfoContext(ctx, "Running SQL maintenance (VACUUM)")

	if _, err := s.db.ExecContext(ctx, `VACUUM;`); err != nil {
		s.logger.ErrorContext(ctx, "VACUUM failed", "error", err)
		return fmt.Errorf("vacuum failed: %w", err)
	}

	return nil
}
