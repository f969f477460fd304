// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Message model.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-messaging-backend/internal/domain"
)

// ErrMissingField is returned by CreateMessage when a required field is
// absent. The service layer validates first, so hitting this indicates a
// defect in the caller rather than bad user input.
var ErrMissingField = errors.New("message is missing a required field")

// GetMessageTypeByName fetches a seeded message type row, or ErrNotFound.
func GetMessageTypeByName(ctx context.Context, db *gorm.DB, name string) (*domain.MessageType, error) {
	var mt domain.MessageType
	if err := db.WithContext(ctx).Where("name = ?", name).First(&mt).Error; err != nil {
		return nil, err
	}
	return &mt, nil
}

// CreateMessage inserts a message as a single atomic row insert. The
// database assigns a monotonically increasing id; the UTC timestamp is
// assigned here when the caller left it zero.
func CreateMessage(ctx context.Context, db *gorm.DB, m *domain.Message) (*domain.Message, error) {
	if m.ConversationID == "" || m.SenderID == 0 || m.RecipientID == 0 || m.TypeID == 0 || m.Content == "" {
		return nil, ErrMissingField
	}
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	if m.Metadata == nil {
		m.Metadata = domain.MetadataMap{}
	}
	if err := db.WithContext(ctx).Omit("Type").Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// CountMessages uses a raw COUNT so a missing table surfaces as an error.
func CountMessages(ctx context.Context, db *gorm.DB, conversationID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Raw("SELECT COUNT(*) FROM messages WHERE conversation_id = ?", conversationID).
		Scan(&total).Error
	return total, err
}

// ListMessagesPage returns a paginated slice for a conversation ordered
// newest first (Timestamp DESC, ID DESC as a tiebreaker for rows created
// within the same instant). The seeded type row is preloaded so callers
// can render the type name without a second query.
func ListMessagesPage(ctx context.Context, db *gorm.DB, conversationID string, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Preload("Type").
		Where("conversation_id = ?", conversationID).
		Order("timestamp DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
