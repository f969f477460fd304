// Package services – MessageService
//
// This file implements MessageService, the application-level component that
// owns sending and reading messages. Send validates the recipient, derives
// the canonical conversation id, classifies the content (the one step with a
// network side effect, bounded by the classifier's own timeout and performed
// before any row is written), and persists a single immutable message row.
// Page serves time-ordered slices of a conversation's history.
//
// Observability: both public methods are OpenTelemetry-instrumented; spans
// include conversation/user identifiers and pagination parameters.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-messaging-backend/internal/classify"
	"github.com/tbourn/go-messaging-backend/internal/domain"
	"github.com/tbourn/go-messaging-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultPageSize applies when the caller omits messages_per_page.
	DefaultPageSize = 20
	// MaxPageSize caps messages_per_page.
	MaxPageSize = 100
)

// PageInfo carries pagination metadata alongside a slice of messages.
type PageInfo struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
	Pages   int64 `json:"pages"`
}

// MessageService coordinates classification and message persistence.
type MessageService struct {
	DB         *gorm.DB
	Accounts   *AccountService
	Classifier classify.Classifier

	// PageDefault and PageMax override DefaultPageSize/MaxPageSize when
	// set (> 0). Zero values fall back to the package constants.
	PageDefault int
	PageMax     int
}

func (s *MessageService) pageDefault() int {
	if s.PageDefault > 0 {
		return s.PageDefault
	}
	return DefaultPageSize
}

func (s *MessageService) pageMax() int {
	if s.PageMax > 0 {
		return s.PageMax
	}
	return MaxPageSize
}

// Send validates, classifies, and persists one message from sender to
// recipient. The returned message includes the assigned id, UTC timestamp,
// and the resolved type row.
//
// Error contract: ErrEmptyContent for blank content, ErrUnknownRecipient
// when the recipient id references nobody, classify.ErrUnsupportedMedia when
// a linked resource cannot be recognized. Store errors propagate raw; they
// are not retried, so a failed write never duplicates a message.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID int64, content string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.Int64("sender.id", senderID),
			attribute.Int64("recipient.id", recipientID),
		),
	)
	defer span.End()

	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}

	exists, err := s.Accounts.Exists(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrUnknownRecipient
	}

	convID, err := domain.ConversationID(senderID, recipientID)
	if err != nil {
		return nil, err
	}

	// Classification may fetch a remote resource; it runs before the insert
	// so no transaction is held open across the network.
	res, err := s.Classifier.Classify(ctx, content)
	if err != nil {
		return nil, err
	}

	mt, err := repo.GetMessageTypeByName(ctx, s.DB, res.Type)
	if err != nil {
		return nil, err
	}

	m, err := repo.CreateMessage(ctx, s.DB, &domain.Message{
		ConversationID: convID,
		SenderID:       senderID,
		RecipientID:    recipientID,
		TypeID:         mt.ID,
		Content:        content,
		Metadata:       res.Metadata,
	})
	if err != nil {
		return nil, err
	}
	m.Type = *mt
	return m, nil
}

// Page returns one page of the conversation between userA and userB, newest
// first. Both users must exist (ErrUnknownUser otherwise). page defaults to
// 1 and pageSize to DefaultPageSize; pageSize is capped at MaxPageSize. A
// page past the end yields an empty slice with HasNext false, not an error.
func (s *MessageService) Page(ctx context.Context, userA, userB int64, page, pageSize int) ([]domain.Message, PageInfo, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Page",
		trace.WithAttributes(
			attribute.Int64("user.a", userA),
			attribute.Int64("user.b", userB),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.pageDefault()
	}
	if max := s.pageMax(); pageSize > max {
		pageSize = max
	}

	for _, id := range []int64{userA, userB} {
		exists, err := s.Accounts.Exists(ctx, id)
		if err != nil {
			return nil, PageInfo{}, err
		}
		if !exists {
			return nil, PageInfo{}, ErrUnknownUser
		}
	}

	convID, err := domain.ConversationID(userA, userB)
	if err != nil {
		return nil, PageInfo{}, err
	}

	total, err := repo.CountMessages(ctx, s.DB, convID)
	if err != nil {
		return nil, PageInfo{}, err
	}

	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	info := PageInfo{
		Page:    page,
		PerPage: pageSize,
		Pages:   pages,
		HasNext: int64(page) < pages,
		HasPrev: page > 1,
	}

	if total == 0 || int64(page) > pages {
		return []domain.Message{}, info, nil
	}

	offset := (page - 1) * pageSize
	items, err := repo.ListMessagesPage(ctx, s.DB, convID, offset, pageSize)
	if err != nil {
		return nil, PageInfo{}, err
	}
	return items, info, nil
}

// ConversationStats exposes the aggregate used for ETag generation on the
// fetch endpoint.
func (s *MessageService) ConversationStats(ctx context.Context, userA, userB int64) (int64, int64, error) {
	convID, err := domain.ConversationID(userA, userB)
	if err != nil {
		return 0, 0, err
	}
	count, maxTS, err := repo.ConversationStats(ctx, s.DB, convID)
	if err != nil {
		return 0, 0, err
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.Unix()
	}
	return count, ts, nil
}
