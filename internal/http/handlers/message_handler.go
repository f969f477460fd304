// Messaging HTTP handlers.
//
//   - POST /messages  (send into a conversation)
//   - GET  /messages  (page through a conversation, newest first)
//
// Both endpoints require a live session. Message bodies are classified
// server-side: plain text is stored as-is, while http(s) links are fetched
// and sniffed so image and video links carry their media metadata.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-messaging-backend/internal/classify"
	"github.com/tbourn/go-messaging-backend/internal/domain"
	"github.com/tbourn/go-messaging-backend/internal/http/middleware"
	"github.com/tbourn/go-messaging-backend/internal/services"
	"github.com/tbourn/go-messaging-backend/internal/utils"
)

// MessageService defines the messaging operations consumed by HTTP handlers.
type MessageService interface {
	// Send classifies content and stores it in the pair's conversation.
	Send(ctx context.Context, senderID, recipientID int64, content string) (*domain.Message, error)
	// Page returns one page of a conversation, newest first.
	Page(ctx context.Context, userA, userB int64, page, perPage int) ([]domain.Message, services.PageInfo, error)
	// ConversationStats reports the message count and latest timestamp,
	// used here as a cheap cache validator.
	ConversationStats(ctx context.Context, userA, userB int64) (int64, int64, error)
}

// Handlers bundles the HTTP handlers with their dependencies.
type Handlers struct {
	accounts AccountService
	sessions SessionService
	messages MessageService
}

// New wires handlers to their backing services.
func New(accounts AccountService, sessions SessionService, messages MessageService) *Handlers {
	return &Handlers{accounts: accounts, sessions: sessions, messages: messages}
}

//
// DTOs
//

// SendMessageRequest is the JSON payload for POST /messages.
type SendMessageRequest struct {
	SenderID       int64  `json:"sender_id" example:"1"`
	RecipientID    int64  `json:"recipient_id" example:"2"`
	MessageContent string `json:"message_content" example:"hello there"`
}

// MessageReceipt echoes what was stored for a freshly sent message.
type MessageReceipt struct {
	Type      string `json:"type" example:"text"`
	Content   string `json:"content" example:"hello there"`
	Timestamp string `json:"timestamp" example:"2025-01-02T15:04:05Z"`
}

// MessagePage is the msg payload for GET /messages.
type MessagePage struct {
	services.PageInfo
	Messages []domain.Message `json:"messages"`
}

//
// Handlers
//

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a message
// @Description Stores a message from the authenticated sender to a recipient.
// @Description Links are fetched and classified; unclassifiable media is
// @Description rejected with 415.
// @Tags        Messages
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SendMessageRequest  true  "Message"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad payload, missing session, unknown recipient, or sender mismatch"
// @Failure     415  {object}  handlers.ErrorResponse  "Link resolves to unsupported media"
// @Router      /messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	// A missing or dead session is a bad request here, not a 401; only a
	// failed credential check at login is Unauthorized.
	uid, live := h.currentUser(c)
	if !live {
		badRequest(c)
		return
	}

	var req SendMessageRequest
	if err := bindStrictJSON(c, &req); err != nil {
		badRequest(c)
		return
	}
	if req.SenderID != uid {
		// A session may only speak for its own user.
		badRequest(c)
		return
	}

	m, err := h.messages.Send(c.Request.Context(), req.SenderID, req.RecipientID, req.MessageContent)
	switch {
	case err == nil:
		middleware.ObserveMessageSent(m.Type.Name)
		ok(c, MessageReceipt{
			Type:      m.Type.Name,
			Content:   m.Content,
			Timestamp: m.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	case errors.Is(err, classify.ErrUnsupportedMedia):
		unsupportedMedia(c)
	case errors.Is(err, services.ErrEmptyContent),
		errors.Is(err, services.ErrUnknownRecipient),
		errors.Is(err, domain.ErrInvalidUserID):
		badRequest(c)
	default:
		internalError(c, err)
	}
}

// FetchMessages godoc
// @ID          fetchMessages
// @Summary     Fetch a conversation page
// @Description Returns one page of the conversation between user_id_1 and
// @Description user_id_2, newest first. The pair is unordered.
// @Tags        Messages
// @Produce     json
// @Param       user_id_1          query  int  true   "First participant"
// @Param       user_id_2          query  int  true   "Second participant"
// @Param       page               query  int  false  "Page number (1-based)"
// @Param       messages_per_page  query  int  false  "Page size"
// @Success     200  {object}  handlers.StatusResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing session, bad ids, or unknown participant"
// @Router      /messages [get]
func (h *Handlers) FetchMessages(c *gin.Context) {
	if _, live := h.currentUser(c); !live {
		badRequest(c)
		return
	}

	userA, okA := utils.ParseID(c.Query("user_id_1"))
	userB, okB := utils.ParseID(c.Query("user_id_2"))
	if !okA || !okB {
		badRequest(c)
		return
	}
	page := utils.AtoiDefault(c.Query("page"), 1)
	// 0 lets the service apply its configured default page size.
	perPage := utils.AtoiDefault(c.Query("messages_per_page"), 0)

	msgs, info, err := h.messages.Page(c.Request.Context(), userA, userB, page, perPage)
	switch {
	case err == nil:
		// Conversations are append-only, so count+latest-timestamp is a
		// valid ETag. Only validated requests get one; a request that
		// fails validation must keep failing no matter what it sends in
		// If-None-Match.
		if count, last, serr := h.messages.ConversationStats(c.Request.Context(), userA, userB); serr == nil {
			etag := fmt.Sprintf("W/\"conv-%d-%d\"", count, last)
			c.Header("ETag", etag)
			if c.GetHeader("If-None-Match") == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
		if msgs == nil {
			msgs = []domain.Message{}
		}
		ok(c, MessagePage{PageInfo: info, Messages: msgs})
	case errors.Is(err, services.ErrUnknownUser), errors.Is(err, domain.ErrInvalidUserID):
		badRequest(c)
	default:
		internalError(c, err)
	}
}
