// Package services – SessionService
//
// This file implements the SessionService, which issues, resolves, and
// revokes opaque session tokens. Tokens are 32 bytes from a CSPRNG rendered
// as hex, carry no embedded user data, and exist only as a lookup key in the
// sessions table. A session is either absent or active; creation and
// revocation are each a single atomic row operation.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-messaging-backend/internal/domain"
)

// SessionRepo defines the repository contract required by SessionService.
type SessionRepo interface {
	CreateSession(ctx context.Context, db *gorm.DB, token string, userID int64, expiresAt *time.Time) (*domain.Session, error)
	GetSession(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, db *gorm.DB, token string) error
}

// SessionService manages the session lifecycle.
type SessionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the session repository used by this service.
	Repo SessionRepo

	// TTL is the session lifetime. Zero disables expiry entirely and
	// sessions live until explicit revocation.
	TTL time.Duration

	// now is a clock seam for tests.
	now func() time.Time
}

// NewSessionService constructs a SessionService. ttl == 0 means sessions
// never expire.
func NewSessionService(db *gorm.DB, r SessionRepo, ttl time.Duration) *SessionService {
	return &SessionService{DB: db, Repo: r, TTL: ttl, now: func() time.Time { return time.Now().UTC() }}
}

// Create issues a fresh token bound to userID and persists it as a single
// insert. The token carries 256 bits of CSPRNG entropy, comfortably past
// the point where guessing is feasible.
func (s *SessionService) Create(ctx context.Context, userID int64) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	token := hex.EncodeToString(raw)

	var expiresAt *time.Time
	if s.TTL > 0 {
		t := s.clock().Add(s.TTL)
		expiresAt = &t
	}

	if _, err := s.Repo.CreateSession(ctx, s.DB, token, userID, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve maps a token to its owning user. A miss (absent or expired token)
// is reported as ok == false, never as an error: callers treat it as "not
// authenticated". Expired rows are deleted on the way out.
func (s *SessionService) Resolve(ctx context.Context, token string) (userID int64, ok bool, err error) {
	if token == "" {
		return 0, false, nil
	}
	sess, err := s.Repo.GetSession(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if sess.ExpiresAt != nil && !sess.ExpiresAt.After(s.clock()) {
		// Lazy cleanup; failure to delete still counts as a miss.
		_ = s.Repo.DeleteSession(ctx, s.DB, token)
		return 0, false, nil
	}
	return sess.UserID, true, nil
}

// Revoke deletes a session. Revoking a token that does not exist returns
// ErrSessionNotFound, which handlers surface as a bad request rather than a
// server error. Revocation is idempotent in effect: after the first success
// the token never resolves again.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return ErrSessionNotFound
	}
	if err := s.Repo.DeleteSession(ctx, s.DB, token); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSessionNotFound
		}
		return err
	}
	return nil
}

func (s *SessionService) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}
