// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Session model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-messaging-backend/internal/domain"
)

// CreateSession inserts a (token, user) pair as a single atomic row insert.
// expiresAt may be nil for sessions without an expiry.
func CreateSession(ctx context.Context, db *gorm.DB, token string, userID int64, expiresAt *time.Time) (*domain.Session, error) {
	s := &domain.Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt,
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSession fetches a session by its token, or ErrNotFound.
func GetSession(ctx context.Context, db *gorm.DB, token string) (*domain.Session, error) {
	var s domain.Session
	if err := db.WithContext(ctx).Where("token = ?", token).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSession removes a session by token. If no row was deleted it
// returns ErrNotFound so callers can distinguish a revoke of an absent
// token from a successful one.
func DeleteSession(ctx context.Context, db *gorm.DB, token string) error {
	res := db.WithContext(ctx).Where("token = ?", token).Delete(&domain.Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteExpiredSessions removes all sessions whose expiry is at or before
// now. Sessions with a NULL expiry are never touched. Returns the number
// of rows removed.
func DeleteExpiredSessions(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&domain.Session{})
	return res.RowsAffected, res.Error
}
