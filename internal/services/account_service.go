// Package services – AccountService
//
// This file implements the AccountService, which owns user registration and
// credential verification. Usernames are trimmed and NFC-normalized so that
// visually identical names cannot register twice; passwords are stored only
// as salted bcrypt hashes with a configurable cost factor.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
	"gorm.io/gorm"

	"github.com/tbourn/go-messaging-backend/internal/domain"
)

// UserRepo defines the repository contract required by AccountService.
type UserRepo interface {
	// CreateUser inserts a new user row.
	CreateUser(ctx context.Context, db *gorm.DB, username, passwordHash string) (*domain.User, error)

	// GetUserByUsername fetches a user by exact username.
	GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error)

	// UserExists reports whether a user id references an existing row.
	UserExists(ctx context.Context, db *gorm.DB, id int64) (bool, error)
}

// AccountService provides registration and credential checks.
type AccountService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo UserRepo

	// HashCost is the bcrypt cost factor. Values outside bcrypt's valid
	// range fall back to bcrypt.DefaultCost.
	HashCost int
}

// dummyHash is a bcrypt hash of an unguessable constant. Authenticate runs a
// compare against it when the username is unknown so both failure paths cost
// one bcrypt verification.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// NewAccountService constructs an AccountService with the given bcrypt cost.
func NewAccountService(db *gorm.DB, r UserRepo, hashCost int) *AccountService {
	if hashCost < bcrypt.MinCost || hashCost > bcrypt.MaxCost {
		hashCost = bcrypt.DefaultCost
	}
	return &AccountService{DB: db, Repo: r, HashCost: hashCost}
}

// Register creates a new account. It fails with ErrEmptyCredentials when
// either field is blank and ErrUsernameTaken when the username is already
// present. The raw password never leaves this method unhashed.
func (s *AccountService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	if _, err := s.Repo.GetUserByUsername(ctx, s.DB, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.HashCost)
	if err != nil {
		return nil, err
	}

	u, err := s.Repo.CreateUser(ctx, s.DB, username, string(hash))
	if err != nil {
		// The unique index backstops the existence check under concurrent
		// registration of the same name.
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies a username/password pair and returns the matching
// user. Unknown usernames and bad passwords both yield ErrInvalidCredentials;
// the hash comparison itself is constant time (bcrypt).
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = normalizeUsername(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.Repo.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison so the unknown-user path is not faster.
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Exists reports whether userID references a registered account.
func (s *AccountService) Exists(ctx context.Context, userID int64) (bool, error) {
	if userID <= 0 {
		return false, nil
	}
	return s.Repo.UserExists(ctx, s.DB, userID)
}

// normalizeUsername trims surrounding whitespace and applies Unicode NFC so
// composed and decomposed spellings of the same name collide.
func normalizeUsername(username string) string {
	return norm.NFC.String(strings.TrimSpace(username))
}

// isUniqueViolation sniffs driver-specific unique constraint errors.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
