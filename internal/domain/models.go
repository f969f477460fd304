// Package domain defines the persistence models for users, sessions, and
// messages. These types are mapped with GORM and form the core data layer
// of the messaging backend.
package domain

import "time"

// Message type names. These match the seeded rows in the message_types
// reference table and are the only values a classifier may produce.
const (
	TypeText      = "text"
	TypeImageLink = "image_link"
	TypeVideoLink = "video_link"
)

// User represents a registered account. The password is stored only as a
// salted bcrypt hash; the raw password never reaches this layer.
//
// Fields:
//   - ID: autoincrement primary key.
//   - Username: unique login name (case preserved, NFC-normalized upstream).
//   - PasswordHash: bcrypt hash, never serialized to JSON.
//   - CreatedAt: timestamp managed by GORM.
type User struct {
	ID           int64     `json:"id"       gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(60);not null;uniqueIndex:ux_users_username"`
	PasswordHash string    `json:"-"        gorm:"type:varchar(128);not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Session binds an opaque random token to a user. The token is the primary
// key and carries no embedded user data; lookup is the only way from token
// to user. ExpiresAt is nil when sessions never expire.
type Session struct {
	Token     string     `json:"-"       gorm:"type:char(64);primaryKey"`
	UserID    int64      `json:"user_id" gorm:"not null;index:idx_session_user"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// User is the session owner. Sessions are cascade-deleted if the
	// account is removed.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }

// MessageType is static reference data seeded once at startup and read-only
// at runtime. See repo.SeedMessageTypes.
type MessageType struct {
	ID   int64  `json:"id"   gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(36);not null;uniqueIndex:ux_message_types_name"`
}

// TableName returns the database table name for MessageType.
func (MessageType) TableName() string { return "message_types" }

// Message is a single utterance between two users. Messages are immutable
// after insert: never updated, never deleted.
//
// ConversationID is derived from the unordered {sender, recipient} pair via
// ConversationID(); it is recomputed on every write and read, never chosen
// independently.
type Message struct {
	ID             int64       `json:"id"              gorm:"primaryKey;autoIncrement"`
	ConversationID string      `json:"conversation_id" gorm:"type:varchar(255);not null;index:idx_conv_msgs,priority:1"`
	SenderID       int64       `json:"sender_id"       gorm:"not null"`
	RecipientID    int64       `json:"recipient_id"    gorm:"not null"`
	TypeID         int64       `json:"-"               gorm:"not null"`
	Type           MessageType `json:"type"            gorm:"foreignKey:TypeID;references:ID"`
	Content        string      `json:"content"         gorm:"type:text;not null"`
	Timestamp      time.Time   `json:"timestamp"       gorm:"not null;index:idx_conv_msgs,priority:2"`
	Metadata       MetadataMap `json:"metadata"        gorm:"type:text"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }
