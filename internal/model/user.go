package model

import "time"

// UserID uniquely identifies a user across the system.
// It never changes after registration.
type UserID string

// SystemUserID is the reserved sender id for system-generated chat
// messages. Messages from it bypass normal sender validation.
const SystemUserID UserID = "00000000-0000-0000-0000-000000000000"

const (
	SystemUsername = "system"
	SystemNickname = "System"
)

// DeletedUserNickname replaces the nickname of soft-deleted users
// everywhere it has been denormalized.
const DeletedUserNickname = "Deleted User"

// Username and nickname length limits
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MaxNicknameLength = 30
)

// User represents a registered account.
//
// Soft-deleted users are retained for referential consistency: chat
// history and game history keep showing the id, but the record is
// excluded from active lookups and its nickname becomes "Deleted User".
type User struct {
	UserID       UserID
	Username     string // unique, case-normalized to lowercase
	Nickname     string
	PasswordHash string // bcrypt hash, never plaintext at this layer
	Deleted      bool
	DeletedAt    *time.Time
	CreatedAt    time.Time
}

// IsSystem reports whether this is the reserved system user.
func (u *User) IsSystem() bool {
	return u.UserID == SystemUserID
}
