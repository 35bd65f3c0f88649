package domain

import (
	"strings"
	"time"
)

// User mirrors the persisted representation in the users table.
type User struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	Phone             *string
	PasswordHash      string
	ProfileImage      *string
	PasswordChangedAt *time.Time
	ResetTokenHash    *string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
}

// FullName joins first and last name, tolerating either being empty.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PasswordChangedAfter reports whether the password was changed strictly
// after the given instant. The change timestamp is truncated to whole
// seconds to match the resolution of token issuance claims, so a change
// within the same second does not invalidate the token.
func (u User) PasswordChangedAfter(t time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Truncate(time.Second).After(t)
}

// Document is an uploaded attachment owned by a user (transcripts,
// language certificates and similar).
type Document struct {
	ID         string
	UserID     string
	Name       string
	URL        string
	UploadedAt time.Time
}
