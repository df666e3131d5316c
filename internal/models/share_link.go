package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ShareLink grants read-only access to one worker's salary slip.
//
// The token is an opaque, unguessable capability string. A link is usable
// iff it is not revoked and not expired.
type ShareLink struct {
	Token     string     `gorm:"primaryKey"`
	OwnerKey  string     `gorm:"index:share_link_owner_worker"`
	WorkerID  uuid.UUID  `gorm:"index:share_link_owner_worker"`
	ExpiresAt *time.Time // nil means the link never expires
	Revoked   bool
	Timestamps
}

var ErrShareTokenNotUnique = errors.New("a share link with this token already exists")

// Usable reports whether the link grants access at the given time.
func (s ShareLink) Usable(now time.Time) bool {
	if s.Revoked {
		return false
	}

	return s.ExpiresAt == nil || s.ExpiresAt.After(now)
}
