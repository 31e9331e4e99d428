package domain

import (
	"time"

	"github.com/google/uuid"
)

// Letter is a text document owned by a single user.
//
// DriveFileID is assigned on the first successful Drive sync and reused on
// every later sync; it is never reset, even if the remote file disappears
// out-of-band. DriveDocID tracks the latest Docs-format copy so a resync
// replaces it instead of accumulating converted copies.
type Letter struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Content     string    `json:"content"`
	DriveFileID string    `json:"driveFileId"`
	DriveDocID  string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
