package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is created on the first successful Google authentication. The Google
// token pair is overwritten on every subsequent login; TokenExpiry lets the
// Drive client decide when the access token needs a refresh.
type User struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	GoogleID      string    `json:"-" gorm:"uniqueIndex;not null"`
	Email         string    `json:"email" gorm:"not null"`
	Name          string    `json:"name"`
	AccessToken   string    `json:"-" gorm:"not null"`
	RefreshToken  string    `json:"-"`
	TokenExpiry   time.Time `json:"-"`
	DriveFolderID string    `json:"-"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
