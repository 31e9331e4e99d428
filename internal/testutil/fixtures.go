package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	googleID string
	email    string
	name     string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		googleID: fmt.Sprintf("g-%s", suffix),
		email:    fmt.Sprintf("user_%s@example.com", suffix),
		name:     "Test User",
	}
}

// WithGoogleID sets the Google identity key
func (b *UserBuilder) WithGoogleID(id string) *UserBuilder {
	b.googleID = id
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// Build creates the user in the database
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()

	user := b.User()
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user
}

// User returns the user without persisting it.
func (b *UserBuilder) User() *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		GoogleID:     b.googleID,
		Email:        b.email,
		Name:         b.name,
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenExpiry:  time.Now().Add(time.Hour),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

// LetterBuilder creates test letters with a builder pattern
type LetterBuilder struct {
	userID      uuid.UUID
	title       string
	content     string
	driveFileID string
}

// NewLetterBuilder creates a new LetterBuilder owned by the given user
func NewLetterBuilder(userID uuid.UUID) *LetterBuilder {
	return &LetterBuilder{
		userID:  userID,
		title:   "Test Letter",
		content: "Dear reader,",
	}
}

// WithTitle sets the title
func (b *LetterBuilder) WithTitle(title string) *LetterBuilder {
	b.title = title
	return b
}

// WithContent sets the content
func (b *LetterBuilder) WithContent(content string) *LetterBuilder {
	b.content = content
	return b
}

// WithDriveFileID marks the letter as already synced
func (b *LetterBuilder) WithDriveFileID(id string) *LetterBuilder {
	b.driveFileID = id
	return b
}

// Build creates the letter in the database
func (b *LetterBuilder) Build(t *testing.T, db *gorm.DB) *domain.Letter {
	t.Helper()

	letter := b.Letter()
	if err := db.Create(letter).Error; err != nil {
		t.Fatalf("failed to create letter: %v", err)
	}

	return letter
}

// Letter returns the letter without persisting it.
func (b *LetterBuilder) Letter() *domain.Letter {
	return &domain.Letter{
		ID:          uuid.New(),
		UserID:      b.userID,
		Title:       b.title,
		Content:     b.content,
		DriveFileID: b.driveFileID,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}
