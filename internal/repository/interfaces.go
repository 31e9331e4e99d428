package repository

import (
	"context"
	"time"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	// Upsert inserts the user or, if a row with the same Google ID already
	// exists, overwrites its profile fields and token pair. Atomic at the
	// database level via the unique index on google_id.
	Upsert(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error)
	UpdateTokens(ctx context.Context, id uuid.UUID, access, refresh string, expiry time.Time) error
	SetDriveFolderID(ctx context.Context, id uuid.UUID, folderID string) error
}

type LetterRepository interface {
	Create(ctx context.Context, letter *domain.Letter) error
	GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Letter, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Letter, error)
	Update(ctx context.Context, letter *domain.Letter) error
	SetDriveFileID(ctx context.Context, id uuid.UUID, fileID string) error
	SetDriveDocID(ctx context.Context, id uuid.UUID, docID string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User   UserRepository
	Letter LetterRepository
}
