package postgres

import (
	"context"
	"time"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

// Upsert relies on ON CONFLICT against the google_id unique index so two
// concurrent authentications for the same Google account cannot create
// duplicate rows. DriveFolderID is deliberately left out of the update set:
// re-authenticating must not forget the user's Letters folder.
func (r *userRepository) Upsert(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "google_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "name", "access_token", "refresh_token", "token_expiry", "updated_at",
		}),
	}).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "google_id = ?", googleID).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateTokens(ctx context.Context, id uuid.UUID, access, refresh string, expiry time.Time) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"access_token":  access,
		"refresh_token": refresh,
		"token_expiry":  expiry,
	}).Error
}

func (r *userRepository) SetDriveFolderID(ctx context.Context, id uuid.UUID, folderID string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).
		Update("drive_folder_id", folderID).Error
}
