package postgres

import (
	"context"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type letterRepository struct {
	db *gorm.DB
}

func NewLetterRepository(db *gorm.DB) *letterRepository {
	return &letterRepository{db: db}
}

func (r *letterRepository) Create(ctx context.Context, letter *domain.Letter) error {
	return r.db.WithContext(ctx).Create(letter).Error
}

// GetByIDForUser scopes the lookup by owner, so a foreign letter id behaves
// exactly like a missing one.
func (r *letterRepository) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Letter, error) {
	var letter domain.Letter
	err := r.db.WithContext(ctx).First(&letter, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, err
	}
	return &letter, nil
}

func (r *letterRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Letter, error) {
	var letters []*domain.Letter
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&letters).Error
	if err != nil {
		return nil, err
	}
	return letters, nil
}

func (r *letterRepository) Update(ctx context.Context, letter *domain.Letter) error {
	return r.db.WithContext(ctx).Save(letter).Error
}

func (r *letterRepository) SetDriveFileID(ctx context.Context, id uuid.UUID, fileID string) error {
	return r.db.WithContext(ctx).Model(&domain.Letter{}).Where("id = ?", id).
		Update("drive_file_id", fileID).Error
}

func (r *letterRepository) SetDriveDocID(ctx context.Context, id uuid.UUID, docID string) error {
	return r.db.WithContext(ctx).Model(&domain.Letter{}).Where("id = ?", id).
		Update("drive_doc_id", docID).Error
}

func (r *letterRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Letter{}, "id = ?", id).Error
}
