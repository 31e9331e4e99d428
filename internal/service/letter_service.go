package service

import (
	"context"
	"errors"
	"time"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/arko/letter-drive/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LetterService struct {
	letterRepo repository.LetterRepository
}

func NewLetterService(letterRepo repository.LetterRepository) *LetterService {
	return &LetterService{letterRepo: letterRepo}
}

func (s *LetterService) Create(ctx context.Context, userID uuid.UUID, title, content string) (*domain.Letter, error) {
	now := time.Now()
	letter := &domain.Letter{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.letterRepo.Create(ctx, letter); err != nil {
		return nil, err
	}
	return letter, nil
}

// Get returns the letter only when it belongs to the user; a foreign id is
// indistinguishable from a missing one.
func (s *LetterService) Get(ctx context.Context, userID, letterID uuid.UUID) (*domain.Letter, error) {
	letter, err := s.letterRepo.GetByIDForUser(ctx, letterID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLetterNotFound
		}
		return nil, err
	}
	return letter, nil
}

// List returns the user's letters, newest-updated first.
func (s *LetterService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Letter, error) {
	return s.letterRepo.ListByUser(ctx, userID)
}

func (s *LetterService) Update(ctx context.Context, userID, letterID uuid.UUID, title, content string) (*domain.Letter, error) {
	letter, err := s.Get(ctx, userID, letterID)
	if err != nil {
		return nil, err
	}

	letter.Title = title
	letter.Content = content
	letter.UpdatedAt = time.Now()

	if err := s.letterRepo.Update(ctx, letter); err != nil {
		return nil, err
	}
	return letter, nil
}
