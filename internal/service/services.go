package service

import (
	"github.com/arko/letter-drive/internal/config"
	"github.com/arko/letter-drive/internal/repository"
	"golang.org/x/oauth2"
)

type Services struct {
	Auth   *AuthService
	Letter *LetterService
	Sync   *SyncService
}

func NewServices(repos *repository.Repositories, newDriveClient DriveClientFactory, oauth *oauth2.Config, cfg *config.Config) *Services {
	return &Services{
		Auth:   NewAuthService(repos.User, oauth, cfg),
		Letter: NewLetterService(repos.Letter),
		Sync:   NewSyncService(repos.Letter, repos.User, newDriveClient),
	}
}
