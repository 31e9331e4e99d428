package service

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/arko/letter-drive/internal/drive"
	"github.com/arko/letter-drive/internal/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LettersFolderName is the Drive container that mirrors a user's letters.
const LettersFolderName = "Letters"

// DriveClient is the slice of the Drive API the sync engine uses.
type DriveClient interface {
	FindFolder(ctx context.Context, name string) (string, error)
	CreateFolder(ctx context.Context, name string) (string, error)
	CreateFile(ctx context.Context, folderID, name, content string) (string, error)
	UpdateFile(ctx context.Context, fileID, name, content string) error
	CopyAsDoc(ctx context.Context, fileID, folderID, name string) (string, error)
	Delete(ctx context.Context, fileID string) error
}

// DriveClientFactory builds a client authorized with one user's credentials.
type DriveClientFactory func(user *domain.User) DriveClient

// SyncService mirrors letters to Drive. Each letter maps to at most one
// remote file: the first sync creates it and records the id, every later
// sync updates the same file in place.
type SyncService struct {
	letterRepo repository.LetterRepository
	userRepo   repository.UserRepository
	newClient  DriveClientFactory

	// folderLocks serializes folder lookup-or-create per user so two
	// concurrent first syncs cannot end up with two Letters folders.
	folderLocks sync.Map // uuid.UUID -> *sync.Mutex
}

func NewSyncService(letterRepo repository.LetterRepository, userRepo repository.UserRepository, newClient DriveClientFactory) *SyncService {
	return &SyncService{
		letterRepo: letterRepo,
		userRepo:   userRepo,
		newClient:  newClient,
	}
}

// Sync makes the user's Drive reflect the letter's current title and
// content, and returns the remote file id. On failure the letter keeps its
// prior state: a letter without a file id stays unsynced, a failed update
// leaves the existing remote file untouched.
func (s *SyncService) Sync(ctx context.Context, user *domain.User, letterID uuid.UUID) (string, error) {
	letter, err := s.letterRepo.GetByIDForUser(ctx, letterID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrLetterNotFound
		}
		return "", err
	}

	client := s.newClient(user)

	folderID, err := s.ensureFolder(ctx, client, user)
	if err != nil {
		return "", err
	}

	if letter.DriveFileID == "" {
		fileID, err := client.CreateFile(ctx, folderID, letter.Title+".txt", letter.Content)
		if err != nil {
			return "", err
		}
		if err := s.letterRepo.SetDriveFileID(ctx, letter.ID, fileID); err != nil {
			return "", err
		}
		letter.DriveFileID = fileID
	} else {
		if err := client.UpdateFile(ctx, letter.DriveFileID, letter.Title+".txt", letter.Content); err != nil {
			return "", err
		}
	}

	s.replaceDocCopy(ctx, client, letter, folderID)

	return letter.DriveFileID, nil
}

// Delete removes the letter's remote file and Docs copy best-effort, then
// deletes the local record regardless of the remote outcome.
func (s *SyncService) Delete(ctx context.Context, user *domain.User, letterID uuid.UUID) error {
	letter, err := s.letterRepo.GetByIDForUser(ctx, letterID, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLetterNotFound
		}
		return err
	}

	if letter.DriveFileID != "" {
		client := s.newClient(user)
		if err := client.Delete(ctx, letter.DriveFileID); err != nil {
			log.Printf("ERROR [sync.Delete] remote delete of file %s failed: %v", letter.DriveFileID, err)
		}
		if letter.DriveDocID != "" {
			if err := client.Delete(ctx, letter.DriveDocID); err != nil {
				log.Printf("ERROR [sync.Delete] remote delete of docs copy %s failed: %v", letter.DriveDocID, err)
			}
		}
	}

	return s.letterRepo.Delete(ctx, letter.ID)
}

// ensureFolder resolves the user's Letters folder id, creating the folder
// on first sync and remembering it on the user record.
func (s *SyncService) ensureFolder(ctx context.Context, client DriveClient, user *domain.User) (string, error) {
	if user.DriveFolderID != "" {
		return user.DriveFolderID, nil
	}

	mu := s.folderLock(user.ID)
	mu.Lock()
	defer mu.Unlock()

	// Another request may have resolved the folder while we waited.
	fresh, err := s.userRepo.GetByID(ctx, user.ID)
	if err == nil && fresh.DriveFolderID != "" {
		user.DriveFolderID = fresh.DriveFolderID
		return fresh.DriveFolderID, nil
	}

	folderID, err := client.FindFolder(ctx, LettersFolderName)
	if err != nil {
		return "", err
	}
	if folderID == "" {
		folderID, err = client.CreateFolder(ctx, LettersFolderName)
		if err != nil {
			return "", err
		}
	}

	if err := s.userRepo.SetDriveFolderID(ctx, user.ID, folderID); err != nil {
		return "", err
	}
	user.DriveFolderID = folderID

	return folderID, nil
}

// replaceDocCopy refreshes the Docs-format copy of the letter, deleting the
// previous copy so each letter keeps exactly one. Failures are logged, not
// returned: the txt mirror is the record, the copy a convenience.
func (s *SyncService) replaceDocCopy(ctx context.Context, client DriveClient, letter *domain.Letter, folderID string) {
	if letter.DriveDocID != "" {
		if err := client.Delete(ctx, letter.DriveDocID); err != nil && !errors.Is(err, drive.ErrNotFound) {
			log.Printf("ERROR [sync.replaceDocCopy] deleting stale docs copy %s: %v", letter.DriveDocID, err)
		}
	}

	docID, err := client.CopyAsDoc(ctx, letter.DriveFileID, folderID, letter.Title+" (Google Docs version)")
	if err != nil {
		log.Printf("ERROR [sync.replaceDocCopy] copying letter %s to docs format: %v", letter.ID, err)
		return
	}

	if err := s.letterRepo.SetDriveDocID(ctx, letter.ID, docID); err != nil {
		log.Printf("ERROR [sync.replaceDocCopy] persisting docs copy id for letter %s: %v", letter.ID, err)
	}
}

func (s *SyncService) folderLock(userID uuid.UUID) *sync.Mutex {
	mu, _ := s.folderLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
