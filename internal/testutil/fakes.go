package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FakeUserRepo is an in-memory UserRepository mirroring the postgres
// semantics: upsert keyed by google_id, gorm.ErrRecordNotFound for misses.
type FakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *FakeUserRepo) Upsert(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.GoogleID == user.GoogleID {
			existing.Email = user.Email
			existing.Name = user.Name
			existing.AccessToken = user.AccessToken
			existing.RefreshToken = user.RefreshToken
			existing.TokenExpiry = user.TokenExpiry
			existing.UpdatedAt = user.UpdatedAt
			return nil
		}
	}

	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *FakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *FakeUserRepo) GetByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.GoogleID == googleID {
			cp := *user
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *FakeUserRepo) UpdateTokens(ctx context.Context, id uuid.UUID, access, refresh string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.AccessToken = access
	user.RefreshToken = refresh
	user.TokenExpiry = expiry
	return nil
}

func (r *FakeUserRepo) SetDriveFolderID(ctx context.Context, id uuid.UUID, folderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.DriveFolderID = folderID
	return nil
}

// Add seeds a user directly.
func (r *FakeUserRepo) Add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
}

// FakeLetterRepo is an in-memory LetterRepository.
type FakeLetterRepo struct {
	mu      sync.Mutex
	letters map[uuid.UUID]*domain.Letter
}

func NewFakeLetterRepo() *FakeLetterRepo {
	return &FakeLetterRepo{letters: make(map[uuid.UUID]*domain.Letter)}
}

func (r *FakeLetterRepo) Create(ctx context.Context, letter *domain.Letter) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *letter
	r.letters[letter.ID] = &cp
	return nil
}

func (r *FakeLetterRepo) GetByIDForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Letter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	letter, ok := r.letters[id]
	if !ok || letter.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *letter
	return &cp, nil
}

func (r *FakeLetterRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Letter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var letters []*domain.Letter
	for _, letter := range r.letters {
		if letter.UserID == userID {
			cp := *letter
			letters = append(letters, &cp)
		}
	}
	sort.Slice(letters, func(i, j int) bool {
		return letters[i].UpdatedAt.After(letters[j].UpdatedAt)
	})
	return letters, nil
}

func (r *FakeLetterRepo) Update(ctx context.Context, letter *domain.Letter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.letters[letter.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *letter
	r.letters[letter.ID] = &cp
	return nil
}

func (r *FakeLetterRepo) SetDriveFileID(ctx context.Context, id uuid.UUID, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	letter, ok := r.letters[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	letter.DriveFileID = fileID
	return nil
}

func (r *FakeLetterRepo) SetDriveDocID(ctx context.Context, id uuid.UUID, docID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	letter, ok := r.letters[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	letter.DriveDocID = docID
	return nil
}

func (r *FakeLetterRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.letters, id)
	return nil
}

// FakeDriveFile is a file stored in the FakeDrive.
type FakeDriveFile struct {
	Name     string
	Content  string
	FolderID string
	IsDoc    bool
}

// FakeDrive implements the sync engine's Drive client interface in memory,
// counting calls and optionally failing specific operations.
type FakeDrive struct {
	mu      sync.Mutex
	Folders map[string]string // name -> id
	Files   map[string]FakeDriveFile
	Deleted []string

	CreateFolderCalls int
	CreateFileCalls   int
	UpdateFileCalls   int
	CopyCalls         int

	FindFolderErr   error
	CreateFolderErr error
	CreateFileErr   error
	UpdateFileErr   error
	CopyErr         error
	DeleteErr       error

	seq int
}

func NewFakeDrive() *FakeDrive {
	return &FakeDrive{
		Folders: make(map[string]string),
		Files:   make(map[string]FakeDriveFile),
	}
}

func (d *FakeDrive) nextID(prefix string) string {
	d.seq++
	return fmt.Sprintf("%s-%d", prefix, d.seq)
}

func (d *FakeDrive) FindFolder(ctx context.Context, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.FindFolderErr != nil {
		return "", d.FindFolderErr
	}
	return d.Folders[name], nil
}

func (d *FakeDrive) CreateFolder(ctx context.Context, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CreateFolderCalls++
	if d.CreateFolderErr != nil {
		return "", d.CreateFolderErr
	}
	id := d.nextID("folder")
	d.Folders[name] = id
	return id, nil
}

func (d *FakeDrive) CreateFile(ctx context.Context, folderID, name, content string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CreateFileCalls++
	if d.CreateFileErr != nil {
		return "", d.CreateFileErr
	}
	id := d.nextID("file")
	d.Files[id] = FakeDriveFile{Name: name, Content: content, FolderID: folderID}
	return id, nil
}

func (d *FakeDrive) UpdateFile(ctx context.Context, fileID, name, content string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.UpdateFileCalls++
	if d.UpdateFileErr != nil {
		return d.UpdateFileErr
	}
	file, ok := d.Files[fileID]
	if !ok {
		return fmt.Errorf("fake drive: no file %s", fileID)
	}
	file.Name = name
	file.Content = content
	d.Files[fileID] = file
	return nil
}

func (d *FakeDrive) CopyAsDoc(ctx context.Context, fileID, folderID, name string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.CopyCalls++
	if d.CopyErr != nil {
		return "", d.CopyErr
	}
	src, ok := d.Files[fileID]
	if !ok {
		return "", fmt.Errorf("fake drive: no file %s", fileID)
	}
	id := d.nextID("doc")
	d.Files[id] = FakeDriveFile{Name: name, Content: src.Content, FolderID: folderID, IsDoc: true}
	return id, nil
}

func (d *FakeDrive) Delete(ctx context.Context, fileID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.DeleteErr != nil {
		return d.DeleteErr
	}
	d.Deleted = append(d.Deleted, fileID)
	delete(d.Files, fileID)
	return nil
}
