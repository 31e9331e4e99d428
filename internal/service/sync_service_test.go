package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/arko/letter-drive/internal/service"
	"github.com/arko/letter-drive/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	svc     *service.SyncService
	users   *testutil.FakeUserRepo
	letters *testutil.FakeLetterRepo
	drive   *testutil.FakeDrive
	user    *domain.User
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()

	users := testutil.NewFakeUserRepo()
	letters := testutil.NewFakeLetterRepo()
	fakeDrive := testutil.NewFakeDrive()

	user := testutil.NewUserBuilder().WithGoogleID("g-1").User()
	users.Add(user)

	svc := service.NewSyncService(letters, users, func(u *domain.User) service.DriveClient {
		return fakeDrive
	})

	return &syncFixture{svc: svc, users: users, letters: letters, drive: fakeDrive, user: user}
}

func (f *syncFixture) addLetter(t *testing.T, title, content string) *domain.Letter {
	t.Helper()
	letter := testutil.NewLetterBuilder(f.user.ID).WithTitle(title).WithContent(content).Letter()
	require.NoError(t, f.letters.Create(context.Background(), letter))
	return letter
}

func TestSyncService_FirstSyncCreatesRemoteFile(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	fileID, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)
	require.NotEmpty(t, fileID)

	// The mapping is persisted on the letter.
	stored, err := f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, fileID, stored.DriveFileID)

	// The remote file carries the letter's title and content.
	file, ok := f.drive.Files[fileID]
	require.True(t, ok)
	assert.Equal(t, "Note.txt", file.Name)
	assert.Equal(t, "hi", file.Content)

	// The Letters folder is created and remembered on the user.
	assert.Equal(t, 1, f.drive.CreateFolderCalls)
	freshUser, err := f.users.GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, f.drive.Folders[service.LettersFolderName], freshUser.DriveFolderID)
}

func TestSyncService_SecondSyncReusesFileID(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	firstID, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)

	// Change the content and sync again.
	stored, err := f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	require.NoError(t, err)
	stored.Content = "hello again"
	require.NoError(t, f.letters.Update(ctx, stored))

	secondID, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)

	assert.Equal(t, firstID, secondID, "sync must reuse the remote file id")
	assert.Equal(t, 1, f.drive.CreateFileCalls, "only the first sync creates a file")
	assert.Equal(t, 1, f.drive.UpdateFileCalls, "the second sync updates in place")
	assert.Equal(t, 1, f.drive.CreateFolderCalls, "exactly one Letters folder")
	assert.Equal(t, "hello again", f.drive.Files[firstID].Content)
}

func TestSyncService_ReusesExistingRemoteFolder(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	// A Letters folder already exists in the user's Drive.
	f.drive.Folders[service.LettersFolderName] = "folder-existing"

	_, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, f.drive.CreateFolderCalls)
	freshUser, err := f.users.GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "folder-existing", freshUser.DriveFolderID)
}

func TestSyncService_DocCopyReplacedOnResync(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	_, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)

	stored, err := f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	require.NoError(t, err)
	firstDocID := stored.DriveDocID
	require.NotEmpty(t, firstDocID)

	_, err = f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)

	stored, err = f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, firstDocID, stored.DriveDocID)
	assert.Contains(t, f.drive.Deleted, firstDocID, "stale docs copy is removed")

	docs := 0
	for _, file := range f.drive.Files {
		if file.IsDoc {
			docs++
		}
	}
	assert.Equal(t, 1, docs, "exactly one converted copy per letter")
}

func TestSyncService_CreateFailureLeavesLetterUnsynced(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	f.drive.CreateFileErr = errors.New("quota exceeded")

	_, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.Error(t, err)

	stored, getErr := f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	require.NoError(t, getErr)
	assert.Empty(t, stored.DriveFileID, "failed first sync must not record a mapping")
}

func TestSyncService_UpdateFailureKeepsRemoteFile(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	fileID, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)

	f.drive.UpdateFileErr = errors.New("backend unavailable")

	_, err = f.svc.Sync(ctx, f.user, letter.ID)
	require.Error(t, err)

	assert.Equal(t, "hi", f.drive.Files[fileID].Content, "failed update leaves the remote untouched")
	stored, getErr := f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	require.NoError(t, getErr)
	assert.Equal(t, fileID, stored.DriveFileID)
}

func TestSyncService_CopyFailureDoesNotFailSync(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	f.drive.CopyErr = errors.New("conversion unavailable")

	fileID, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err, "the docs copy is fire-and-forget")
	assert.NotEmpty(t, fileID)
}

func TestSyncService_CrossUserSyncNotFound(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	other := testutil.NewUserBuilder().WithGoogleID("g-2").User()
	f.users.Add(other)

	_, err := f.svc.Sync(ctx, other, letter.ID)
	assert.ErrorIs(t, err, domain.ErrLetterNotFound)

	err = f.svc.Delete(ctx, other, letter.ID)
	assert.ErrorIs(t, err, domain.ErrLetterNotFound)
}

func TestSyncService_DeleteRemovesRemoteAndLocal(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	fileID, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)

	stored, err := f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	require.NoError(t, err)
	docID := stored.DriveDocID

	require.NoError(t, f.svc.Delete(ctx, f.user, letter.ID))

	assert.Contains(t, f.drive.Deleted, fileID)
	assert.Contains(t, f.drive.Deleted, docID)

	_, err = f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	assert.Error(t, err)
}

func TestSyncService_DeleteIsBestEffortOnRemoteFailure(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	_, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)

	f.drive.DeleteErr = errors.New("remote unavailable")

	require.NoError(t, f.svc.Delete(ctx, f.user, letter.ID), "local delete proceeds regardless")

	listing, err := f.letters.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, listing)
}

func TestSyncService_DeleteUnsyncedLetterSkipsRemote(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()
	letter := f.addLetter(t, "Note", "hi")

	require.NoError(t, f.svc.Delete(ctx, f.user, letter.ID))
	assert.Empty(t, f.drive.Deleted)
}

func TestSyncService_UnknownLetter(t *testing.T) {
	f := newSyncFixture(t)

	_, err := f.svc.Sync(context.Background(), f.user, uuid.New())
	assert.ErrorIs(t, err, domain.ErrLetterNotFound)
}

// End-to-end walk of the documented scenario: create, sync, resync, delete.
func TestSyncService_Scenario(t *testing.T) {
	f := newSyncFixture(t)
	ctx := context.Background()

	letter := f.addLetter(t, "Note", "hi")

	fileID, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)
	require.NotEmpty(t, fileID)

	stored, err := f.letters.GetByIDForUser(ctx, letter.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, fileID, stored.DriveFileID)

	sameID, err := f.svc.Sync(ctx, f.user, letter.ID)
	require.NoError(t, err)
	assert.Equal(t, fileID, sameID)

	require.NoError(t, f.svc.Delete(ctx, f.user, letter.ID))

	listing, err := f.letters.ListByUser(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, listing)
}
