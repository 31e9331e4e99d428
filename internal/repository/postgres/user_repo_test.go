package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/arko/letter-drive/internal/domain"
	"github.com/arko/letter-drive/internal/repository/postgres"
	"github.com/arko/letter-drive/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_Upsert(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	first := &domain.User{
		ID:           uuid.New(),
		GoogleID:     "g-upsert",
		Email:        "alice@example.com",
		Name:         "Alice",
		AccessToken:  "at-1",
		RefreshToken: "rt-1",
		TokenExpiry:  time.Now().Add(time.Hour),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	// A second authentication for the same Google account must update the
	// existing row, not create another one.
	second := &domain.User{
		ID:           uuid.New(),
		GoogleID:     "g-upsert",
		Email:        "alice@new-domain.com",
		Name:         "Alice A.",
		AccessToken:  "at-2",
		RefreshToken: "rt-2",
		TokenExpiry:  time.Now().Add(2 * time.Hour),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Upsert(ctx, second))

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.User{}).Where("google_id = ?", "g-upsert").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	got, err := repo.GetByGoogleID(ctx, "g-upsert")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID, "the original row id survives re-authentication")
	assert.Equal(t, "alice@new-domain.com", got.Email)
	assert.Equal(t, "at-2", got.AccessToken)
	assert.Equal(t, "rt-2", got.RefreshToken)
}

func TestUserRepository_Upsert_PreservesDriveFolderID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.NewUserBuilder().WithGoogleID("g-folder").Build(t, testDB.DB)
	require.NoError(t, repo.SetDriveFolderID(ctx, user.ID, "folder-abc"))

	relogin := testutil.NewUserBuilder().WithGoogleID("g-folder").User()
	require.NoError(t, repo.Upsert(ctx, relogin))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "folder-abc", got.DriveFolderID, "re-login must not forget the Letters folder")
}

func TestUserRepository_GetByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.NewUserBuilder().Build(t, testDB.DB)

	tests := []struct {
		name    string
		id      uuid.UUID
		wantErr bool
	}{
		{
			name:    "existing user",
			id:      user.ID,
			wantErr: false,
		},
		{
			name:    "unknown id",
			id:      uuid.New(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, user.Email, got.Email)
		})
	}
}

func TestUserRepository_GetByGoogleID_NotFound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)

	_, err := repo.GetByGoogleID(context.Background(), "g-missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UpdateTokens(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.NewUserBuilder().Build(t, testDB.DB)

	expiry := time.Now().Add(45 * time.Minute).Truncate(time.Second)
	require.NoError(t, repo.UpdateTokens(ctx, user.ID, "at-fresh", "rt-fresh", expiry))

	got, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "at-fresh", got.AccessToken)
	assert.Equal(t, "rt-fresh", got.RefreshToken)
	assert.WithinDuration(t, expiry, got.TokenExpiry, time.Second)
}
