package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/arko/letter-drive/internal/config"
	"github.com/arko/letter-drive/internal/domain"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB manages a testcontainers PostgreSQL instance
type TestDB struct {
	Container testcontainers.Container
	DB        *gorm.DB
	DSN       string
}

// NewTestDB creates a new PostgreSQL testcontainer and returns a connection
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	container, err := tcPostgres.Run(ctx,
		"postgres:15-alpine",
		tcPostgres.WithDatabase("test_letter_drive"),
		tcPostgres.WithUsername("test"),
		tcPostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(gormPostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&domain.User{},
		&domain.Letter{},
	)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	return &TestDB{Container: container, DB: db, DSN: dsn}
}

// Truncate wipes all rows between test cases.
func (d *TestDB) Truncate(t *testing.T) {
	t.Helper()
	if err := d.DB.Exec("TRUNCATE TABLE letters, users CASCADE").Error; err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

// TestConfig returns a config suitable for tests.
func TestConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "test",
		ServerURL:          "http://localhost:5000",
		ClientURL:          "http://localhost:3000",
		GoogleClientID:     "test-client-id",
		GoogleClientSecret: "test-client-secret",
		JWTSecret:          "test-jwt-secret",
	}
}
