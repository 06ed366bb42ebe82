package services

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/warbler-app/api-go/models"
)

// newTestDB opens a fresh in-memory sqlite database. MaxOpenConns is
// pinned to 1 so every query sees the same memory database, and
// TranslateError is on so unique violations match production
// behavior.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_fk=1"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
		&models.RefreshToken{},
	); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}

func signupUser(t *testing.T, users *UserService, username string) *models.User {
	t.Helper()

	user, err := users.Signup(username, username+"@example.com", "password123", "")
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	return user
}
