package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestLevelForThresholds(t *testing.T) {
	tests := []struct {
		reputation int
		expected   string
	}{
		{0, LevelNovice},
		{99, LevelNovice},
		{100, LevelAdvanced},
		{499, LevelAdvanced},
		{500, LevelExpert},
		{999, LevelExpert},
		{1000, LevelMaster},
		{5000, LevelMaster},
		{-10, LevelNovice},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.reputation); got != tt.expected {
			t.Errorf("LevelFor(%d) = %q, want %q", tt.reputation, got, tt.expected)
		}
	}
}

func TestBeforeSaveDerivesLevel(t *testing.T) {
	db := setupTestDB(t)

	user := &User{
		ID:         uuid.New(),
		Name:       "Ada",
		Username:   "ada",
		Email:      "ada@example.com",
		Password:   "x",
		Reputation: 600,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	if user.Level != LevelExpert {
		t.Errorf("Expected level %q after create, got %q", LevelExpert, user.Level)
	}

	// A reputation drop demotes on the next save
	user.Reputation = 80
	if err := db.Save(user).Error; err != nil {
		t.Fatalf("Failed to save user: %v", err)
	}

	var reloaded User
	if err := db.First(&reloaded, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if reloaded.Level != LevelNovice {
		t.Errorf("Expected level %q after demotion, got %q", LevelNovice, reloaded.Level)
	}
}

func TestHasBadge(t *testing.T) {
	user := &User{Badges: pq.StringArray{"Newcomer", "First Article"}}

	if !user.HasBadge("Newcomer") {
		t.Error("Expected HasBadge(Newcomer) = true")
	}
	if user.HasBadge("Truth Guardian") {
		t.Error("Expected HasBadge(Truth Guardian) = false")
	}
}

func TestPasswordHashing(t *testing.T) {
	user := &User{}
	if err := user.SetPassword("hunter22 hunter22"); err != nil {
		t.Fatalf("SetPassword failed: %v", err)
	}
	if user.Password == "hunter22 hunter22" {
		t.Error("Password stored in plaintext")
	}
	if !user.CheckPassword("hunter22 hunter22") {
		t.Error("CheckPassword rejected the correct password")
	}
	if user.CheckPassword("wrong") {
		t.Error("CheckPassword accepted a wrong password")
	}
}
