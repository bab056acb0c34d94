package services

import (
	"testing"

	"truthhub/internal/models"

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

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, reputation int) *models.User {
	t.Helper()

	// A real account at this reputation would already hold the
	// reputation badges; granting them up front keeps unrelated
	// achievement checks from firing mid-test
	badges := pq.StringArray{}
	if reputation >= 100 {
		badges = append(badges, "Rising Star")
	}
	if reputation >= 500 {
		badges = append(badges, "Trusted Member")
	}
	if reputation >= 1000 {
		badges = append(badges, "Expert Contributor")
	}

	user := &models.User{
		ID:         uuid.New(),
		Name:       username,
		Username:   username,
		Email:      username + "@example.com",
		Password:   "x",
		Reputation: reputation,
		Badges:     badges,
		IsActive:   true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user %s: %v", username, err)
	}
	return user
}

func createTestArticle(t *testing.T, db *gorm.DB, submitter *models.User) *models.Article {
	t.Helper()

	article := &models.Article{
		ID:                  uuid.New(),
		Title:               "Test article by " + submitter.Username,
		Summary:             "A short summary",
		SubmittedByID:       submitter.ID,
		SubmittedByUsername: submitter.Username,
		Status:              models.ArticleStatusPending,
		ConsensusVerdict:    models.VerdictPending,
	}
	if err := db.Create(article).Error; err != nil {
		t.Fatalf("Failed to create test article: %v", err)
	}
	return article
}

func newTestVoteService(db *gorm.DB) *VoteService {
	reputation := NewReputationService(db)
	credibility := NewCredibilityService(db)
	achievements := NewAchievementService(db, reputation)
	notifications := NewNotificationService(db, nil)
	return NewVoteService(db, reputation, credibility, achievements, notifications)
}

func newTestFactCheckService(db *gorm.DB) *FactCheckService {
	reputation := NewReputationService(db)
	credibility := NewCredibilityService(db)
	achievements := NewAchievementService(db, reputation)
	notifications := NewNotificationService(db, nil)
	return NewFactCheckService(db, reputation, credibility, achievements, notifications)
}
