package services

import (
	"testing"

	"truthhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyUpdatesCountersAndLedger(t *testing.T) {
	db := setupTestDB(t)
	service := NewReputationService(db)
	user := createTestUser(t, db, "author", 100)

	err := service.Apply(Adjustment{
		UserID:            user.ID,
		Reputation:        50,
		Points:            50,
		ArticlesSubmitted: 1,
		Reason:            models.ReasonArticleSubmitted,
	})
	require.NoError(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 150, reloaded.Reputation)
	assert.Equal(t, 50, reloaded.TotalPoints)
	assert.Equal(t, 1, reloaded.ArticlesSubmitted)
	assert.Equal(t, models.LevelAdvanced, reloaded.Level)

	var events []models.ReputationEvent
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, 50, events[0].ReputationDelta)
	assert.Equal(t, models.ReasonArticleSubmitted, events[0].Reason)
}

func TestApplyNegativeReputationNeverTouchesPoints(t *testing.T) {
	db := setupTestDB(t)
	service := NewReputationService(db)
	user := createTestUser(t, db, "reviewer", 600)

	err := service.Apply(Adjustment{
		UserID:     user.ID,
		Reputation: -3,
		Reason:     models.ReasonFactCheckVoted,
	})
	require.NoError(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 597, reloaded.Reputation)
	assert.Equal(t, 0, reloaded.TotalPoints)
}

func TestApplyRejectsNegativePoints(t *testing.T) {
	db := setupTestDB(t)
	service := NewReputationService(db)
	user := createTestUser(t, db, "author", 100)

	err := service.Apply(Adjustment{UserID: user.ID, Points: -5})
	assert.Error(t, err)

	// Nothing was written
	var count int64
	db.Model(&models.ReputationEvent{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestApplyDemotesLevelOnDrop(t *testing.T) {
	db := setupTestDB(t)
	service := NewReputationService(db)

	// 501 Expert drops below 500
	user := createTestUser(t, db, "reviewer", 501)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("level", models.LevelExpert).Error)

	err := service.Apply(Adjustment{
		UserID:     user.ID,
		Reputation: -2,
		Reason:     models.ReasonFactCheckVoted,
	})
	require.NoError(t, err)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 499, reloaded.Reputation)
	assert.Equal(t, models.LevelAdvanced, reloaded.Level)
}
