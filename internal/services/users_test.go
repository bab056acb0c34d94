package services

import (
	"testing"

	"truthhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestUserService(db *gorm.DB) *UserService {
	return NewUserService(db, NewNotificationService(db, nil))
}

func TestRegisterDefaults(t *testing.T) {
	db := setupTestDB(t)
	service := newTestUserService(db)

	user, err := service.Register(Registration{
		Name:     "Ada Calhoun",
		Username: "ada",
		Email:    "Ada@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, 100, user.Reputation)
	assert.Equal(t, models.LevelAdvanced, user.Level)
	assert.True(t, user.HasBadge("Newcomer"))
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct horse", user.Password)
	assert.True(t, user.CheckPassword("correct horse"))

	// Welcome notification waiting
	var count int64
	db.Model(&models.Notification{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestRegisterDuplicateRejected(t *testing.T) {
	db := setupTestDB(t)
	service := newTestUserService(db)

	reg := Registration{Name: "Ada", Username: "ada", Email: "ada@example.com", Password: "long enough"}
	_, err := service.Register(reg)
	require.NoError(t, err)

	_, err = service.Register(reg)
	assert.Error(t, err)

	reg.Email = "other@example.com" // same username still collides
	_, err = service.Register(reg)
	assert.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	service := newTestUserService(db)

	cases := []Registration{
		{Username: "ada", Email: "a@b.c", Password: "long enough"},           // no name
		{Name: "Ada", Username: "ad", Email: "a@b.c", Password: "12345678"}, // short username
		{Name: "Ada", Username: "ada", Email: "nope", Password: "12345678"}, // bad email
		{Name: "Ada", Username: "ada", Email: "a@b.c", Password: "short"},   // short password
	}
	for _, reg := range cases {
		_, err := service.Register(reg)
		assert.Error(t, err)
	}
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	service := newTestUserService(db)

	_, err := service.Register(Registration{
		Name: "Ada", Username: "ada", Email: "ada@example.com", Password: "long enough",
	})
	require.NoError(t, err)

	user, err := service.Authenticate("ada@example.com", "long enough")
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	_, err = service.Authenticate("ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrCredentials)

	_, err = service.Authenticate("nobody@example.com", "long enough")
	assert.ErrorIs(t, err, ErrCredentials)
}

func TestLeaderboardOrdering(t *testing.T) {
	db := setupTestDB(t)
	service := newTestUserService(db)

	createTestUser(t, db, "low", 50)
	createTestUser(t, db, "high", 900)
	createTestUser(t, db, "mid", 400)
	inactive := createTestUser(t, db, "ghost", 2000)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", inactive.ID).
		UpdateColumn("is_active", false).Error)

	entries, err := service.Leaderboard(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "high", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "mid", entries[1].Username)
	assert.Equal(t, "low", entries[2].Username)
}

func TestUpdateProfilePartial(t *testing.T) {
	db := setupTestDB(t)
	service := newTestUserService(db)
	user := createTestUser(t, db, "ada", 100)

	bio := "fact checker"
	updated, err := service.UpdateProfile(user.ID, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "fact checker", updated.Bio)
	assert.Equal(t, user.Name, updated.Name)
}
