package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ErrCredentials is returned when login credentials do not match
var ErrCredentials = errors.New("invalid email or password")

// UserService owns registration, authentication, and profiles
type UserService struct {
	db            *gorm.DB
	notifications *NotificationService
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB, notifications *NotificationService) *UserService {
	return &UserService{db: db, notifications: notifications}
}

// Registration is the payload for creating an account
type Registration struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate rejects registrations before any state mutation
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if len(r.Username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	if !strings.Contains(r.Email, "@") {
		return fmt.Errorf("invalid email address")
	}
	if len(r.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}

// Register creates a new account. Every account starts with 100
// reputation, the Newcomer badge, and a welcome notification.
func (s *UserService) Register(reg Registration) (*models.User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(reg.Email))
	username := strings.TrimSpace(reg.Username)

	var count int64
	if err := s.db.Model(&models.User{}).
		Where("email = ? OR username = ?", email, username).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("email or username already in use")
	}

	user := models.User{
		Name:         strings.TrimSpace(reg.Name),
		Username:     username,
		Email:        email,
		Reputation:   100,
		Badges:       pq.StringArray{"Newcomer"},
		IsActive:     true,
		LastActiveAt: time.Now(),
	}
	if err := user.SetPassword(reg.Password); err != nil {
		return nil, err
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	uid := user.ID
	s.notifications.CreateBestEffort(&models.Notification{
		UserID:     uid,
		Type:       models.NotificationSystemUpdate,
		Title:      "Welcome to TruthHub",
		Message:    "Submit articles, fact-check claims, and vote on evidence to build your reputation.",
		Actionable: true,
		ActionURL:  "/dashboard",
		ActionText: "Get Started",
		Icon:       "Sparkles",
		Color:      "blue",
	})

	return &user, nil
}

// Authenticate verifies credentials and stamps last activity
func (s *UserService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	err := s.db.Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, ErrCredentials
	}

	s.db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("last_active_at", time.Now())

	return &user, nil
}

// Get returns one user by ID
func (s *UserService) Get(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns one user by username
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ProfileUpdate carries the editable profile fields. Nil means leave
// the field alone.
type ProfileUpdate struct {
	Name        *string  `json:"name"`
	Bio         *string  `json:"bio"`
	Website     *string  `json:"website"`
	Location    *string  `json:"location"`
	Specialties []string `json:"specialties"`
}

// UpdateProfile applies the non-nil fields to the user's profile
func (s *UserService) UpdateProfile(userID uuid.UUID, update ProfileUpdate) (*models.User, error) {
	updates := map[string]interface{}{}
	if update.Name != nil && strings.TrimSpace(*update.Name) != "" {
		updates["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Bio != nil {
		updates["bio"] = *update.Bio
	}
	if update.Website != nil {
		updates["website"] = *update.Website
	}
	if update.Location != nil {
		updates["location"] = *update.Location
	}
	if update.Specialties != nil {
		updates["specialties"] = pq.StringArray(update.Specialties)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.User{}).Where("id = ?", userID).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(userID)
}

// LeaderboardEntry is one ranked row of the community leaderboard
type LeaderboardEntry struct {
	Rank              int            `json:"rank"`
	ID                uuid.UUID      `json:"id"`
	Username          string         `json:"username"`
	Name              string         `json:"name"`
	Reputation        int            `json:"reputation"`
	TotalPoints       int            `json:"totalPoints"`
	Level             string         `json:"level"`
	Badges            pq.StringArray `json:"badges"`
	ArticlesSubmitted int            `json:"articlesSubmitted"`
	ArticlesVerified  int            `json:"articlesVerified"`
}

// Leaderboard ranks active users by reputation
func (s *UserService) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	var users []models.User
	if err := s.db.Where("is_active = ?", true).
		Order("reputation DESC, total_points DESC, created_at ASC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:              i + 1,
			ID:                u.ID,
			Username:          u.Username,
			Name:              u.Name,
			Reputation:        u.Reputation,
			TotalPoints:       u.TotalPoints,
			Level:             u.Level,
			Badges:            u.Badges,
			ArticlesSubmitted: u.ArticlesSubmitted,
			ArticlesVerified:  u.ArticlesVerified,
		}
	}
	return entries, nil
}

// ReputationHistory returns the user's recent reputation events
func (s *UserService) ReputationHistory(userID uuid.UUID, limit int) ([]models.ReputationEvent, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var events []models.ReputationEvent
	err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
