package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User levels derived from reputation.
const (
	LevelNovice   = "Novice"
	LevelAdvanced = "Advanced"
	LevelExpert   = "Expert"
	LevelMaster   = "Master"
)

// User represents a community member with their mutable scoring state
type User struct {
	ID       uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	Name     string    `json:"name" db:"name" gorm:"not null"`
	Username string    `json:"username" db:"username" gorm:"uniqueIndex;not null"`
	Email    string    `json:"email" db:"email" gorm:"uniqueIndex;not null"`
	Password string    `json:"-" db:"password" gorm:"not null"`
	Role     string    `json:"role" db:"role" gorm:"default:user"` // user, moderator, admin

	// Scoring state
	Reputation        int `json:"reputation" db:"reputation" gorm:"default:0"`
	TotalPoints       int `json:"total_points" db:"total_points" gorm:"default:0"` // monotonically non-decreasing
	ArticlesSubmitted int `json:"articles_submitted" db:"articles_submitted" gorm:"default:0"`
	ArticlesVerified  int `json:"articles_verified" db:"articles_verified" gorm:"default:0"` // fact-checks authored
	TotalVotes        int `json:"total_votes" db:"total_votes" gorm:"default:0"`

	AccuracyRate       float64 `json:"accuracy_rate" db:"accuracy_rate" gorm:"default:0"` // percentage
	CorrectPredictions int     `json:"correct_predictions" db:"correct_predictions" gorm:"default:0"`

	// Badges grow only; Level is always derived from Reputation (see BeforeSave)
	Badges      pq.StringArray `json:"badges" db:"badges" gorm:"type:text[]"`
	Level       string         `json:"level" db:"level" gorm:"default:Novice"`
	Specialties pq.StringArray `json:"specialties" db:"specialties" gorm:"type:text[]"`

	Bio      string `json:"bio" db:"bio"`
	Website  string `json:"website" db:"website"`
	Location string `json:"location" db:"location"`

	IsActive     bool      `json:"is_active" db:"is_active" gorm:"default:true"`
	LastActiveAt time.Time `json:"last_active_at" db:"last_active_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the User model
func (User) TableName() string {
	return "users"
}

// LevelFor derives the discrete level for a reputation value
func LevelFor(reputation int) string {
	switch {
	case reputation >= 1000:
		return LevelMaster
	case reputation >= 500:
		return LevelExpert
	case reputation >= 100:
		return LevelAdvanced
	default:
		return LevelNovice
	}
}

// BeforeCreate assigns the ID when the database default does not apply
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// BeforeSave re-derives the level from the current reputation. No other
// code path assigns Level, so a reputation drop demotes the user
// automatically on the next save.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Level = LevelFor(u.Reputation)
	return nil
}

// HasBadge reports whether the user already holds the named badge
func (u *User) HasBadge(name string) bool {
	for _, b := range u.Badges {
		if b == name {
			return true
		}
	}
	return false
}

// SetPassword hashes and stores the given plaintext password
func (u *User) SetPassword(plain string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash
func (u *User) CheckPassword(plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}
