package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Source is a publication domain that articles are attributed to
type Source struct {
	ID     uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	Name   string    `json:"name" db:"name" gorm:"uniqueIndex;not null"`
	Domain string    `json:"domain" db:"domain" gorm:"uniqueIndex;not null"`
	Type   string    `json:"type" db:"type" gorm:"default:news-publication"` // academic-journal, news-publication, government, blog, social-media, nonprofit, other

	// Reliability metrics
	ReliabilityScore int    `json:"reliability_score" db:"reliability_score" gorm:"default:50"` // 0-100
	TrustLevel       string `json:"trust_level" db:"trust_level" gorm:"default:medium"`         // very-high, high, medium, low, very-low

	TotalArticles    int `json:"total_articles" db:"total_articles" gorm:"default:0"`
	VerifiedArticles int `json:"verified_articles" db:"verified_articles" gorm:"default:0"`
	DisputedArticles int `json:"disputed_articles" db:"disputed_articles" gorm:"default:0"`

	ExpertEndorsements int            `json:"expert_endorsements" db:"expert_endorsements" gorm:"default:0"`
	TransparencyScore  int            `json:"transparency_score" db:"transparency_score" gorm:"default:5"` // 0-10
	RecentAccuracy     int            `json:"recent_accuracy" db:"recent_accuracy" gorm:"default:0"`       // 0-100, last 30 days
	Specialties        pq.StringArray `json:"specialties" db:"specialties" gorm:"type:text[]"`

	Description   string `json:"description" db:"description"`
	Website       string `json:"website" db:"website"`
	IsBlacklisted bool   `json:"is_blacklisted" db:"is_blacklisted" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the Source model
func (Source) TableName() string {
	return "sources"
}

// BeforeCreate assigns the ID when the database default does not apply
func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// UpdateReliabilityScore recomputes the reliability score from recent
// performance and re-derives the trust level
func (s *Source) UpdateReliabilityScore() {
	accuracyScore := float64(s.RecentAccuracy)
	volumeScore := minFloat(float64(s.TotalArticles)/100, 1) * 100
	endorsementScore := minFloat(float64(s.ExpertEndorsements)/10, 1) * 100
	transparencyScore := float64(s.TransparencyScore * 10)

	s.ReliabilityScore = int(accuracyScore*0.4 + volumeScore*0.2 + endorsementScore*0.2 + transparencyScore*0.2 + 0.5)

	switch {
	case s.ReliabilityScore >= 90:
		s.TrustLevel = "very-high"
	case s.ReliabilityScore >= 75:
		s.TrustLevel = "high"
	case s.ReliabilityScore >= 50:
		s.TrustLevel = "medium"
	case s.ReliabilityScore >= 25:
		s.TrustLevel = "low"
	default:
		s.TrustLevel = "very-low"
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
