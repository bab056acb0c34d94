package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Article statuses derived from the credibility score.
const (
	ArticleStatusPending     = "pending"
	ArticleStatusVerified    = "verified"
	ArticleStatusDisputed    = "disputed"
	ArticleStatusUnderReview = "under-review"
)

// Article represents a submitted news article under community evaluation
type Article struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	Title       string    `json:"title" db:"title" gorm:"not null"`
	URL         string    `json:"url" db:"url"` // optional, manual submissions have none
	Summary     string    `json:"summary" db:"summary" gorm:"type:text"`
	FullContent string    `json:"full_content" db:"full_content" gorm:"type:text"`

	Category string         `json:"category" db:"category" gorm:"default:other"`
	Tags     pq.StringArray `json:"tags" db:"tags" gorm:"type:text[]"`

	SubmittedByID       uuid.UUID `json:"submitted_by_id" db:"submitted_by_id" gorm:"not null;index"`
	SubmittedByUsername string    `json:"submitted_by_username" db:"submitted_by_username"` // denormalized for faster queries

	// Source information
	SourceName        string `json:"source_name" db:"source_name"`
	SourceDomain      string `json:"source_domain" db:"source_domain"`
	SourceReliability string `json:"source_reliability" db:"source_reliability" gorm:"default:unknown"` // high, medium, low, unknown

	// Credibility state: score, consensus verdict, and status are always
	// recomputed together from the article's full fact-check set
	Status           string `json:"status" db:"status" gorm:"default:pending"`
	CredibilityScore int    `json:"credibility_score" db:"credibility_score" gorm:"default:0"` // 0-100
	ConsensusVerdict string `json:"consensus_verdict" db:"consensus_verdict" gorm:"default:pending"`
	Verifications    int    `json:"verifications" db:"verifications" gorm:"default:0"` // true-leaning fact-checks
	Disputes         int    `json:"disputes" db:"disputes" gorm:"default:0"`           // false-leaning fact-checks
	FactCheckCount   int    `json:"fact_check_count" db:"fact_check_count" gorm:"default:0"`

	// Community vote tallies, mutated by the vote ledger directly
	Upvotes    int `json:"upvotes" db:"upvotes" gorm:"default:0"`
	Downvotes  int `json:"downvotes" db:"downvotes" gorm:"default:0"`
	TotalVotes int `json:"total_votes" db:"total_votes" gorm:"default:0"`

	// Publication info
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	Author      string     `json:"author" db:"author"`

	// Engagement metrics
	ViewCount       int `json:"view_count" db:"view_count" gorm:"default:0"`
	ShareCount      int `json:"share_count" db:"share_count" gorm:"default:0"`
	DiscussionCount int `json:"discussion_count" db:"discussion_count" gorm:"default:0"`

	ImageURL     string `json:"image_url" db:"image_url"`
	ThumbnailURL string `json:"thumbnail_url" db:"thumbnail_url"`

	PointsEarned int `json:"points_earned" db:"points_earned" gorm:"default:50"` // awarded to the submitter

	IsTrending bool `json:"is_trending" db:"is_trending" gorm:"default:false"`
	IsFeatured bool `json:"is_featured" db:"is_featured" gorm:"default:false"`
	IsArchived bool `json:"is_archived" db:"is_archived" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	SubmittedBy User        `json:"submitted_by,omitempty" gorm:"foreignKey:SubmittedByID;references:ID"`
	FactChecks  []FactCheck `json:"fact_checks,omitempty" gorm:"foreignKey:ArticleID"`
}

// TableName sets the table name for the Article model
func (Article) TableName() string {
	return "articles"
}

// BeforeCreate assigns the ID when the database default does not apply
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
