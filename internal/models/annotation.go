package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Annotation is a claim pinned to a text range of an article. Its
// CredibilityVotes field is a net counter: credible votes add one,
// not-credible votes subtract one.
type Annotation struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	ArticleID uuid.UUID `json:"article_id" db:"article_id" gorm:"not null;index"`

	HighlightedText string `json:"highlighted_text" db:"highlighted_text" gorm:"type:text;not null"`
	StartIndex      int    `json:"start_index" db:"start_index" gorm:"not null"`
	EndIndex        int    `json:"end_index" db:"end_index" gorm:"not null"`

	Claim       string `json:"claim" db:"claim" gorm:"type:text;not null"`
	EvidenceURL string `json:"evidence_url" db:"evidence_url"` // supporting or refuting evidence

	SubmittedByID    uuid.UUID `json:"submitted_by_id" db:"submitted_by_id" gorm:"not null;index"`
	CredibilityVotes int       `json:"credibility_votes" db:"credibility_votes" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	SubmittedBy User `json:"submitted_by,omitempty" gorm:"foreignKey:SubmittedByID;references:ID"`
}

// TableName sets the table name for the Annotation model
func (Annotation) TableName() string {
	return "annotations"
}

// BeforeCreate assigns the ID when the database default does not apply
func (a *Annotation) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
