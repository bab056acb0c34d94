package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reasons recorded on reputation events.
const (
	ReasonArticleSubmitted   = "article_submitted"
	ReasonFactCheckSubmitted = "fact_check_submitted"
	ReasonVoteCast           = "vote_cast"
	ReasonFactCheckVoted     = "fact_check_voted"
	ReasonContentVoted       = "content_voted"
	ReasonAchievement        = "achievement"
)

// ReputationEvent is an append-only ledger entry for every scoring
// mutation. The users table carries the materialized totals; the ledger
// exists for audit and replay.
type ReputationEvent struct {
	ID     uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	UserID uuid.UUID `json:"user_id" db:"user_id" gorm:"not null;index"`

	ReputationDelta int    `json:"reputation_delta" db:"reputation_delta" gorm:"not null"`
	PointsDelta     int    `json:"points_delta" db:"points_delta" gorm:"default:0"` // never negative
	Reason          string `json:"reason" db:"reason" gorm:"not null"`

	TargetID   *uuid.UUID `json:"target_id" db:"target_id"`
	TargetType string     `json:"target_type" db:"target_type"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the ReputationEvent model
func (ReputationEvent) TableName() string {
	return "reputation_events"
}

// BeforeCreate assigns the ID when the database default does not apply
func (e *ReputationEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
