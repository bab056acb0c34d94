package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote target types.
const (
	TargetArticle    = "article"
	TargetAnnotation = "annotation"
	TargetFactCheck  = "factcheck"
	TargetDiscussion = "discussion"
)

// Vote types. Articles, fact-checks and discussions use upvote/downvote;
// annotations use credible/not-credible.
const (
	VoteUpvote      = "upvote"
	VoteDownvote    = "downvote"
	VoteCredible    = "credible"
	VoteNotCredible = "not-credible"
)

// Vote is one user's current stance on one target. The unique index
// guarantees at most one live vote per (user, target, targetType);
// casting the same type again deletes the row, a different type updates
// it in place.
type Vote struct {
	ID         uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	UserID     uuid.UUID `json:"user_id" db:"user_id" gorm:"not null;uniqueIndex:idx_votes_user_target"`
	TargetID   uuid.UUID `json:"target_id" db:"target_id" gorm:"not null;uniqueIndex:idx_votes_user_target"`
	TargetType string    `json:"target_type" db:"target_type" gorm:"not null;uniqueIndex:idx_votes_user_target"`
	Type       string    `json:"type" db:"type" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the Vote model
func (Vote) TableName() string {
	return "votes"
}

// BeforeCreate assigns the ID when the database default does not apply
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
