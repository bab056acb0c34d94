package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification types used by the scoring subsystem.
const (
	NotificationNewArticle       = "new_article"
	NotificationArticleUpvoted   = "article_upvoted"
	NotificationFactCheckReceived = "fact_check_received"
	NotificationBadgeEarned      = "badge_earned"
	NotificationSystemUpdate     = "system_update"
)

// Notification is a per-user message created as a best-effort side
// effect of scoring events. Creation failures never abort the primary
// mutation.
type Notification struct {
	ID     uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	UserID uuid.UUID `json:"user_id" db:"user_id" gorm:"not null;index:idx_notifications_user_read"`

	Type    string `json:"type" db:"type" gorm:"not null"`
	Title   string `json:"title" db:"title" gorm:"not null"`
	Message string `json:"message" db:"message" gorm:"not null"`

	// Related entities
	RelatedArticleID   *uuid.UUID `json:"related_article_id" db:"related_article_id"`
	RelatedFactCheckID *uuid.UUID `json:"related_fact_check_id" db:"related_fact_check_id"`
	RelatedUserID      *uuid.UUID `json:"related_user_id" db:"related_user_id"`

	Actionable bool   `json:"actionable" db:"actionable" gorm:"default:false"`
	ActionURL  string `json:"action_url" db:"action_url"`
	ActionText string `json:"action_text" db:"action_text"`

	IsRead bool       `json:"is_read" db:"is_read" gorm:"default:false;index:idx_notifications_user_read"`
	ReadAt *time.Time `json:"read_at" db:"read_at"`

	Priority string `json:"priority" db:"priority" gorm:"default:medium"`      // low, medium, high, urgent
	Category string `json:"category" db:"category" gorm:"default:verification"` // verification, community, achievement, moderation, system

	Icon  string `json:"icon" db:"icon"`
	Color string `json:"color" db:"color" gorm:"default:blue"`

	ExpiresAt  *time.Time `json:"expires_at" db:"expires_at"`
	IsArchived bool       `json:"is_archived" db:"is_archived" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns the ID when the database default does not apply
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
