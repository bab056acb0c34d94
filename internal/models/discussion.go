package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Discussion is a community thread, optionally attached to an article.
// Vote tallies follow the same toggle/switch rules as articles, with a
// self-vote prohibition for the author.
type Discussion struct {
	ID      uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	Title   string    `json:"title" db:"title" gorm:"not null"`
	Content string    `json:"content" db:"content" gorm:"type:text;not null"` // markdown

	AuthorID  uuid.UUID  `json:"author_id" db:"author_id" gorm:"not null;index"`
	ArticleID *uuid.UUID `json:"article_id" db:"article_id" gorm:"index"`
	Category  string     `json:"category" db:"category" gorm:"default:general"`
	Tags      pq.StringArray `json:"tags" db:"tags" gorm:"type:text[]"`

	ReplyCount int `json:"reply_count" db:"reply_count" gorm:"default:0"`
	Upvotes    int `json:"upvotes" db:"upvotes" gorm:"default:0"`
	Downvotes  int `json:"downvotes" db:"downvotes" gorm:"default:0"`
	TotalVotes int `json:"total_votes" db:"total_votes" gorm:"default:0"` // upvotes - downvotes

	IsPinned  bool `json:"is_pinned" db:"is_pinned" gorm:"default:false"`
	IsLocked  bool `json:"is_locked" db:"is_locked" gorm:"default:false"`
	IsDeleted bool `json:"is_deleted" db:"is_deleted" gorm:"default:false"`

	ViewCount      int       `json:"view_count" db:"view_count" gorm:"default:0"`
	LastActivityAt time.Time `json:"last_activity_at" db:"last_activity_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Author  User    `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Replies []Reply `json:"replies,omitempty" gorm:"foreignKey:DiscussionID"`
}

// TableName sets the table name for the Discussion model
func (Discussion) TableName() string {
	return "discussions"
}

// BeforeCreate assigns the ID when the database default does not apply
func (d *Discussion) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Reply is one comment within a discussion thread. Replies are votable
// targets of their own (targetType "discussion", keyed by reply ID).
type Reply struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid;default:(gen_random_uuid())"`
	DiscussionID uuid.UUID `json:"discussion_id" db:"discussion_id" gorm:"not null;index"`
	UserID       uuid.UUID `json:"user_id" db:"user_id" gorm:"not null;index"`
	Content      string    `json:"content" db:"content" gorm:"type:text;not null"` // markdown

	Upvotes    int `json:"upvotes" db:"upvotes" gorm:"default:0"`
	Downvotes  int `json:"downvotes" db:"downvotes" gorm:"default:0"`
	TotalVotes int `json:"total_votes" db:"total_votes" gorm:"default:0"` // upvotes - downvotes

	ParentReplyID *uuid.UUID `json:"parent_reply_id" db:"parent_reply_id" gorm:"index"` // nested replies
	IsDeleted     bool       `json:"is_deleted" db:"is_deleted" gorm:"default:false"`
	EditedAt      *time.Time `json:"edited_at" db:"edited_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

// TableName sets the table name for the Reply model
func (Reply) TableName() string {
	return "replies"
}

// BeforeCreate assigns the ID when the database default does not apply
func (r *Reply) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
