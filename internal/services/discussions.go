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

// DiscussionService owns community threads and their replies
type DiscussionService struct {
	db         *gorm.DB
	reputation *ReputationService
}

// NewDiscussionService creates a new discussion service
func NewDiscussionService(db *gorm.DB, reputation *ReputationService) *DiscussionService {
	return &DiscussionService{db: db, reputation: reputation}
}

// DiscussionInput is the payload for creating a discussion thread
type DiscussionInput struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Category  string     `json:"category"`
	Tags      []string   `json:"tags"`
	ArticleID *uuid.UUID `json:"articleId"`
}

// Create starts a new discussion, optionally attached to an article
func (s *DiscussionService) Create(authorID uuid.UUID, input DiscussionInput) (*models.Discussion, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, fmt.Errorf("content is required")
	}

	if input.ArticleID != nil {
		var count int64
		if err := s.db.Model(&models.Article{}).Where("id = ?", *input.ArticleID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
	}

	category := input.Category
	if category == "" {
		category = "general"
	}

	discussion := models.Discussion{
		Title:          strings.TrimSpace(input.Title),
		Content:        input.Content,
		AuthorID:       authorID,
		ArticleID:      input.ArticleID,
		Category:       category,
		Tags:           pq.StringArray(input.Tags),
		LastActivityAt: time.Now(),
	}
	if err := s.db.Create(&discussion).Error; err != nil {
		return nil, err
	}

	if input.ArticleID != nil {
		s.db.Model(&models.Article{}).Where("id = ?", *input.ArticleID).
			UpdateColumn("discussion_count", gorm.Expr("discussion_count + 1"))
	}
	s.reputation.TouchLastActive(authorID)

	return &discussion, nil
}

// DiscussionFilters narrows discussion listings
type DiscussionFilters struct {
	Category  string
	ArticleID *uuid.UUID
	Search    string
	SortBy    string // last_activity_at, created_at, total_votes, reply_count
	Limit     int
	Offset    int
}

// List returns discussions matching the filters, pinned threads first
func (s *DiscussionService) List(filters DiscussionFilters) ([]models.Discussion, int64, error) {
	query := s.db.Model(&models.Discussion{}).Where("is_deleted = ?", false)

	if filters.Category != "" && filters.Category != "all" {
		query = query.Where("category = ?", filters.Category)
	}
	if filters.ArticleID != nil {
		query = query.Where("article_id = ?", *filters.ArticleID)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		query = query.Where("LOWER(title) LIKE ?", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := filters.SortBy
	switch sortBy {
	case "created_at", "total_votes", "reply_count", "last_activity_at":
	default:
		sortBy = "last_activity_at"
	}
	limit := filters.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var discussions []models.Discussion
	if err := query.Preload("Author").
		Order(fmt.Sprintf("is_pinned DESC, %s DESC", sortBy)).
		Limit(limit).Offset(filters.Offset).
		Find(&discussions).Error; err != nil {
		return nil, 0, err
	}
	return discussions, total, nil
}

// Get returns one discussion with its replies and bumps the view count
func (s *DiscussionService) Get(discussionID uuid.UUID) (*models.Discussion, error) {
	var discussion models.Discussion
	if err := s.db.Preload("Author").
		Preload("Replies", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_deleted = ?", false).Order("created_at ASC")
		}).
		Preload("Replies.User").
		First(&discussion, "id = ? AND is_deleted = ?", discussionID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.db.Model(&models.Discussion{}).Where("id = ?", discussionID).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	discussion.ViewCount++

	return &discussion, nil
}

// AddReply posts a reply to an open discussion
func (s *DiscussionService) AddReply(userID, discussionID uuid.UUID, content string, parentReplyID *uuid.UUID) (*models.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is required")
	}

	var discussion models.Discussion
	if err := s.db.First(&discussion, "id = ? AND is_deleted = ?", discussionID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if discussion.IsLocked {
		return nil, ErrDiscussionLocked
	}

	if parentReplyID != nil {
		var count int64
		if err := s.db.Model(&models.Reply{}).
			Where("id = ? AND discussion_id = ?", *parentReplyID, discussionID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrNotFound
		}
	}

	reply := models.Reply{
		DiscussionID:  discussionID,
		UserID:        userID,
		Content:       content,
		ParentReplyID: parentReplyID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&reply).Error; err != nil {
			return err
		}
		return tx.Model(&models.Discussion{}).Where("id = ?", discussionID).
			Updates(map[string]interface{}{
				"reply_count":      gorm.Expr("reply_count + 1"),
				"last_activity_at": time.Now(),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.reputation.TouchLastActive(userID)
	return &reply, nil
}

// EditReply lets the author revise their reply content
func (s *DiscussionService) EditReply(userID, replyID uuid.UUID, content string) (*models.Reply, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("content is required")
	}

	var reply models.Reply
	if err := s.db.First(&reply, "id = ? AND is_deleted = ?", replyID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if reply.UserID != userID {
		return nil, ErrNotOwner
	}

	now := time.Now()
	reply.Content = content
	reply.EditedAt = &now
	if err := s.db.Save(&reply).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

// DeleteReply soft-deletes a reply. The author, a moderator, or an
// admin may delete; the discussion reply count shrinks accordingly.
func (s *DiscussionService) DeleteReply(userID uuid.UUID, role string, replyID uuid.UUID) error {
	var reply models.Reply
	if err := s.db.First(&reply, "id = ? AND is_deleted = ?", replyID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if reply.UserID != userID && role != models.RoleAdmin && role != models.RoleModerator {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Reply{}).Where("id = ?", replyID).
			UpdateColumn("is_deleted", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Discussion{}).Where("id = ?", reply.DiscussionID).
			UpdateColumn("reply_count", gorm.Expr("reply_count - 1")).Error
	})
}

// Delete soft-deletes a discussion thread
func (s *DiscussionService) Delete(userID uuid.UUID, role string, discussionID uuid.UUID) error {
	var discussion models.Discussion
	if err := s.db.First(&discussion, "id = ? AND is_deleted = ?", discussionID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if discussion.AuthorID != userID && role != models.RoleAdmin && role != models.RoleModerator {
		return ErrNotOwner
	}

	return s.db.Model(&models.Discussion{}).Where("id = ?", discussionID).
		UpdateColumn("is_deleted", true).Error
}

// SetLocked locks or unlocks a thread. Moderator or admin only.
func (s *DiscussionService) SetLocked(role string, discussionID uuid.UUID, locked bool) error {
	if role != models.RoleAdmin && role != models.RoleModerator {
		return ErrNotOwner
	}
	result := s.db.Model(&models.Discussion{}).Where("id = ? AND is_deleted = ?", discussionID, false).
		UpdateColumn("is_locked", locked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
