package services

import (
	"log"
	"time"

	"truthhub/internal/models"
	"truthhub/internal/realtime"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationService persists per-user notifications and pushes them
// to connected clients. The hub may be nil (tests, one-shot binaries).
type NotificationService struct {
	db  *gorm.DB
	hub *realtime.Hub
}

// NewNotificationService creates a new notification service
func NewNotificationService(db *gorm.DB, hub *realtime.Hub) *NotificationService {
	return &NotificationService{db: db, hub: hub}
}

// Create saves the notification and pushes it to the recipient
func (s *NotificationService) Create(n *models.Notification) error {
	if err := s.db.Create(n).Error; err != nil {
		return err
	}
	s.hub.Publish(n.UserID, n)
	return nil
}

// CreateBestEffort saves the notification, logging instead of failing.
// Notification creation never aborts the primary mutation.
func (s *NotificationService) CreateBestEffort(n *models.Notification) {
	if err := s.Create(n); err != nil {
		log.Printf("Failed to create notification for user %s: %v", n.UserID, err)
	}
}

// Broadcast creates the same notification for every active user except
// the excluded one (typically the actor). Best-effort.
func (s *NotificationService) Broadcast(template models.Notification, exclude uuid.UUID) {
	var userIDs []uuid.UUID
	if err := s.db.Model(&models.User{}).
		Where("is_active = ? AND id <> ?", true, exclude).
		Pluck("id", &userIDs).Error; err != nil {
		log.Printf("Failed to list users for broadcast: %v", err)
		return
	}

	for _, userID := range userIDs {
		n := template
		n.ID = uuid.Nil
		n.UserID = userID
		s.CreateBestEffort(&n)
	}
}

// ListForUser returns the user's notifications, newest first
func (s *NotificationService) ListForUser(userID uuid.UUID, limit, offset int, unreadOnly bool) ([]models.Notification, int64, error) {
	query := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_archived = ?", userID, false)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// UnreadCount returns the number of unread notifications for the user
func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead marks every unread notification of the user as read
func (s *NotificationService) MarkAllRead(userID uuid.UUID) error {
	now := time.Now()
	return s.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now}).Error
}

// DeleteExpired removes notifications past their expiry time
func (s *NotificationService) DeleteExpired() (int64, error) {
	result := s.db.Where("expires_at IS NOT NULL AND expires_at < ?", time.Now()).
		Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
