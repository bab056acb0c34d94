package services

import (
	"fmt"
	"time"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReputationService applies scoring events to user counters. Every
// mutation writes an append-only reputation_events row in the same
// transaction as the counter update, then re-derives the stored level.
type ReputationService struct {
	db *gorm.DB
}

// NewReputationService creates a new reputation service
func NewReputationService(db *gorm.DB) *ReputationService {
	return &ReputationService{db: db}
}

// Adjustment describes one scoring event applied to a user. Reputation
// may be negative; Points feeds totalPoints and must not be.
type Adjustment struct {
	UserID            uuid.UUID
	Reputation        int
	Points            int
	Votes             int
	ArticlesSubmitted int
	ArticlesVerified  int
	Reason            string
	TargetID          *uuid.UUID
	TargetType        string
}

// Apply records the adjustment in its own transaction
func (s *ReputationService) Apply(adj Adjustment) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return s.ApplyTx(tx, adj)
	})
}

// ApplyTx records the adjustment inside an existing transaction
func (s *ReputationService) ApplyTx(tx *gorm.DB, adj Adjustment) error {
	if adj.Points < 0 {
		return fmt.Errorf("total points delta cannot be negative (got %d)", adj.Points)
	}

	event := models.ReputationEvent{
		UserID:          adj.UserID,
		ReputationDelta: adj.Reputation,
		PointsDelta:     adj.Points,
		Reason:          adj.Reason,
		TargetID:        adj.TargetID,
		TargetType:      adj.TargetType,
	}
	if err := tx.Create(&event).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"last_active_at": time.Now(),
	}
	if adj.Reputation != 0 {
		updates["reputation"] = gorm.Expr("reputation + ?", adj.Reputation)
	}
	if adj.Points != 0 {
		updates["total_points"] = gorm.Expr("total_points + ?", adj.Points)
	}
	if adj.Votes != 0 {
		updates["total_votes"] = gorm.Expr("total_votes + ?", adj.Votes)
	}
	if adj.ArticlesSubmitted != 0 {
		updates["articles_submitted"] = gorm.Expr("articles_submitted + ?", adj.ArticlesSubmitted)
	}
	if adj.ArticlesVerified != 0 {
		updates["articles_verified"] = gorm.Expr("articles_verified + ?", adj.ArticlesVerified)
	}

	if err := tx.Model(&models.User{}).Where("id = ?", adj.UserID).Updates(updates).Error; err != nil {
		return err
	}

	return syncLevel(tx, adj.UserID)
}

// TouchLastActive stamps the user's activity time without a scoring event
func (s *ReputationService) TouchLastActive(userID uuid.UUID) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("last_active_at", time.Now()).Error
}

// syncLevel re-derives the stored level after a raw counter update.
// Column updates skip the model's BeforeSave hook, so the derivation
// has to be repeated here.
func syncLevel(tx *gorm.DB, userID uuid.UUID) error {
	var user models.User
	if err := tx.Select("id", "reputation", "level").First(&user, "id = ?", userID).Error; err != nil {
		return err
	}

	level := models.LevelFor(user.Reputation)
	if level == user.Level {
		return nil
	}
	return tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("level", level).Error
}
