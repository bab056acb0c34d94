package services

import (
	"errors"
	"fmt"
	"strings"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnnotationService owns claims pinned to article text ranges
type AnnotationService struct {
	db         *gorm.DB
	reputation *ReputationService
}

// NewAnnotationService creates a new annotation service
func NewAnnotationService(db *gorm.DB, reputation *ReputationService) *AnnotationService {
	return &AnnotationService{db: db, reputation: reputation}
}

// AnnotationInput is the payload for creating an annotation
type AnnotationInput struct {
	HighlightedText string `json:"highlightedText"`
	StartIndex      int    `json:"startIndex"`
	EndIndex        int    `json:"endIndex"`
	Claim           string `json:"claim"`
	EvidenceURL     string `json:"evidenceUrl"`
}

// Create pins a claim to a text range of the article
func (s *AnnotationService) Create(userID, articleID uuid.UUID, input AnnotationInput) (*models.Annotation, error) {
	if strings.TrimSpace(input.HighlightedText) == "" {
		return nil, fmt.Errorf("highlighted text is required")
	}
	if strings.TrimSpace(input.Claim) == "" {
		return nil, fmt.Errorf("claim is required")
	}
	if input.StartIndex < 0 || input.EndIndex <= input.StartIndex {
		return nil, fmt.Errorf("invalid text range")
	}

	var count int64
	if err := s.db.Model(&models.Article{}).Where("id = ?", articleID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	annotation := models.Annotation{
		ArticleID:       articleID,
		HighlightedText: input.HighlightedText,
		StartIndex:      input.StartIndex,
		EndIndex:        input.EndIndex,
		Claim:           input.Claim,
		EvidenceURL:     input.EvidenceURL,
		SubmittedByID:   userID,
	}
	if err := s.db.Create(&annotation).Error; err != nil {
		return nil, err
	}

	s.reputation.TouchLastActive(userID)
	return &annotation, nil
}

// ListForArticle returns an article's annotations in text order
func (s *AnnotationService) ListForArticle(articleID uuid.UUID) ([]models.Annotation, error) {
	var annotations []models.Annotation
	err := s.db.Preload("SubmittedBy").
		Where("article_id = ?", articleID).
		Order("start_index ASC, created_at ASC").
		Find(&annotations).Error
	return annotations, err
}

// Get returns one annotation
func (s *AnnotationService) Get(annotationID uuid.UUID) (*models.Annotation, error) {
	var annotation models.Annotation
	if err := s.db.First(&annotation, "id = ?", annotationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &annotation, nil
}

// Delete removes an annotation. Submitter or admin only.
func (s *AnnotationService) Delete(userID uuid.UUID, role string, annotationID uuid.UUID) error {
	var annotation models.Annotation
	if err := s.db.First(&annotation, "id = ?", annotationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if annotation.SubmittedByID != userID && role != models.RoleAdmin {
		return ErrNotOwner
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_id = ? AND target_type = ?", annotationID, models.TargetAnnotation).
			Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&annotation).Error
	})
}
