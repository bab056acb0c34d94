package services

import (
	"errors"
	"fmt"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// FactCheckService owns the fact-check submission and editing flows
type FactCheckService struct {
	db            *gorm.DB
	reputation    *ReputationService
	credibility   *CredibilityService
	achievements  *AchievementService
	notifications *NotificationService
}

// NewFactCheckService creates a new fact-check service
func NewFactCheckService(db *gorm.DB, reputation *ReputationService, credibility *CredibilityService,
	achievements *AchievementService, notifications *NotificationService) *FactCheckService {
	return &FactCheckService{
		db:            db,
		reputation:    reputation,
		credibility:   credibility,
		achievements:  achievements,
		notifications: notifications,
	}
}

// FactCheckSubmission carries the reviewer's verdict and evidence
type FactCheckSubmission struct {
	Verdict    string   `json:"verdict"`
	Confidence int      `json:"confidence"`
	Evidence   string   `json:"evidence"`
	Sources    []string `json:"sources"`
	Expertise  []string `json:"expertise"`
}

// SubmitResult is the submission outcome returned to the handler
type SubmitResult struct {
	FactCheck       models.FactCheck `json:"factCheck"`
	PointsEarned    int              `json:"pointsEarned"`
	NewAchievements []Achievement    `json:"newAchievements"`
	LevelUp         *LevelChange     `json:"levelUp"`
}

// Validate rejects submissions before any state mutation
func (sub FactCheckSubmission) Validate() error {
	if !models.IsValidVerdict(sub.Verdict) {
		return fmt.Errorf("invalid verdict %q", sub.Verdict)
	}
	if sub.Confidence < 1 || sub.Confidence > 10 {
		return fmt.Errorf("confidence must be between 1 and 10")
	}
	if sub.Evidence == "" {
		return fmt.Errorf("evidence is required")
	}
	return nil
}

// trueLeaning reports whether a verdict counts toward an article's
// verifications (as opposed to disputes)
func trueLeaning(verdict string) bool {
	return verdict == models.VerdictTrue || verdict == models.VerdictMostlyTrue
}

// Submit creates one reviewer's fact-check for an article. A reviewer
// can fact-check a given article only once. The reviewer's reputation
// is snapshotted onto the fact-check at this instant and never updated
// afterwards.
func (s *FactCheckService) Submit(reviewerID, articleID uuid.UUID, sub FactCheckSubmission) (*SubmitResult, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	var article models.Article
	if err := s.db.First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var existing int64
	if err := s.db.Model(&models.FactCheck{}).
		Where("article_id = ? AND reviewer_id = ?", articleID, reviewerID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyFactChecked
	}

	var reviewer models.User
	if err := s.db.First(&reviewer, "id = ?", reviewerID).Error; err != nil {
		return nil, err
	}

	expertise := sub.Expertise
	if len(expertise) == 0 {
		expertise = reviewer.Specialties
	}

	factCheck := models.FactCheck{
		ArticleID:                articleID,
		ReviewerID:               reviewerID,
		ReviewerUsername:         reviewer.Username,
		Verdict:                  sub.Verdict,
		Confidence:               sub.Confidence,
		Evidence:                 sub.Evidence,
		Sources:                  pq.StringArray(sub.Sources),
		Expertise:                pq.StringArray(expertise),
		ReviewerReputationAtTime: reviewer.Reputation,
	}
	if err := s.db.Create(&factCheck).Error; err != nil {
		return nil, err
	}

	counterField := "disputes"
	if trueLeaning(sub.Verdict) {
		counterField = "verifications"
	}
	if err := s.db.Model(&models.Article{}).Where("id = ?", articleID).Updates(map[string]interface{}{
		"fact_check_count": gorm.Expr("fact_check_count + 1"),
		counterField:       gorm.Expr(counterField + " + 1"),
	}).Error; err != nil {
		return nil, err
	}

	pointsEarned := 25
	fcid := factCheck.ID
	if err := s.reputation.Apply(Adjustment{
		UserID:           reviewerID,
		Reputation:       pointsEarned,
		Points:           pointsEarned,
		ArticlesVerified: 1,
		Reason:           models.ReasonFactCheckSubmitted,
		TargetID:         &fcid,
		TargetType:       models.TargetFactCheck,
	}); err != nil {
		return nil, err
	}

	// Everything below is advisory: the fact-check stands even if the
	// recompute, notification, or achievement pass fails
	s.credibility.RecomputeBestEffort(articleID)

	if article.SubmittedByID != reviewerID {
		aid := article.ID
		color := "red"
		if trueLeaning(sub.Verdict) {
			color = "green"
		}
		s.notifications.CreateBestEffort(&models.Notification{
			UserID:             article.SubmittedByID,
			Type:               models.NotificationFactCheckReceived,
			Title:              "New Fact-Check on Your Article",
			Message:            fmt.Sprintf("%s has fact-checked your article %q", reviewer.Username, article.Title),
			RelatedArticleID:   &aid,
			RelatedFactCheckID: &fcid,
			RelatedUserID:      &reviewerID,
			Actionable:         true,
			ActionURL:          fmt.Sprintf("/dashboard/article/%s", article.ID),
			ActionText:         "View Fact-Check",
			Icon:               "Shield",
			Color:              color,
		})
	}

	achievementResult := s.achievements.Check(reviewerID)

	return &SubmitResult{
		FactCheck:       factCheck,
		PointsEarned:    pointsEarned,
		NewAchievements: achievementResult.Achievements,
		LevelUp:         achievementResult.LevelUp,
	}, nil
}

// Update lets the original reviewer revise verdict, confidence,
// evidence, and sources, then re-aggregates the article. The reputation
// snapshot is deliberately left alone.
func (s *FactCheckService) Update(reviewerID, factCheckID uuid.UUID, sub FactCheckSubmission) (*models.FactCheck, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	var factCheck models.FactCheck
	if err := s.db.First(&factCheck, "id = ?", factCheckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if factCheck.ReviewerID != reviewerID {
		return nil, ErrNotOwner
	}

	// The verifications/disputes classification may move with the verdict
	if trueLeaning(factCheck.Verdict) != trueLeaning(sub.Verdict) {
		from, to := "disputes", "verifications"
		if trueLeaning(factCheck.Verdict) {
			from, to = "verifications", "disputes"
		}
		if err := s.db.Model(&models.Article{}).Where("id = ?", factCheck.ArticleID).Updates(map[string]interface{}{
			from: gorm.Expr(from + " - 1"),
			to:   gorm.Expr(to + " + 1"),
		}).Error; err != nil {
			return nil, err
		}
	}

	factCheck.Verdict = sub.Verdict
	factCheck.Confidence = sub.Confidence
	factCheck.Evidence = sub.Evidence
	factCheck.Sources = pq.StringArray(sub.Sources)
	if err := s.db.Save(&factCheck).Error; err != nil {
		return nil, err
	}

	s.credibility.RecomputeBestEffort(factCheck.ArticleID)

	return &factCheck, nil
}

// VerdictStats summarizes the fact-checks attached to one article
type VerdictStats struct {
	Total              int            `json:"total"`
	Verdicts           map[string]int `json:"verdicts"`
	AverageConfidence  float64        `json:"averageConfidence"`
	ExpertEndorsements int            `json:"expertEndorsements"`
}

// ListForArticle returns an article's fact-checks plus verdict stats
func (s *FactCheckService) ListForArticle(articleID uuid.UUID, sortBy, order string) ([]models.FactCheck, *VerdictStats, error) {
	switch sortBy {
	case "net_votes", "confidence", "created_at":
	default:
		sortBy = "net_votes"
	}
	if order != "asc" {
		order = "desc"
	}

	var factChecks []models.FactCheck
	if err := s.db.Preload("Reviewer").
		Where("article_id = ?", articleID).
		Order(fmt.Sprintf("%s %s, created_at DESC", sortBy, order)).
		Find(&factChecks).Error; err != nil {
		return nil, nil, err
	}

	stats := &VerdictStats{Total: len(factChecks), Verdicts: make(map[string]int)}
	for _, verdict := range models.Verdicts {
		stats.Verdicts[verdict] = 0
	}
	confidenceSum := 0
	for _, fc := range factChecks {
		stats.Verdicts[fc.Verdict]++
		stats.ExpertEndorsements += fc.ExpertEndorsements
		confidenceSum += fc.Confidence
	}
	if len(factChecks) > 0 {
		stats.AverageConfidence = float64(confidenceSum) / float64(len(factChecks))
	}

	return factChecks, stats, nil
}

// ForReviewer returns a reviewer's fact-checks, newest first
func (s *FactCheckService) ForReviewer(reviewerID uuid.UUID, limit, offset int) ([]models.FactCheck, int64, error) {
	var total int64
	if err := s.db.Model(&models.FactCheck{}).Where("reviewer_id = ?", reviewerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var factChecks []models.FactCheck
	if err := s.db.Preload("Article").
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").Limit(limit).Offset(offset).
		Find(&factChecks).Error; err != nil {
		return nil, 0, err
	}
	return factChecks, total, nil
}

// Trending returns high-engagement fact-checks (net votes >= 5)
func (s *FactCheckService) Trending(limit int) ([]models.FactCheck, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var factChecks []models.FactCheck
	err := s.db.Preload("Reviewer").Preload("Article").
		Where("net_votes >= ?", 5).
		Order("net_votes DESC, created_at DESC").
		Limit(limit).
		Find(&factChecks).Error
	return factChecks, err
}

// Get returns one fact-check with reviewer and article loaded
func (s *FactCheckService) Get(factCheckID uuid.UUID) (*models.FactCheck, error) {
	var factCheck models.FactCheck
	if err := s.db.Preload("Reviewer").Preload("Article").
		First(&factCheck, "id = ?", factCheckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &factCheck, nil
}
