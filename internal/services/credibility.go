package services

import (
	"log"
	"math"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// verdictScores maps each fact-check verdict to its score contribution
var verdictScores = map[string]int{
	models.VerdictTrue:            100,
	models.VerdictMostlyTrue:      80,
	models.VerdictMixed:           50,
	models.VerdictUnsubstantiated: 30,
	models.VerdictMostlyFalse:     20,
	models.VerdictFalse:           0,
}

// CredibilityService recomputes article credibility from fact-checks
type CredibilityService struct {
	db *gorm.DB
}

// NewCredibilityService creates a new credibility service
func NewCredibilityService(db *gorm.DB) *CredibilityService {
	return &CredibilityService{db: db}
}

// Recompute recalculates one article's credibility score, consensus
// verdict, and status from the complete current set of its fact-checks
// and persists all three together. With zero fact-checks it is a no-op:
// the prior score and status stay untouched.
func (s *CredibilityService) Recompute(articleID uuid.UUID) error {
	var factChecks []models.FactCheck
	if err := s.db.Where("article_id = ?", articleID).Find(&factChecks).Error; err != nil {
		return err
	}

	if len(factChecks) == 0 {
		return nil
	}

	score := CredibilityScore(factChecks)

	return s.db.Model(&models.Article{}).Where("id = ?", articleID).Updates(map[string]interface{}{
		"credibility_score": score,
		"consensus_verdict": ConsensusVerdict(factChecks),
		"status":            StatusForScore(score),
	}).Error
}

// RecomputeBestEffort runs Recompute and only logs failures. The
// triggering action (fact-check submission or vote) must succeed even
// when the recomputation does not.
func (s *CredibilityService) RecomputeBestEffort(articleID uuid.UUID) {
	if err := s.Recompute(articleID); err != nil {
		log.Printf("Failed to recompute credibility for article %s: %v", articleID, err)
	}
}

// factCheckWeight combines reviewer reputation at submission time,
// stated confidence, and community vote standing. The floors keep
// zero-reputation reviewers and heavily downvoted fact-checks damped
// but never fully zeroed.
func factCheckWeight(fc models.FactCheck) float64 {
	reputationWeight := math.Max(float64(fc.ReviewerReputationAtTime)/100, 0.1)
	confidenceWeight := float64(fc.Confidence) / 10
	voteWeight := math.Max(float64(fc.NetVotes+10)/10, 0.1)
	return reputationWeight * confidenceWeight * voteWeight
}

// CredibilityScore computes the weighted-average credibility score
// (0-100) for a set of fact-checks. Pure function; repeated calls with
// the same input always produce the same score.
func CredibilityScore(factChecks []models.FactCheck) int {
	var totalScore, totalWeight float64
	for _, fc := range factChecks {
		verdictScore, ok := verdictScores[fc.Verdict]
		if !ok {
			verdictScore = 50
		}
		weight := factCheckWeight(fc)
		totalScore += float64(verdictScore) * weight
		totalWeight += weight
	}
	return int(math.Round(totalScore / totalWeight))
}

// ConsensusVerdict returns the most frequent verdict. Ties resolve to
// the earlier entry in the canonical verdict order, which keeps the
// result deterministic.
func ConsensusVerdict(factChecks []models.FactCheck) string {
	counts := make(map[string]int)
	for _, fc := range factChecks {
		counts[fc.Verdict]++
	}

	consensus := models.VerdictPending
	best := 0
	for _, verdict := range models.Verdicts {
		if counts[verdict] > best {
			consensus = verdict
			best = counts[verdict]
		}
	}
	return consensus
}

// StatusForScore maps a credibility score to an article status
func StatusForScore(score int) string {
	switch {
	case score >= 70:
		return models.ArticleStatusVerified
	case score <= 30:
		return models.ArticleStatusDisputed
	default:
		return models.ArticleStatusUnderReview
	}
}
