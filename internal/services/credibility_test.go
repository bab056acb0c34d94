package services

import (
	"testing"

	"truthhub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fc(verdict string, confidence, reputationAtTime, netVotes int) models.FactCheck {
	return models.FactCheck{
		Verdict:                  verdict,
		Confidence:               confidence,
		ReviewerReputationAtTime: reputationAtTime,
		NetVotes:                 netVotes,
	}
}

func TestCredibilityScoreUnanimousTrue(t *testing.T) {
	factChecks := []models.FactCheck{
		fc(models.VerdictTrue, 10, 200, 0),
		fc(models.VerdictTrue, 10, 200, 0),
	}

	score := CredibilityScore(factChecks)
	assert.Equal(t, 100, score)
	assert.Equal(t, models.ArticleStatusVerified, StatusForScore(score))
	assert.Equal(t, models.VerdictTrue, ConsensusVerdict(factChecks))
}

func TestCredibilityScoreSingleFalse(t *testing.T) {
	factChecks := []models.FactCheck{fc(models.VerdictFalse, 5, 50, 0)}

	score := CredibilityScore(factChecks)
	assert.Equal(t, 0, score)
	assert.Equal(t, models.ArticleStatusDisputed, StatusForScore(score))
	assert.Equal(t, models.VerdictFalse, ConsensusVerdict(factChecks))
}

func TestCredibilityScoreDeterministic(t *testing.T) {
	factChecks := []models.FactCheck{
		fc(models.VerdictTrue, 7, 300, 4),
		fc(models.VerdictMostlyFalse, 9, 80, -2),
		fc(models.VerdictMixed, 5, 150, 1),
	}

	first := CredibilityScore(factChecks)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CredibilityScore(factChecks))
	}
}

func TestCredibilityScoreWeighting(t *testing.T) {
	// A high-reputation confident reviewer outweighs a low-reputation
	// hesitant one
	factChecks := []models.FactCheck{
		fc(models.VerdictTrue, 10, 1000, 5),
		fc(models.VerdictFalse, 2, 0, 0),
	}

	score := CredibilityScore(factChecks)
	assert.Greater(t, score, 90)
}

func TestCredibilityScoreUnknownVerdictDefaults(t *testing.T) {
	factChecks := []models.FactCheck{fc("something-new", 10, 100, 0)}
	assert.Equal(t, 50, CredibilityScore(factChecks))
}

func TestStatusForScoreBoundaries(t *testing.T) {
	assert.Equal(t, models.ArticleStatusVerified, StatusForScore(70))
	assert.Equal(t, models.ArticleStatusUnderReview, StatusForScore(69))
	assert.Equal(t, models.ArticleStatusUnderReview, StatusForScore(31))
	assert.Equal(t, models.ArticleStatusDisputed, StatusForScore(30))
	assert.Equal(t, models.ArticleStatusVerified, StatusForScore(100))
	assert.Equal(t, models.ArticleStatusDisputed, StatusForScore(0))
}

func TestConsensusVerdictTieBreak(t *testing.T) {
	// One of each: the canonical order decides
	factChecks := []models.FactCheck{
		fc(models.VerdictFalse, 5, 100, 0),
		fc(models.VerdictTrue, 5, 100, 0),
	}
	assert.Equal(t, models.VerdictTrue, ConsensusVerdict(factChecks))

	factChecks = []models.FactCheck{
		fc(models.VerdictUnsubstantiated, 5, 100, 0),
		fc(models.VerdictMixed, 5, 100, 0),
	}
	assert.Equal(t, models.VerdictMixed, ConsensusVerdict(factChecks))
}

func TestConsensusVerdictMajorityWins(t *testing.T) {
	factChecks := []models.FactCheck{
		fc(models.VerdictFalse, 5, 100, 0),
		fc(models.VerdictFalse, 5, 100, 0),
		fc(models.VerdictTrue, 5, 100, 0),
	}
	assert.Equal(t, models.VerdictFalse, ConsensusVerdict(factChecks))
}

func TestRecomputeNoFactChecksIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "submitter", 100)
	article := createTestArticle(t, db, user)

	// Pre-set a score that must survive the no-op
	require.NoError(t, db.Model(article).Updates(map[string]interface{}{
		"credibility_score": 55,
		"status":            models.ArticleStatusUnderReview,
	}).Error)

	service := NewCredibilityService(db)
	require.NoError(t, service.Recompute(article.ID))

	var reloaded models.Article
	require.NoError(t, db.First(&reloaded, "id = ?", article.ID).Error)
	assert.Equal(t, 55, reloaded.CredibilityScore)
	assert.Equal(t, models.ArticleStatusUnderReview, reloaded.Status)
}

func TestRecomputePersistsAllThreeFields(t *testing.T) {
	db := setupTestDB(t)
	submitter := createTestUser(t, db, "submitter", 100)
	reviewer := createTestUser(t, db, "reviewer", 200)
	article := createTestArticle(t, db, submitter)

	factCheck := models.FactCheck{
		ArticleID:                article.ID,
		ReviewerID:               reviewer.ID,
		ReviewerUsername:         reviewer.Username,
		Verdict:                  models.VerdictTrue,
		Confidence:               10,
		Evidence:                 "solid evidence",
		ReviewerReputationAtTime: 200,
	}
	require.NoError(t, db.Create(&factCheck).Error)

	service := NewCredibilityService(db)
	require.NoError(t, service.Recompute(article.ID))

	var reloaded models.Article
	require.NoError(t, db.First(&reloaded, "id = ?", article.ID).Error)
	assert.Equal(t, 100, reloaded.CredibilityScore)
	assert.Equal(t, models.VerdictTrue, reloaded.ConsensusVerdict)
	assert.Equal(t, models.ArticleStatusVerified, reloaded.Status)
}
