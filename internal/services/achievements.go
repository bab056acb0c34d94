package services

import (
	"log"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Achievement is one entry of the fixed gamification catalog. Each can
// be earned at most once per user; Metric against Target drives both
// the award condition and the progress report.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Target      int    `json:"target"`

	Metric func(*models.User) int `json:"-"`
}

// Earned reports whether the user currently satisfies the condition
func (a Achievement) Earned(user *models.User) bool {
	return a.Metric(user) >= a.Target
}

// Progress returns the percentage toward the target, capped at 100
func (a Achievement) Progress(user *models.User) float64 {
	pct := float64(a.Metric(user)) / float64(a.Target) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

func submitted(u *models.User) int  { return u.ArticlesSubmitted }
func verified(u *models.User) int   { return u.ArticlesVerified }
func reputation(u *models.User) int { return u.Reputation }
func votes(u *models.User) int      { return u.TotalVotes }

// Catalog is the fixed achievement list, in award-evaluation order
var Catalog = []Achievement{
	{ID: "first_article", Name: "First Article", Description: "Submit your first article", Points: 10, Target: 1, Metric: submitted},
	{ID: "prolific_submitter", Name: "Prolific Submitter", Description: "Submit 10 articles", Points: 50, Target: 10, Metric: submitted},
	{ID: "article_master", Name: "Article Master", Description: "Submit 50 articles", Points: 200, Target: 50, Metric: submitted},
	{ID: "first_fact_check", Name: "First Fact Check", Description: "Submit your first fact check", Points: 15, Target: 1, Metric: verified},
	{ID: "fact_checker", Name: "Fact Checker", Description: "Verify 25 articles", Points: 100, Target: 25, Metric: verified},
	{ID: "truth_guardian", Name: "Truth Guardian", Description: "Verify 100 articles", Points: 500, Target: 100, Metric: verified},
	{ID: "rising_star", Name: "Rising Star", Description: "Reach 100 reputation points", Points: 25, Target: 100, Metric: reputation},
	{ID: "trusted_member", Name: "Trusted Member", Description: "Reach 500 reputation points", Points: 75, Target: 500, Metric: reputation},
	{ID: "expert_contributor", Name: "Expert Contributor", Description: "Reach 1000 reputation points", Points: 150, Target: 1000, Metric: reputation},
	{ID: "active_voter", Name: "Active Voter", Description: "Cast 50 votes", Points: 30, Target: 50, Metric: votes},
	{ID: "democracy_champion", Name: "Democracy Champion", Description: "Cast 200 votes", Points: 80, Target: 200, Metric: votes},
}

// LevelChange reports a level transition caused by awarded points
type LevelChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AchievementResult is what Check returns to the caller for
// user-facing notification
type AchievementResult struct {
	Achievements []Achievement `json:"achievements"`
	LevelUp      *LevelChange  `json:"levelUp"`
}

// AchievementProgress is one catalog entry annotated with the user's
// standing toward it
type AchievementProgress struct {
	Achievement
	Earned   bool    `json:"earned"`
	Progress float64 `json:"progress"`
}

// AchievementService awards catalog entries and reports progress
type AchievementService struct {
	db         *gorm.DB
	reputation *ReputationService
}

// NewAchievementService creates a new achievement service
func NewAchievementService(db *gorm.DB, reputation *ReputationService) *AchievementService {
	return &AchievementService{db: db, reputation: reputation}
}

// Check evaluates the catalog against the user's current counters and
// awards anything newly earned: the badge name is pushed and the
// entry's points are credited exactly once. Conditions are evaluated
// against the counters as loaded at entry, so awards within one check
// do not cascade into further awards. Never fails the caller — errors
// are logged and an empty result returned.
func (s *AchievementService) Check(userID uuid.UUID) *AchievementResult {
	result := &AchievementResult{Achievements: []Achievement{}}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		log.Printf("Achievement check: failed to load user %s: %v", userID, err)
		return result
	}
	oldLevel := user.Level

	for _, achievement := range Catalog {
		if user.HasBadge(achievement.Name) {
			continue
		}
		if !achievement.Earned(&user) {
			continue
		}

		if err := s.award(&user, achievement); err != nil {
			log.Printf("Achievement check: failed to award %q to %s: %v", achievement.Name, userID, err)
			continue
		}
		result.Achievements = append(result.Achievements, achievement)
	}

	if len(result.Achievements) == 0 {
		return result
	}

	var updated models.User
	if err := s.db.Select("id", "reputation").First(&updated, "id = ?", userID).Error; err != nil {
		log.Printf("Achievement check: failed to reload user %s: %v", userID, err)
		return result
	}
	if newLevel := models.LevelFor(updated.Reputation); newLevel != oldLevel {
		result.LevelUp = &LevelChange{From: oldLevel, To: newLevel}
	}

	return result
}

// award pushes the badge and credits the points in one transaction.
// The caller's user struct picks up the badge so the same check cannot
// award twice.
func (s *AchievementService) award(user *models.User, achievement Achievement) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		user.Badges = append(user.Badges, achievement.Name)
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).
			UpdateColumn("badges", user.Badges).Error; err != nil {
			return err
		}

		return s.reputation.ApplyTx(tx, Adjustment{
			UserID:     user.ID,
			Reputation: achievement.Points,
			Points:     achievement.Points,
			Reason:     models.ReasonAchievement + ":" + achievement.ID,
		})
	})
}

// ProgressFor reports the user's standing against every catalog entry.
// An earned flag comes from badge membership, not the live condition,
// so a later reputation drop does not un-earn anything.
func (s *AchievementService) ProgressFor(userID uuid.UUID) ([]AchievementProgress, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}

	progress := make([]AchievementProgress, 0, len(Catalog))
	for _, achievement := range Catalog {
		progress = append(progress, AchievementProgress{
			Achievement: achievement,
			Earned:      user.HasBadge(achievement.Name),
			Progress:    achievement.Progress(&user),
		})
	}
	return progress, nil
}
