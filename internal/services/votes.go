package services

import (
	"errors"
	"fmt"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote actions reported by the ledger.
const (
	VoteActionAdded    = "added"
	VoteActionRemoved  = "removed"
	VoteActionSwitched = "switched"
)

// Sentinel errors mapped to HTTP statuses by the handlers.
var (
	ErrNotFound           = errors.New("not found")
	ErrOwnContent         = errors.New("cannot vote on your own content")
	ErrInvalidVoteType    = errors.New("invalid vote type")
	ErrInvalidTargetType  = errors.New("invalid target type")
	ErrDiscussionLocked   = errors.New("discussion is locked")
	ErrAlreadyFactChecked = errors.New("you have already fact-checked this article")
	ErrNotOwner           = errors.New("not the owner of this content")
)

// VoteService implements the toggle/switch vote state machine shared by
// every votable target. One live vote per (user, target, targetType):
// a repeat of the same type removes it, a different type switches it.
type VoteService struct {
	db            *gorm.DB
	reputation    *ReputationService
	credibility   *CredibilityService
	achievements  *AchievementService
	notifications *NotificationService
}

// NewVoteService creates a new vote service
func NewVoteService(db *gorm.DB, reputation *ReputationService, credibility *CredibilityService,
	achievements *AchievementService, notifications *NotificationService) *VoteService {
	return &VoteService{
		db:            db,
		reputation:    reputation,
		credibility:   credibility,
		achievements:  achievements,
		notifications: notifications,
	}
}

// VoteResult reports the outcome of a cast plus the updated tallies
type VoteResult struct {
	Action     string  `json:"action"`
	UserVote   *string `json:"userVote"`
	Upvotes    int     `json:"upvotes"`
	Downvotes  int     `json:"downvotes"`
	TotalVotes int     `json:"totalVotes"`

	PointsEarned    int           `json:"pointsEarned,omitempty"`
	NewAchievements []Achievement `json:"newAchievements,omitempty"`
	LevelUp         *LevelChange  `json:"levelUp,omitempty"`
}

// transition applies the state machine to the vote row itself and
// returns the action taken plus the previous vote type (for removed and
// switched). Counter updates on the target are the caller's job.
func (s *VoteService) transition(userID, targetID uuid.UUID, targetType, voteType string) (action, previous string, err error) {
	var existing models.Vote
	err = s.db.Where("user_id = ? AND target_id = ? AND target_type = ?",
		userID, targetID, targetType).First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		vote := models.Vote{
			UserID:     userID,
			TargetID:   targetID,
			TargetType: targetType,
			Type:       voteType,
		}
		if err := s.db.Create(&vote).Error; err != nil {
			return "", "", err
		}
		return VoteActionAdded, "", nil
	}
	if err != nil {
		return "", "", err
	}

	if existing.Type == voteType {
		if err := s.db.Delete(&existing).Error; err != nil {
			return "", "", err
		}
		return VoteActionRemoved, existing.Type, nil
	}

	previous = existing.Type
	if err := s.db.Model(&existing).Update("type", voteType).Error; err != nil {
		return "", "", err
	}
	return VoteActionSwitched, previous, nil
}

// tallyDeltas converts an action into upvote/downvote counter deltas
func tallyDeltas(action, previous, voteType string) (up, down int) {
	switch action {
	case VoteActionAdded:
		if voteType == models.VoteUpvote {
			up = 1
		} else {
			down = 1
		}
	case VoteActionRemoved:
		if voteType == models.VoteUpvote {
			up = -1
		} else {
			down = -1
		}
	case VoteActionSwitched:
		if voteType == models.VoteUpvote {
			up, down = 1, -1
		} else {
			up, down = -1, 1
		}
	}
	return up, down
}

func isUpDown(voteType string) bool {
	return voteType == models.VoteUpvote || voteType == models.VoteDownvote
}

func userVoteFor(action, voteType string) *string {
	if action == VoteActionRemoved {
		return nil
	}
	v := voteType
	return &v
}

// CastArticleVote handles POST /api/articles/:id/vote. Submitters may
// not vote on their own article.
func (s *VoteService) CastArticleVote(userID uuid.UUID, username string, articleID uuid.UUID, voteType string) (*VoteResult, error) {
	if !isUpDown(voteType) {
		return nil, ErrInvalidVoteType
	}

	var article models.Article
	if err := s.db.First(&article, "id = ?", articleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if article.SubmittedByID == userID {
		return nil, ErrOwnContent
	}

	action, previous, err := s.transition(userID, articleID, models.TargetArticle, voteType)
	if err != nil {
		return nil, err
	}

	up, down := tallyDeltas(action, previous, voteType)
	if err := s.db.Model(&models.Article{}).Where("id = ?", articleID).Updates(map[string]interface{}{
		"upvotes":     gorm.Expr("upvotes + ?", up),
		"downvotes":   gorm.Expr("downvotes + ?", down),
		"total_votes": gorm.Expr("total_votes + ?", up+down),
	}).Error; err != nil {
		return nil, err
	}

	if err := s.reputation.TouchLastActive(userID); err != nil {
		return nil, err
	}

	// Upvote notifications only; retractions and downvotes stay silent
	if action == VoteActionAdded && voteType == models.VoteUpvote {
		aid := article.ID
		s.notifications.CreateBestEffort(&models.Notification{
			UserID:           article.SubmittedByID,
			Type:             models.NotificationArticleUpvoted,
			Title:            "Article Upvoted",
			Message:          fmt.Sprintf("%s upvoted your article %q", username, article.Title),
			RelatedArticleID: &aid,
			RelatedUserID:    &userID,
			Actionable:       true,
			ActionURL:        fmt.Sprintf("/article/%s", article.ID),
			Category:         "community",
		})
	}

	var updated models.Article
	if err := s.db.Select("upvotes", "downvotes", "total_votes").First(&updated, "id = ?", articleID).Error; err != nil {
		return nil, err
	}

	return &VoteResult{
		Action:     action,
		UserVote:   userVoteFor(action, voteType),
		Upvotes:    updated.Upvotes,
		Downvotes:  updated.Downvotes,
		TotalVotes: updated.TotalVotes,
	}, nil
}

// factCheckReputationDelta is the reviewer's reputation change for a
// vote event on their fact-check: +2 per live upvote, -1 per live
// downvote, with removals and switches undoing or combining those.
func factCheckReputationDelta(action, voteType string) int {
	switch action {
	case VoteActionAdded:
		if voteType == models.VoteUpvote {
			return 2
		}
		return -1
	case VoteActionRemoved:
		if voteType == models.VoteUpvote {
			return -2
		}
		return 1
	case VoteActionSwitched:
		if voteType == models.VoteUpvote {
			return 3
		}
		return -3
	}
	return 0
}

// CastFactCheckVote handles POST /api/factchecks/:factCheckId/vote.
// Adjusts the reviewer's reputation and re-aggregates the article's
// credibility afterwards.
func (s *VoteService) CastFactCheckVote(userID, factCheckID uuid.UUID, voteType string) (*VoteResult, error) {
	if !isUpDown(voteType) {
		return nil, ErrInvalidVoteType
	}

	var factCheck models.FactCheck
	if err := s.db.First(&factCheck, "id = ?", factCheckID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	action, previous, err := s.transition(userID, factCheckID, models.TargetFactCheck, voteType)
	if err != nil {
		return nil, err
	}

	up, down := tallyDeltas(action, previous, voteType)
	if err := s.db.Model(&models.FactCheck{}).Where("id = ?", factCheckID).Updates(map[string]interface{}{
		"upvotes":   gorm.Expr("upvotes + ?", up),
		"downvotes": gorm.Expr("downvotes + ?", down),
	}).Error; err != nil {
		return nil, err
	}
	// net_votes reads the already-updated tallies, so it runs second
	if err := s.db.Model(&models.FactCheck{}).Where("id = ?", factCheckID).
		UpdateColumn("net_votes", gorm.Expr("upvotes - downvotes")).Error; err != nil {
		return nil, err
	}

	fcid := factCheck.ID
	if err := s.reputation.Apply(Adjustment{
		UserID:     factCheck.ReviewerID,
		Reputation: factCheckReputationDelta(action, voteType),
		Reason:     models.ReasonFactCheckVoted,
		TargetID:   &fcid,
		TargetType: models.TargetFactCheck,
	}); err != nil {
		return nil, err
	}

	s.credibility.RecomputeBestEffort(factCheck.ArticleID)

	var updated models.FactCheck
	if err := s.db.Select("upvotes", "downvotes", "net_votes").First(&updated, "id = ?", factCheckID).Error; err != nil {
		return nil, err
	}

	return &VoteResult{
		Action:     action,
		UserVote:   userVoteFor(action, voteType),
		Upvotes:    updated.Upvotes,
		Downvotes:  updated.Downvotes,
		TotalVotes: updated.NetVotes,
	}, nil
}

// CastDiscussionVote handles POST /api/discussions/:id/vote for both
// the discussion and, when replyID is set, one of its replies. Authors
// may not vote on their own discussion or reply.
func (s *VoteService) CastDiscussionVote(userID, discussionID uuid.UUID, replyID *uuid.UUID, voteType string) (*VoteResult, error) {
	if !isUpDown(voteType) {
		return nil, ErrInvalidVoteType
	}

	var discussion models.Discussion
	if err := s.db.First(&discussion, "id = ? AND is_deleted = ?", discussionID, false).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	targetID := discussionID
	authorID := discussion.AuthorID

	var reply models.Reply
	if replyID != nil {
		if err := s.db.First(&reply, "id = ? AND discussion_id = ? AND is_deleted = ?",
			*replyID, discussionID, false).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		targetID = reply.ID
		authorID = reply.UserID
	}

	if authorID == userID {
		return nil, ErrOwnContent
	}

	action, previous, err := s.transition(userID, targetID, models.TargetDiscussion, voteType)
	if err != nil {
		return nil, err
	}

	up, down := tallyDeltas(action, previous, voteType)
	target := s.db.Model(&models.Discussion{}).Where("id = ?", discussionID)
	if replyID != nil {
		target = s.db.Model(&models.Reply{}).Where("id = ?", *replyID)
	}
	if err := target.Updates(map[string]interface{}{
		"upvotes":     gorm.Expr("upvotes + ?", up),
		"downvotes":   gorm.Expr("downvotes + ?", down),
		"total_votes": gorm.Expr("total_votes + ?", up-down),
	}).Error; err != nil {
		return nil, err
	}

	// Author reputation moves only on newly added votes; removals and
	// switches leave it untouched
	if action == VoteActionAdded {
		delta := 2
		if voteType == models.VoteDownvote {
			delta = -1
		}
		tid := targetID
		if err := s.reputation.Apply(Adjustment{
			UserID:     authorID,
			Reputation: delta,
			Reason:     models.ReasonContentVoted,
			TargetID:   &tid,
			TargetType: models.TargetDiscussion,
		}); err != nil {
			return nil, err
		}
	}

	result := &VoteResult{Action: action, UserVote: userVoteFor(action, voteType)}
	if replyID != nil {
		var updated models.Reply
		if err := s.db.Select("upvotes", "downvotes", "total_votes").First(&updated, "id = ?", *replyID).Error; err != nil {
			return nil, err
		}
		result.Upvotes, result.Downvotes, result.TotalVotes = updated.Upvotes, updated.Downvotes, updated.TotalVotes
	} else {
		var updated models.Discussion
		if err := s.db.Select("upvotes", "downvotes", "total_votes").First(&updated, "id = ?", discussionID).Error; err != nil {
			return nil, err
		}
		result.Upvotes, result.Downvotes, result.TotalVotes = updated.Upvotes, updated.Downvotes, updated.TotalVotes
	}
	return result, nil
}

// CastGenericVote handles POST /api/votes/:id for articles and
// annotations. Articles take upvote/downvote; annotations take
// credible/not-credible against their net counter. A newly added vote
// of either kind rewards the voter and re-checks achievements.
func (s *VoteService) CastGenericVote(userID, targetID uuid.UUID, targetType, voteType string) (*VoteResult, error) {
	switch targetType {
	case models.TargetArticle:
		if !isUpDown(voteType) {
			return nil, ErrInvalidVoteType
		}
	case models.TargetAnnotation:
		if voteType != models.VoteCredible && voteType != models.VoteNotCredible {
			return nil, ErrInvalidVoteType
		}
	default:
		return nil, ErrInvalidTargetType
	}

	if targetType == models.TargetArticle {
		var article models.Article
		if err := s.db.First(&article, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
		if article.SubmittedByID == userID {
			return nil, ErrOwnContent
		}
	} else {
		var annotation models.Annotation
		if err := s.db.First(&annotation, "id = ?", targetID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	action, previous, err := s.transition(userID, targetID, targetType, voteType)
	if err != nil {
		return nil, err
	}

	if targetType == models.TargetArticle {
		up, down := tallyDeltas(action, previous, voteType)
		if err := s.db.Model(&models.Article{}).Where("id = ?", targetID).Updates(map[string]interface{}{
			"upvotes":   gorm.Expr("upvotes + ?", up),
			"downvotes": gorm.Expr("downvotes + ?", down),
		}).Error; err != nil {
			return nil, err
		}
	} else {
		if err := s.db.Model(&models.Annotation{}).Where("id = ?", targetID).
			UpdateColumn("credibility_votes", gorm.Expr("credibility_votes + ?",
				annotationDelta(action, voteType))).Error; err != nil {
			return nil, err
		}
	}

	result := &VoteResult{Action: action, UserVote: userVoteFor(action, voteType)}

	// Voting itself earns a small reward, once per added vote
	if action == VoteActionAdded {
		pointsEarned := 2
		tid := targetID
		if err := s.reputation.Apply(Adjustment{
			UserID:     userID,
			Reputation: pointsEarned,
			Points:     pointsEarned,
			Votes:      1,
			Reason:     models.ReasonVoteCast,
			TargetID:   &tid,
			TargetType: targetType,
		}); err != nil {
			return nil, err
		}

		achievementResult := s.achievements.Check(userID)
		result.PointsEarned = pointsEarned
		result.NewAchievements = achievementResult.Achievements
		result.LevelUp = achievementResult.LevelUp
	}

	if targetType == models.TargetArticle {
		var updated models.Article
		if err := s.db.Select("upvotes", "downvotes", "total_votes").First(&updated, "id = ?", targetID).Error; err != nil {
			return nil, err
		}
		result.Upvotes, result.Downvotes, result.TotalVotes = updated.Upvotes, updated.Downvotes, updated.TotalVotes
	} else {
		var updated models.Annotation
		if err := s.db.Select("credibility_votes").First(&updated, "id = ?", targetID).Error; err != nil {
			return nil, err
		}
		result.TotalVotes = updated.CredibilityVotes
	}
	return result, nil
}

// annotationDelta maps a credible/not-credible vote event to its net
// counter movement: add +-1, remove undoes it, switch jumps by 2.
func annotationDelta(action, voteType string) int {
	sign := 1
	if voteType == models.VoteNotCredible {
		sign = -1
	}
	switch action {
	case VoteActionAdded:
		return sign
	case VoteActionRemoved:
		return -sign
	case VoteActionSwitched:
		return 2 * sign
	}
	return 0
}

// UserVote returns the user's live vote type on a target, or nil
func (s *VoteService) UserVote(userID, targetID uuid.UUID, targetType string) (*string, error) {
	var vote models.Vote
	err := s.db.Where("user_id = ? AND target_id = ? AND target_type = ?",
		userID, targetID, targetType).First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote.Type, nil
}

// UserVotesFor returns the user's live votes keyed by target ID for a
// batch of targets of one type
func (s *VoteService) UserVotesFor(userID uuid.UUID, targetIDs []uuid.UUID, targetType string) (map[uuid.UUID]string, error) {
	votes := make(map[uuid.UUID]string, len(targetIDs))
	if len(targetIDs) == 0 {
		return votes, nil
	}

	var rows []models.Vote
	if err := s.db.Where("user_id = ? AND target_type = ? AND target_id IN ?",
		userID, targetType, targetIDs).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, vote := range rows {
		votes[vote.TargetID] = vote.Type
	}
	return votes, nil
}
