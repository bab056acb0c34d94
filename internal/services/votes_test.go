package services

import (
	"testing"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticleVoteToggleAndSwitch(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	submitter := createTestUser(t, db, "submitter", 100)
	voter := createTestUser(t, db, "voter", 100)
	article := createTestArticle(t, db, submitter)

	// Add
	result, err := service.CastArticleVote(voter.ID, voter.Username, article.ID, models.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionAdded, result.Action)
	require.NotNil(t, result.UserVote)
	assert.Equal(t, models.VoteUpvote, *result.UserVote)
	assert.Equal(t, 1, result.Upvotes)
	assert.Equal(t, 1, result.TotalVotes)

	// Switch
	result, err = service.CastArticleVote(voter.ID, voter.Username, article.ID, models.VoteDownvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionSwitched, result.Action)
	assert.Equal(t, 0, result.Upvotes)
	assert.Equal(t, 1, result.Downvotes)
	assert.Equal(t, 1, result.TotalVotes)

	// Remove (same type again)
	result, err = service.CastArticleVote(voter.ID, voter.Username, article.ID, models.VoteDownvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionRemoved, result.Action)
	assert.Nil(t, result.UserVote)
	assert.Equal(t, 0, result.Upvotes)
	assert.Equal(t, 0, result.Downvotes)
	assert.Equal(t, 0, result.TotalVotes)

	// At most one vote row ever existed at a time
	var count int64
	db.Model(&models.Vote{}).Where("user_id = ?", voter.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestArticleVoteSelfVoteRejected(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	submitter := createTestUser(t, db, "submitter", 100)
	article := createTestArticle(t, db, submitter)

	_, err := service.CastArticleVote(submitter.ID, submitter.Username, article.ID, models.VoteUpvote)
	assert.ErrorIs(t, err, ErrOwnContent)
}

func TestArticleVoteInvalidType(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	submitter := createTestUser(t, db, "submitter", 100)
	voter := createTestUser(t, db, "voter", 100)
	article := createTestArticle(t, db, submitter)

	_, err := service.CastArticleVote(voter.ID, voter.Username, article.ID, "credible")
	assert.ErrorIs(t, err, ErrInvalidVoteType)
}

func TestArticleUpvoteNotifiesSubmitterOnce(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	submitter := createTestUser(t, db, "submitter", 100)
	voter := createTestUser(t, db, "voter", 100)
	article := createTestArticle(t, db, submitter)

	_, err := service.CastArticleVote(voter.ID, voter.Username, article.ID, models.VoteUpvote)
	require.NoError(t, err)
	// Remove and re-add: the second add notifies again, but a removal
	// alone must not
	_, err = service.CastArticleVote(voter.ID, voter.Username, article.ID, models.VoteUpvote)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Notification{}).
		Where("user_id = ? AND type = ?", submitter.ID, models.NotificationArticleUpvoted).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFactCheckVoteReviewerReputation(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	submitter := createTestUser(t, db, "submitter", 100)
	reviewer := createTestUser(t, db, "reviewer", 100)
	voter := createTestUser(t, db, "voter", 100)
	article := createTestArticle(t, db, submitter)

	factCheck := models.FactCheck{
		ArticleID:                article.ID,
		ReviewerID:               reviewer.ID,
		ReviewerUsername:         reviewer.Username,
		Verdict:                  models.VerdictTrue,
		Confidence:               8,
		Evidence:                 "evidence",
		ReviewerReputationAtTime: 100,
	}
	require.NoError(t, db.Create(&factCheck).Error)

	reputationOf := func() int {
		var u models.User
		require.NoError(t, db.First(&u, "id = ?", reviewer.ID).Error)
		return u.Reputation
	}

	// Added upvote: +2
	result, err := service.CastFactCheckVote(voter.ID, factCheck.ID, models.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionAdded, result.Action)
	assert.Equal(t, 102, reputationOf())
	assert.Equal(t, 1, result.TotalVotes) // net votes

	// Switched to downvote: -3
	result, err = service.CastFactCheckVote(voter.ID, factCheck.ID, models.VoteDownvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionSwitched, result.Action)
	assert.Equal(t, 99, reputationOf())
	assert.Equal(t, -1, result.TotalVotes)

	// Removed downvote: +1
	result, err = service.CastFactCheckVote(voter.ID, factCheck.ID, models.VoteDownvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionRemoved, result.Action)
	assert.Equal(t, 100, reputationOf())
	assert.Equal(t, 0, result.TotalVotes)

	// net_votes column stayed consistent with the tallies
	var reloaded models.FactCheck
	require.NoError(t, db.First(&reloaded, "id = ?", factCheck.ID).Error)
	assert.Equal(t, reloaded.Upvotes-reloaded.Downvotes, reloaded.NetVotes)
}

func TestDiscussionVoteSelfAndAuthorReputation(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	author := createTestUser(t, db, "author", 100)
	voter := createTestUser(t, db, "voter", 100)

	discussion := models.Discussion{Title: "Thread", Content: "body", AuthorID: author.ID}
	require.NoError(t, db.Create(&discussion).Error)

	// Self-vote forbidden
	_, err := service.CastDiscussionVote(author.ID, discussion.ID, nil, models.VoteUpvote)
	assert.ErrorIs(t, err, ErrOwnContent)

	// New upvote: author +2
	result, err := service.CastDiscussionVote(voter.ID, discussion.ID, nil, models.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionAdded, result.Action)
	assert.Equal(t, 1, result.TotalVotes)

	var reloadedAuthor models.User
	require.NoError(t, db.First(&reloadedAuthor, "id = ?", author.ID).Error)
	assert.Equal(t, 102, reloadedAuthor.Reputation)

	// Switch to downvote: total goes to -1, author reputation untouched
	result, err = service.CastDiscussionVote(voter.ID, discussion.ID, nil, models.VoteDownvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionSwitched, result.Action)
	assert.Equal(t, -1, result.TotalVotes)

	require.NoError(t, db.First(&reloadedAuthor, "id = ?", author.ID).Error)
	assert.Equal(t, 102, reloadedAuthor.Reputation)
}

func TestReplyVoteTargetsReplyAuthor(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	author := createTestUser(t, db, "author", 100)
	replier := createTestUser(t, db, "replier", 100)

	discussion := models.Discussion{Title: "Thread", Content: "body", AuthorID: author.ID}
	require.NoError(t, db.Create(&discussion).Error)
	reply := models.Reply{DiscussionID: discussion.ID, UserID: replier.ID, Content: "a reply"}
	require.NoError(t, db.Create(&reply).Error)

	// The reply author may not vote on their own reply, but the thread
	// author may
	_, err := service.CastDiscussionVote(replier.ID, discussion.ID, &reply.ID, models.VoteUpvote)
	assert.ErrorIs(t, err, ErrOwnContent)

	result, err := service.CastDiscussionVote(author.ID, discussion.ID, &reply.ID, models.VoteDownvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionAdded, result.Action)
	assert.Equal(t, -1, result.TotalVotes)

	var reloadedReplier models.User
	require.NoError(t, db.First(&reloadedReplier, "id = ?", replier.ID).Error)
	assert.Equal(t, 99, reloadedReplier.Reputation)
}

func TestGenericVoteRewardsVoterOnAddOnly(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	submitter := createTestUser(t, db, "submitter", 100)
	voter := createTestUser(t, db, "voter", 100)
	article := createTestArticle(t, db, submitter)

	result, err := service.CastGenericVote(voter.ID, article.ID, models.TargetArticle, models.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionAdded, result.Action)
	assert.Equal(t, 2, result.PointsEarned)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", voter.ID).Error)
	assert.Equal(t, 102, reloaded.Reputation)
	assert.Equal(t, 2, reloaded.TotalPoints)
	assert.Equal(t, 1, reloaded.TotalVotes)

	// Removing earns nothing and does not refund
	result, err = service.CastGenericVote(voter.ID, article.ID, models.TargetArticle, models.VoteUpvote)
	require.NoError(t, err)
	assert.Equal(t, VoteActionRemoved, result.Action)
	assert.Equal(t, 0, result.PointsEarned)

	require.NoError(t, db.First(&reloaded, "id = ?", voter.ID).Error)
	assert.Equal(t, 102, reloaded.Reputation)
	assert.Equal(t, 1, reloaded.TotalVotes)
}

func TestGenericVoteAnnotationNetCounter(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	submitter := createTestUser(t, db, "submitter", 100)
	voter := createTestUser(t, db, "voter", 100)
	article := createTestArticle(t, db, submitter)

	annotation := models.Annotation{
		ArticleID:       article.ID,
		HighlightedText: "a claim",
		StartIndex:      0,
		EndIndex:        7,
		Claim:           "this is disputed",
		SubmittedByID:   submitter.ID,
	}
	require.NoError(t, db.Create(&annotation).Error)

	// Upvote/downvote are invalid for annotations
	_, err := service.CastGenericVote(voter.ID, annotation.ID, models.TargetAnnotation, models.VoteUpvote)
	assert.ErrorIs(t, err, ErrInvalidVoteType)

	// credible: +1
	result, err := service.CastGenericVote(voter.ID, annotation.ID, models.TargetAnnotation, models.VoteCredible)
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalVotes)

	// switch to not-credible: -2 (net -1)
	result, err = service.CastGenericVote(voter.ID, annotation.ID, models.TargetAnnotation, models.VoteNotCredible)
	require.NoError(t, err)
	assert.Equal(t, VoteActionSwitched, result.Action)
	assert.Equal(t, -1, result.TotalVotes)

	// remove: back to 0
	result, err = service.CastGenericVote(voter.ID, annotation.ID, models.TargetAnnotation, models.VoteNotCredible)
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalVotes)
}

func TestGenericVoteInvalidTarget(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	voter := createTestUser(t, db, "voter", 100)

	_, err := service.CastGenericVote(voter.ID, voter.ID, "discussion", models.VoteUpvote)
	assert.ErrorIs(t, err, ErrInvalidTargetType)
}

func TestUserVotesFor(t *testing.T) {
	db := setupTestDB(t)
	service := newTestVoteService(db)
	submitter := createTestUser(t, db, "submitter", 100)
	voter := createTestUser(t, db, "voter", 100)
	first := createTestArticle(t, db, submitter)
	second := createTestArticle(t, db, submitter)

	_, err := service.CastArticleVote(voter.ID, voter.Username, first.ID, models.VoteUpvote)
	require.NoError(t, err)

	votes, err := service.UserVotesFor(voter.ID, []uuid.UUID{first.ID, second.ID}, models.TargetArticle)
	require.NoError(t, err)
	assert.Equal(t, models.VoteUpvote, votes[first.ID])
	_, voted := votes[second.ID]
	assert.False(t, voted)
}
