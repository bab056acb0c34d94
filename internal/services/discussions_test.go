package services

import (
	"testing"

	"truthhub/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDiscussionService(db *gorm.DB) *DiscussionService {
	return NewDiscussionService(db, NewReputationService(db))
}

func TestDiscussionCreateAndReply(t *testing.T) {
	db := setupTestDB(t)
	service := newTestDiscussionService(db)
	author := createTestUser(t, db, "author", 100)
	replier := createTestUser(t, db, "replier", 100)

	discussion, err := service.Create(author.ID, DiscussionInput{
		Title:   "Is the cooling study credible?",
		Content: "The methodology section looks thin to me.",
	})
	require.NoError(t, err)
	assert.Equal(t, "general", discussion.Category)

	reply, err := service.AddReply(replier.ID, discussion.ID, "The authors published raw data.", nil)
	require.NoError(t, err)

	var reloaded models.Discussion
	require.NoError(t, db.First(&reloaded, "id = ?", discussion.ID).Error)
	assert.Equal(t, 1, reloaded.ReplyCount)
	assert.False(t, reloaded.LastActivityAt.IsZero())

	// Nested reply under the first
	nested, err := service.AddReply(author.ID, discussion.ID, "Link?", &reply.ID)
	require.NoError(t, err)
	require.NotNil(t, nested.ParentReplyID)
	assert.Equal(t, reply.ID, *nested.ParentReplyID)
}

func TestDiscussionLockedRejectsReplies(t *testing.T) {
	db := setupTestDB(t)
	service := newTestDiscussionService(db)
	author := createTestUser(t, db, "author", 100)
	replier := createTestUser(t, db, "replier", 100)

	discussion, err := service.Create(author.ID, DiscussionInput{Title: "T", Content: "c"})
	require.NoError(t, err)

	// Plain users cannot lock
	assert.ErrorIs(t, service.SetLocked(models.RoleUser, discussion.ID, true), ErrNotOwner)

	require.NoError(t, service.SetLocked(models.RoleModerator, discussion.ID, true))

	_, err = service.AddReply(replier.ID, discussion.ID, "too late", nil)
	assert.ErrorIs(t, err, ErrDiscussionLocked)

	require.NoError(t, service.SetLocked(models.RoleModerator, discussion.ID, false))
	_, err = service.AddReply(replier.ID, discussion.ID, "open again", nil)
	assert.NoError(t, err)
}

func TestDiscussionCreateLinksArticle(t *testing.T) {
	db := setupTestDB(t)
	service := newTestDiscussionService(db)
	author := createTestUser(t, db, "author", 100)
	article := createTestArticle(t, db, author)

	_, err := service.Create(author.ID, DiscussionInput{
		Title: "T", Content: "c", ArticleID: &article.ID,
	})
	require.NoError(t, err)

	var reloaded models.Article
	require.NoError(t, db.First(&reloaded, "id = ?", article.ID).Error)
	assert.Equal(t, 1, reloaded.DiscussionCount)

	missing := uuid.New()
	_, err = service.Create(author.ID, DiscussionInput{Title: "T", Content: "c", ArticleID: &missing})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplyEditAndDelete(t *testing.T) {
	db := setupTestDB(t)
	service := newTestDiscussionService(db)
	author := createTestUser(t, db, "author", 100)
	replier := createTestUser(t, db, "replier", 100)

	discussion, err := service.Create(author.ID, DiscussionInput{Title: "T", Content: "c"})
	require.NoError(t, err)
	reply, err := service.AddReply(replier.ID, discussion.ID, "original", nil)
	require.NoError(t, err)

	// Only the author of the reply can edit
	_, err = service.EditReply(author.ID, reply.ID, "hijacked")
	assert.ErrorIs(t, err, ErrNotOwner)

	edited, err := service.EditReply(replier.ID, reply.ID, "revised")
	require.NoError(t, err)
	assert.Equal(t, "revised", edited.Content)
	assert.NotNil(t, edited.EditedAt)

	// A moderator may delete someone else's reply
	require.NoError(t, service.DeleteReply(author.ID, models.RoleModerator, reply.ID))

	var reloaded models.Reply
	require.NoError(t, db.First(&reloaded, "id = ?", reply.ID).Error)
	assert.True(t, reloaded.IsDeleted)

	var discussionReloaded models.Discussion
	require.NoError(t, db.First(&discussionReloaded, "id = ?", discussion.ID).Error)
	assert.Equal(t, 0, discussionReloaded.ReplyCount)
}

func TestDiscussionSoftDelete(t *testing.T) {
	db := setupTestDB(t)
	service := newTestDiscussionService(db)
	author := createTestUser(t, db, "author", 100)
	stranger := createTestUser(t, db, "stranger", 100)

	discussion, err := service.Create(author.ID, DiscussionInput{Title: "T", Content: "c"})
	require.NoError(t, err)

	assert.ErrorIs(t, service.Delete(stranger.ID, models.RoleUser, discussion.ID), ErrNotOwner)
	require.NoError(t, service.Delete(author.ID, models.RoleUser, discussion.ID))

	_, err = service.Get(discussion.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
