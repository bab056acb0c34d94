package handlers

import (
	"net/http"

	"truthhub/internal/auth"
	"truthhub/internal/markdown"
	"truthhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DiscussionHandler handles HTTP requests for discussion threads
type DiscussionHandler struct {
	discussions *services.DiscussionService
	votes       *services.VoteService
}

// NewDiscussionHandler creates a new discussion handler
func NewDiscussionHandler(discussions *services.DiscussionService, votes *services.VoteService) *DiscussionHandler {
	return &DiscussionHandler{discussions: discussions, votes: votes}
}

// Create handles POST /api/discussions
func (h *DiscussionHandler) Create(c *gin.Context) {
	user := auth.CurrentUser(c)

	var input services.DiscussionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	discussion, err := h.discussions.Create(user.ID, input)
	if err != nil {
		if err == services.ErrNotFound {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"discussion":  discussion,
		"contentHtml": markdown.Render(discussion.Content),
	})
}

// List handles GET /api/discussions
func (h *DiscussionHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	filters := services.DiscussionFilters{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		SortBy:   c.Query("sortBy"),
		Limit:    limit,
		Offset:   offset,
	}
	if raw := c.Query("articleId"); raw != "" {
		articleID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
			return
		}
		filters.ArticleID = &articleID
	}

	discussions, total, err := h.discussions.List(filters)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"discussions": discussions, "total": total})
}

// Get handles GET /api/discussions/:id
func (h *DiscussionHandler) Get(c *gin.Context) {
	discussionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discussion ID"})
		return
	}

	discussion, err := h.discussions.Get(discussionID)
	if err != nil {
		respondError(c, err)
		return
	}

	replyHTML := make(map[string]string, len(discussion.Replies))
	for _, reply := range discussion.Replies {
		replyHTML[reply.ID.String()] = markdown.Render(reply.Content)
	}

	response := gin.H{
		"discussion":  discussion,
		"contentHtml": markdown.Render(discussion.Content),
		"replyHtml":   replyHTML,
	}

	c.JSON(http.StatusOK, response)
}

// AddReply handles POST /api/discussions/:id/replies
func (h *DiscussionHandler) AddReply(c *gin.Context) {
	user := auth.CurrentUser(c)

	discussionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discussion ID"})
		return
	}

	var body struct {
		Content       string     `json:"content"`
		ParentReplyID *uuid.UUID `json:"parentReplyId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.discussions.AddReply(user.ID, discussionID, body.Content, body.ParentReplyID)
	if err != nil {
		switch err {
		case services.ErrNotFound, services.ErrDiscussionLocked:
			respondError(c, err)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"reply":       reply,
		"contentHtml": markdown.Render(reply.Content),
	})
}

// EditReply handles PUT /api/discussions/replies/:replyId
func (h *DiscussionHandler) EditReply(c *gin.Context) {
	user := auth.CurrentUser(c)

	replyID, err := uuid.Parse(c.Param("replyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply ID"})
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	reply, err := h.discussions.EditReply(user.ID, replyID, body.Content)
	if err != nil {
		switch err {
		case services.ErrNotFound, services.ErrNotOwner:
			respondError(c, err)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply, "contentHtml": markdown.Render(reply.Content)})
}

// DeleteReply handles DELETE /api/discussions/replies/:replyId
func (h *DiscussionHandler) DeleteReply(c *gin.Context) {
	user := auth.CurrentUser(c)

	replyID, err := uuid.Parse(c.Param("replyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reply ID"})
		return
	}

	if err := h.discussions.DeleteReply(user.ID, user.Role, replyID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reply deleted"})
}

// Delete handles DELETE /api/discussions/:id
func (h *DiscussionHandler) Delete(c *gin.Context) {
	user := auth.CurrentUser(c)

	discussionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discussion ID"})
		return
	}

	if err := h.discussions.Delete(user.ID, user.Role, discussionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Discussion deleted"})
}

// Vote handles POST /api/discussions/:id/vote
func (h *DiscussionHandler) Vote(c *gin.Context) {
	user := auth.CurrentUser(c)

	discussionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discussion ID"})
		return
	}

	var body struct {
		VoteType string     `json:"voteType"`
		ReplyID  *uuid.UUID `json:"replyId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.votes.CastDiscussionVote(user.ID, discussionID, body.ReplyID, body.VoteType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SetLocked handles PUT /api/discussions/:id/lock
func (h *DiscussionHandler) SetLocked(c *gin.Context) {
	user := auth.CurrentUser(c)

	discussionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discussion ID"})
		return
	}

	var body struct {
		Locked bool `json:"locked"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.discussions.SetLocked(user.Role, discussionID, body.Locked); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"locked": body.Locked})
}
