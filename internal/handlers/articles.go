package handlers

import (
	"net/http"
	"strconv"

	"truthhub/internal/auth"
	"truthhub/internal/models"
	"truthhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ArticleHandler handles HTTP requests for articles
type ArticleHandler struct {
	articles *services.ArticleService
	votes    *services.VoteService
}

// NewArticleHandler creates a new article handler
func NewArticleHandler(articles *services.ArticleService, votes *services.VoteService) *ArticleHandler {
	return &ArticleHandler{articles: articles, votes: votes}
}

// Submit handles POST /api/articles
func (h *ArticleHandler) Submit(c *gin.Context) {
	user := auth.CurrentUser(c)

	var sub services.ArticleSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.articles.Submit(user.ID, sub)
	if err != nil {
		if err == services.ErrNotFound {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// List handles GET /api/articles
func (h *ArticleHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	filters := services.ArticleFilters{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Tag:      c.Query("tag"),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
		Limit:    limit,
		Offset:   offset,
	}

	articles, total, err := h.articles.List(filters)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"articles": articles, "total": total, "limit": limit, "offset": offset}

	// Annotate the caller's live votes when authenticated
	if user := auth.CurrentUser(c); user != nil && len(articles) > 0 {
		ids := make([]uuid.UUID, len(articles))
		for i, a := range articles {
			ids[i] = a.ID
		}
		if userVotes, err := h.votes.UserVotesFor(user.ID, ids, models.TargetArticle); err == nil {
			response["userVotes"] = userVotes
		}
	}

	c.JSON(http.StatusOK, response)
}

// Trending handles GET /api/articles/trending
func (h *ArticleHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	articles, err := h.articles.Trending(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// Get handles GET /api/articles/:id
func (h *ArticleHandler) Get(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	article, err := h.articles.Get(articleID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"article": article}
	if user := auth.CurrentUser(c); user != nil {
		if userVote, err := h.votes.UserVote(user.ID, articleID, models.TargetArticle); err == nil {
			response["userVote"] = userVote
		}
	}

	c.JSON(http.StatusOK, response)
}

// Vote handles POST /api/articles/:id/vote
func (h *ArticleHandler) Vote(c *gin.Context) {
	user := auth.CurrentUser(c)

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var body struct {
		VoteType string `json:"voteType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.votes.CastArticleVote(user.ID, user.Username, articleID, body.VoteType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /api/articles/:id
func (h *ArticleHandler) Delete(c *gin.Context) {
	user := auth.CurrentUser(c)

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	if err := h.articles.Delete(user.ID, user.Role, articleID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
}
