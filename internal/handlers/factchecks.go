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

// FactCheckHandler handles HTTP requests for fact-checks
type FactCheckHandler struct {
	factChecks *services.FactCheckService
	votes      *services.VoteService
}

// NewFactCheckHandler creates a new fact-check handler
func NewFactCheckHandler(factChecks *services.FactCheckService, votes *services.VoteService) *FactCheckHandler {
	return &FactCheckHandler{factChecks: factChecks, votes: votes}
}

// Submit handles POST /api/articles/:id/factcheck
func (h *FactCheckHandler) Submit(c *gin.Context) {
	user := auth.CurrentUser(c)

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var sub services.FactCheckSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.factChecks.Submit(user.ID, articleID, sub)
	if err != nil {
		switch err {
		case services.ErrNotFound, services.ErrAlreadyFactChecked:
			respondError(c, err)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListForArticle handles GET /api/articles/:id/factchecks
func (h *FactCheckHandler) ListForArticle(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	factChecks, stats, err := h.factChecks.ListForArticle(articleID, c.Query("sortBy"), c.Query("order"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"factChecks": factChecks, "stats": stats}

	if user := auth.CurrentUser(c); user != nil && len(factChecks) > 0 {
		ids := make([]uuid.UUID, len(factChecks))
		for i, fc := range factChecks {
			ids[i] = fc.ID
		}
		if userVotes, err := h.votes.UserVotesFor(user.ID, ids, models.TargetFactCheck); err == nil {
			response["userVotes"] = userVotes
		}
	}

	c.JSON(http.StatusOK, response)
}

// Update handles PUT /api/factchecks/:factCheckId
func (h *FactCheckHandler) Update(c *gin.Context) {
	user := auth.CurrentUser(c)

	factCheckID, err := uuid.Parse(c.Param("factCheckId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fact-check ID"})
		return
	}

	var sub services.FactCheckSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	factCheck, err := h.factChecks.Update(user.ID, factCheckID, sub)
	if err != nil {
		switch err {
		case services.ErrNotFound, services.ErrNotOwner:
			respondError(c, err)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"factCheck": factCheck})
}

// Vote handles POST /api/factchecks/:factCheckId/vote
func (h *FactCheckHandler) Vote(c *gin.Context) {
	user := auth.CurrentUser(c)

	factCheckID, err := uuid.Parse(c.Param("factCheckId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fact-check ID"})
		return
	}

	var body struct {
		VoteType string `json:"voteType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.votes.CastFactCheckVote(user.ID, factCheckID, body.VoteType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/factchecks/:factCheckId
func (h *FactCheckHandler) Get(c *gin.Context) {
	factCheckID, err := uuid.Parse(c.Param("factCheckId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fact-check ID"})
		return
	}

	factCheck, err := h.factChecks.Get(factCheckID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"factCheck": factCheck})
}

// Trending handles GET /api/factchecks/trending
func (h *FactCheckHandler) Trending(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	factChecks, err := h.factChecks.Trending(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"factChecks": factChecks})
}

// Mine handles GET /api/factchecks/mine
func (h *FactCheckHandler) Mine(c *gin.Context) {
	user := auth.CurrentUser(c)
	limit, offset := pagination(c)

	factChecks, total, err := h.factChecks.ForReviewer(user.ID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"factChecks": factChecks, "total": total})
}
