package handlers

import (
	"net/http"

	"truthhub/internal/auth"
	"truthhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// VoteHandler handles the generic vote endpoint shared by articles and
// annotations
type VoteHandler struct {
	votes *services.VoteService
}

// NewVoteHandler creates a new vote handler
func NewVoteHandler(votes *services.VoteService) *VoteHandler {
	return &VoteHandler{votes: votes}
}

// Cast handles POST /api/votes/:id
func (h *VoteHandler) Cast(c *gin.Context) {
	user := auth.CurrentUser(c)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	var body struct {
		TargetType string `json:"targetType"`
		VoteType   string `json:"voteType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.votes.CastGenericVote(user.ID, targetID, body.TargetType, body.VoteType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Get handles GET /api/votes/:id, returning the caller's live vote on
// the target
func (h *VoteHandler) Get(c *gin.Context) {
	user := auth.CurrentUser(c)

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target ID"})
		return
	}

	targetType := c.Query("targetType")
	if targetType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "targetType query parameter required"})
		return
	}

	userVote, err := h.votes.UserVote(user.ID, targetID, targetType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"userVote": userVote})
}
