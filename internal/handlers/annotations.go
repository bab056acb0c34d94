package handlers

import (
	"net/http"

	"truthhub/internal/auth"
	"truthhub/internal/models"
	"truthhub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnnotationHandler handles HTTP requests for article annotations
type AnnotationHandler struct {
	annotations *services.AnnotationService
	votes       *services.VoteService
}

// NewAnnotationHandler creates a new annotation handler
func NewAnnotationHandler(annotations *services.AnnotationService, votes *services.VoteService) *AnnotationHandler {
	return &AnnotationHandler{annotations: annotations, votes: votes}
}

// Create handles POST /api/articles/:id/annotations
func (h *AnnotationHandler) Create(c *gin.Context) {
	user := auth.CurrentUser(c)

	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	var input services.AnnotationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	annotation, err := h.annotations.Create(user.ID, articleID, input)
	if err != nil {
		if err == services.ErrNotFound {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"annotation": annotation})
}

// ListForArticle handles GET /api/articles/:id/annotations
func (h *AnnotationHandler) ListForArticle(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid article ID"})
		return
	}

	annotations, err := h.annotations.ListForArticle(articleID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{"annotations": annotations}

	if user := auth.CurrentUser(c); user != nil && len(annotations) > 0 {
		ids := make([]uuid.UUID, len(annotations))
		for i, a := range annotations {
			ids[i] = a.ID
		}
		if userVotes, err := h.votes.UserVotesFor(user.ID, ids, models.TargetAnnotation); err == nil {
			response["userVotes"] = userVotes
		}
	}

	c.JSON(http.StatusOK, response)
}

// Delete handles DELETE /api/annotations/:id
func (h *AnnotationHandler) Delete(c *gin.Context) {
	user := auth.CurrentUser(c)

	annotationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid annotation ID"})
		return
	}

	if err := h.annotations.Delete(user.ID, user.Role, annotationID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Annotation deleted"})
}
