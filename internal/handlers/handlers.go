package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"truthhub/internal/services"

	"github.com/gin-gonic/gin"
)

// pagination parses limit/page query params into limit and offset
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// respondError maps service sentinel errors to HTTP statuses. Unknown
// errors become 500s with the message hidden behind details.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrOwnContent):
		c.JSON(http.StatusForbidden, gin.H{
			"error":        "You cannot vote on your own content",
			"isOwnContent": true,
		})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to modify this content"})
	case errors.Is(err, services.ErrDiscussionLocked):
		c.JSON(http.StatusForbidden, gin.H{"error": "This discussion is locked"})
	case errors.Is(err, services.ErrAlreadyFactChecked),
		errors.Is(err, services.ErrInvalidVoteType),
		errors.Is(err, services.ErrInvalidTargetType):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"details": err.Error(),
		})
	}
}
