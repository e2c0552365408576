package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/smart-flashcard-backend/logger"
	"github.com/vnkhanh/smart-flashcard-backend/services"
)

// respondError maps service errors onto HTTP statuses. Storage and unknown
// faults are logged and answered with a generic message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "field": ve.Field})
	case errors.Is(err, services.ErrDuplicateFlashcard):
		c.JSON(http.StatusConflict, gin.H{"error": services.ErrDuplicateFlashcard.Error()})
	default:
		if !errors.Is(err, services.ErrStorage) && log != nil {
			log.Error("unhandled error", "path", c.FullPath(), "error", err)
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}
