package api

import (
	"errors"   // Sentinel matching
	"fmt"      // Error wrapping
	"net/http" // HTTP status codes

	"foodgram/internal/media" // Image decoding errors
	"foodgram/internal/store" // Store sentinel errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// respondError maps store and media errors onto HTTP responses. Anything not
// recognised is logged and answered with a generic 500.
func respondError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrValidation), errors.Is(err, media.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	default:
		logrus.WithFields(logrus.Fields{
			"action": action,       // What was being attempted
			"path":   c.FullPath(), // Route template
			"error":  err.Error(),  // Error message
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action})
	}
}

// invalidRequest wraps a request-shape problem so it maps to 400
func invalidRequest(msg string) error {
	return fmt.Errorf("%s: %w", msg, store.ErrValidation)
}
