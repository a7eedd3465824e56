package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// attachError records err on the context so the observability middleware can
// log the failure reason. c.Error returns *gin.Error rather than error, hence
// the blank assignment.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError writes the error body and records err for the request log.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	c.JSON(status, gin.H{"error": message})
}

// respondValidationError translates a binding failure into a 400 with
// per-field details.
func respondValidationError(c *gin.Context, err error) {
	attachError(c, err)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Validation failed",
		"details": ParseValidationErrors(err),
	})
}
