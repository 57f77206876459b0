package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/service"
)

// abortWithError maps service errors to HTTP outcomes: validation and
// self-follow to 400, missing rows to 404, duplicate relations to 409,
// author mismatch to 403, everything else to an opaque 500.
func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrAlreadyExists):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotAuthor):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrSelfFollow),
		errors.Is(err, service.ErrNameTooLong),
		errors.Is(err, service.ErrUnknownTag),
		errors.Is(err, service.ErrUnknownIngredient),
		errors.Is(err, service.ErrDuplicateIngredient),
		errors.Is(err, service.ErrNonPositiveAmount):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.Printf("request failed: %v", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
