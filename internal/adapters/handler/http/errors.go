package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownBook),
		errors.Is(err, domain.ErrChapterOutOfRange),
		errors.Is(err, domain.ErrUnknownVersion),
		errors.Is(err, domain.ErrInvalidDuration),
		errors.Is(err, domain.ErrReversedRange),
		errors.Is(err, domain.ErrPlanNameEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, domain.ErrPlanNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})

	case errors.Is(err, domain.ErrProviderFailure), errors.Is(err, domain.ErrMalformedContent):
		log.Printf("[ERROR] Provider call for %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "content is unavailable right now, please try again"})

	case errors.Is(err, domain.ErrEmptyExport):
		log.Printf("[ERROR] Export produced an empty document")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})

	case errors.Is(err, services.ErrTrackerStopped), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service is shutting down"})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
