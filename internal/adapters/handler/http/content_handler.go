package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

type ContentHandler struct {
	svc *services.ContentService
}

func NewContentHandler(svc *services.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

func (h *ContentHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/daily-pause", h.DailyPause)
	r.GET("/devotional", h.Devotional)
	r.GET("/devotional/themes", h.Themes)
}

func (h *ContentHandler) DailyPause(c *gin.Context) {
	pause, err := h.svc.DailyPause(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, pause)
}

func (h *ContentHandler) Devotional(c *gin.Context) {
	devotional, err := h.svc.Devotional(c.Request.Context(), c.Query("theme"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, devotional)
}

func (h *ContentHandler) Themes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"themes": domain.DevotionalThemes})
}
