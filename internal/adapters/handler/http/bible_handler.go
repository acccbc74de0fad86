package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

type BibleHandler struct {
	svc *services.BibleService
}

func NewBibleHandler(svc *services.BibleService) *BibleHandler {
	return &BibleHandler{svc: svc}
}

func (h *BibleHandler) RegisterRoutes(r *gin.RouterGroup) {
	bible := r.Group("/bible")
	{
		bible.GET("/books", h.Books)
		bible.GET("/:book/:chapter", h.Chapter)
	}
}

func (h *BibleHandler) Books(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"books":          domain.Catalog,
		"versions":       domain.Versions,
		"defaultVersion": domain.DefaultVersion,
		"totalChapters":  domain.TotalChapters(),
	})
}

func (h *BibleHandler) Chapter(c *gin.Context) {
	chapter, err := strconv.Atoi(c.Param("chapter"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chapter"})
		return
	}

	view, err := h.svc.ReadChapter(c.Request.Context(), c.Param("book"), chapter, c.Query("version"))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
