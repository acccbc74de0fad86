package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

// StateHandler serves the whole-state operations: export and reset.
type StateHandler struct {
	tracker *services.ProgressTracker
	sync    *services.PersistenceSync
	now     func() time.Time
}

func NewStateHandler(tracker *services.ProgressTracker, sync *services.PersistenceSync) *StateHandler {
	return &StateHandler{
		tracker: tracker,
		sync:    sync,
		now:     time.Now,
	}
}

func (h *StateHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/export", h.Export)
	r.POST("/reset", h.Reset)
}

func (h *StateHandler) Export(c *gin.Context) {
	state, err := h.tracker.Snapshot(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	now := h.now()
	data, err := services.MarshalExport(services.BuildExport(state, now))
	if err != nil {
		handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", services.ExportFileName(now)))
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// Reset replaces all progress with the freshly generated catalog and
// default stats. Cached chapter text is kept.
func (h *StateHandler) Reset(c *gin.Context) {
	defaults, err := h.sync.Defaults()
	if err != nil {
		handleError(c, err)
		return
	}

	state, err := h.tracker.Reset(c.Request.Context(), defaults)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "reset",
		"plans":  len(state.Plans),
		"stats":  state.Stats,
	})
}
