package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

type StatsHandler struct {
	tracker *services.ProgressTracker
}

func NewStatsHandler(tracker *services.ProgressTracker) *StatsHandler {
	return &StatsHandler{tracker: tracker}
}

type updateNameRequest struct {
	Name string `json:"name"`
}

func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats", h.Get)
	r.PUT("/stats/name", h.UpdateName)
	r.GET("/stats/history", h.History)
}

func (h *StatsHandler) Get(c *gin.Context) {
	state, err := h.tracker.Snapshot(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, state.Stats)
}

// UpdateName stores the trimmed name. A blank name restores the placeholder.
func (h *StatsHandler) UpdateName(c *gin.Context) {
	var req updateNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	stats, err := h.tracker.UpdateUserName(c.Request.Context(), req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// History returns reading history aggregated per day, optionally limited to
// [start_date, end_date].
func (h *StatsHandler) History(c *gin.Context) {
	var startDate, endDate time.Time
	var err error

	if s := c.Query("start_date"); s != "" {
		if startDate, err = time.Parse(domain.DateLayout, s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date format, expected YYYY-MM-DD"})
			return
		}
	}
	if s := c.Query("end_date"); s != "" {
		if endDate, err = time.Parse(domain.DateLayout, s); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date format, expected YYYY-MM-DD"})
			return
		}
	}
	if !startDate.IsZero() && !endDate.IsZero() && startDate.After(endDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_date cannot be after end_date"})
		return
	}

	state, err := h.tracker.Snapshot(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	days := []domain.HistoryEntry{}
	total := 0
	for _, e := range domain.AggregateHistory(state.Stats.History) {
		if !startDate.IsZero() && e.Date < startDate.Format(domain.DateLayout) {
			continue
		}
		if !endDate.IsZero() && e.Date > endDate.Format(domain.DateLayout) {
			continue
		}
		days = append(days, e)
		total += e.Chapters
	}

	c.JSON(http.StatusOK, gin.H{
		"days":          days,
		"totalChapters": total,
		"streak":        state.Stats.Streak,
	})
}
