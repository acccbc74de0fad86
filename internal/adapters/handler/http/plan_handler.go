package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

type PlanHandler struct {
	tracker *services.ProgressTracker
}

func NewPlanHandler(tracker *services.ProgressTracker) *PlanHandler {
	return &PlanHandler{tracker: tracker}
}

type planSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	DurationDays   int    `json:"durationDays"`
	Progress       int    `json:"progress"`
	TotalTasks     int    `json:"totalTasks"`
	CompletedTasks int    `json:"completedTasks"`
}

type createPlanRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	StartBook    string `json:"start_book" binding:"required"`
	EndBook      string `json:"end_book" binding:"required"`
	DurationDays int    `json:"duration_days" binding:"required"`
}

type toggleResponse struct {
	Plan  *domain.ReadingPlan `json:"plan"`
	Stats domain.UserStats    `json:"stats"`
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/plans")
	{
		plans.GET("", h.List)
		plans.POST("", h.Create)
		plans.GET("/:id", h.Get)
		plans.GET("/:id/days/:day", h.Day)
		plans.POST("/:id/tasks/:taskId/toggle", h.Toggle)
	}
}

func (h *PlanHandler) List(c *gin.Context) {
	state, err := h.tracker.Snapshot(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	out := make([]planSummary, 0, len(state.Plans))
	for _, p := range state.Plans {
		out = append(out, planSummary{
			ID:             p.ID,
			Name:           p.Name,
			Description:    p.Description,
			DurationDays:   p.DurationDays,
			Progress:       p.Progress,
			TotalTasks:     len(p.Tasks),
			CompletedTasks: p.CompletedTasks(),
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.plan(c)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) Day(c *gin.Context) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day"})
		return
	}

	plan, err := h.plan(c)
	if err != nil {
		handleError(c, err)
		return
	}

	if day < 1 || day > plan.DurationDays {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day out of range"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"planId": plan.ID,
		"day":    day,
		"tasks":  plan.TasksForDay(day),
	})
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req createPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	plan, err := services.NewCustomPlan(services.CreatePlanInput{
		Name:         req.Name,
		Description:  req.Description,
		StartBook:    req.StartBook,
		EndBook:      req.EndBook,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	state, err := h.tracker.AddPlan(c.Request.Context(), plan)
	if err != nil {
		handleError(c, err)
		return
	}

	created, _ := state.Plan(plan.ID)
	c.JSON(http.StatusCreated, created)
}

// Toggle flips a task. Unknown plan or task ids leave state unchanged and
// still answer 200.
func (h *PlanHandler) Toggle(c *gin.Context) {
	planID := c.Param("id")

	state, err := h.tracker.ToggleTask(c.Request.Context(), planID, c.Param("taskId"))
	if err != nil {
		handleError(c, err)
		return
	}

	resp := toggleResponse{Stats: state.Stats}
	if plan, ok := state.Plan(planID); ok {
		resp.Plan = &plan
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) plan(c *gin.Context) (domain.ReadingPlan, error) {
	state, err := h.tracker.Snapshot(c.Request.Context())
	if err != nil {
		return domain.ReadingPlan{}, err
	}

	plan, ok := state.Plan(c.Param("id"))
	if !ok {
		return domain.ReadingPlan{}, domain.ErrPlanNotFound
	}
	return plan, nil
}
