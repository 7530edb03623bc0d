package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fintrackhq/fintrack_app/internal/core/domain"
	"github.com/fintrackhq/fintrack_app/internal/core/ports"
	"github.com/fintrackhq/fintrack_app/internal/dto"
)

// goalHandler handles HTTP requests related to savings goals and their
// contributions.
type goalHandler struct {
	goalService ports.GoalService
}

// registerGoalRoutes registers routes related to goals and contributions.
func registerGoalRoutes(rg *gin.RouterGroup, goalService ports.GoalService) {
	h := &goalHandler{goalService: goalService}

	goals := rg.Group("/goals")
	{
		goals.POST("", h.createGoal)
		goals.GET("", h.listGoals)
		goals.GET("/:id", h.getGoal)
		goals.PUT("/:id", h.updateGoal)
		goals.DELETE("/:id", h.deleteGoal)

		goals.POST("/:id/contributions", h.createContribution)
		goals.GET("/:id/contributions", h.listContributions)
		goals.PUT("/:id/contributions/:contributionID", h.updateContribution)
		goals.DELETE("/:id/contributions/:contributionID", h.deleteContribution)
	}
}

func goalResponse(g *domain.Goal) dto.GoalResponse {
	return dto.ToGoalResponse(g, domain.ComputeGoalProgress(g.TargetAmount, g.SavedAmount, g.Status))
}

func (h *goalHandler) createGoal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	goal, err := h.goalService.CreateGoal(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goalResponse(goal))
}

func (h *goalHandler) listGoals(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	goals, err := h.goalService.ListGoals(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	res := make([]dto.GoalResponse, len(goals))
	for i := range goals {
		res[i] = goalResponse(&goals[i])
	}
	c.JSON(http.StatusOK, res)
}

func (h *goalHandler) getGoal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	goal, err := h.goalService.GetGoal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalResponse(goal))
}

func (h *goalHandler) updateGoal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	goal, err := h.goalService.UpdateGoal(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, goalResponse(goal))
}

func (h *goalHandler) deleteGoal(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.goalService.DeleteGoal(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *goalHandler) createContribution(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	contribution, err := h.goalService.CreateContribution(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToContributionResponse(contribution))
}

func (h *goalHandler) listContributions(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	contributions, err := h.goalService.ListContributions(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListContributionResponse(contributions))
}

func (h *goalHandler) updateContribution(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	contribution, err := h.goalService.UpdateContribution(c.Request.Context(), userID, c.Param("id"), c.Param("contributionID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToContributionResponse(contribution))
}

func (h *goalHandler) deleteContribution(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if err := h.goalService.DeleteContribution(c.Request.Context(), userID, c.Param("id"), c.Param("contributionID")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
