package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goaltrack/backend/internal/model"
	"github.com/goaltrack/backend/internal/service"
	"github.com/google/uuid"
)

type GoalHandler struct {
	svc *service.GoalService
}

func NewGoalHandler(svc *service.GoalService) *GoalHandler {
	return &GoalHandler{svc: svc}
}

// List godoc
// @Summary List the current user's goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Goal
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.svc.List(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, goals)
}

// Create godoc
// @Summary Create a goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateGoalRequest true "Goal content and duration"
// @Success 200 {object} model.Goal
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	var req model.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	goal, err := h.svc.Create(c.Request.Context(), CurrentUser(c).ID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Update godoc
// @Summary Partially update a goal
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal id"
// @Param request body model.UpdateGoalRequest true "Fields to update"
// @Success 200 {object} model.Goal
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/goals/{id} [patch]
func (h *GoalHandler) Update(c *gin.Context) {
	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid goal id"})
		return
	}

	var req model.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}

	goal, err := h.svc.Update(c.Request.Context(), CurrentUser(c).ID, goalID, req)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Complete godoc
// @Summary Mark a goal completed
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal id"
// @Success 200 {object} model.Goal
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/goals/{id}/complete [post]
func (h *GoalHandler) Complete(c *gin.Context) {
	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid goal id"})
		return
	}

	goal, err := h.svc.Complete(c.Request.Context(), CurrentUser(c).ID, goalID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}

// Delete godoc
// @Summary Delete a goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param id path string true "Goal id"
// @Success 200 {object} model.Goal
// @Failure 401 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /api/v1/goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	goalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid goal id"})
		return
	}

	goal, err := h.svc.Delete(c.Request.Context(), CurrentUser(c).ID, goalID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}
