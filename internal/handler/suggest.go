package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goaltrack/backend/internal/service"
)

type SuggestHandler struct {
	svc *service.SuggestionService
}

func NewSuggestHandler(svc *service.SuggestionService) *SuggestHandler {
	return &SuggestHandler{svc: svc}
}

// SuggestTask godoc
// @Summary Suggest one task based on the user's goals
// @Tags suggestions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.TaskSuggestion
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/suggestions/task [post]
func (h *SuggestHandler) SuggestTask(c *gin.Context) {
	suggestion, err := h.svc.SuggestTask(c.Request.Context(), CurrentUser(c).ID)
	if err != nil {
		writeAuthError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestion)
}
