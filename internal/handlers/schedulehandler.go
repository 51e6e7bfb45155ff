package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/middleware"
	"github.com/justsurfingit/application-tracker/internal/services"
)

// ScheduleHandler serves interviews and deadlines, the two dated records
// hanging off an application.
type ScheduleHandler struct {
	Interviews *services.InterviewService
	Deadlines  *services.DeadlineService
	Log        *slog.Logger
}

func NewScheduleHandler(iv *services.InterviewService, dl *services.DeadlineService, log *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{Interviews: iv, Deadlines: dl, Log: log}
}

func (h *ScheduleHandler) CreateInterview(c *gin.Context) {
	var req dtos.InterviewCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	iv, err := h.Interviews.CreateInterview(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, iv)
}

func (h *ScheduleHandler) ListInterviews(c *gin.Context) {
	out, err := h.Interviews.ListInterviews(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ScheduleHandler) GetInterview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	iv, err := h.Interviews.GetInterview(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (h *ScheduleHandler) UpdateInterview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.InterviewUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	iv, err := h.Interviews.UpdateInterview(c.Request.Context(), id, middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, iv)
}

func (h *ScheduleHandler) DeleteInterview(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Interviews.DeleteInterview(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ScheduleHandler) CreateDeadline(c *gin.Context) {
	var req dtos.DeadlineCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.Deadlines.CreateDeadline(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *ScheduleHandler) ListDeadlines(c *gin.Context) {
	out, err := h.Deadlines.ListDeadlines(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ScheduleHandler) UpdateDeadline(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.DeadlineUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, err := h.Deadlines.UpdateDeadline(c.Request.Context(), id, middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ScheduleHandler) DeleteDeadline(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Deadlines.DeleteDeadline(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
