package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/middleware"
	"github.com/justsurfingit/application-tracker/internal/services"
)

type JobHandler struct {
	Parser     *services.ParserService
	JobService *services.JobService
	Log        *slog.Logger
}

func NewJobHandler(parser *services.ParserService, j *services.JobService, log *slog.Logger) *JobHandler {
	return &JobHandler{
		Parser:     parser,
		JobService: j,
		Log:        log,
	}
}

// ParseJob is POST /api/parse/jd. Parsing never fails once the input is
// valid; the AI path falls back to rules on its own.
func (h *JobHandler) ParseJob(c *gin.Context) {
	var req dtos.JobExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, h.Parser.Parse(c.Request.Context(), &req))
}

func (h *JobHandler) ParserHealth(c *gin.Context) {
	c.JSON(http.StatusOK, h.Parser.Health())
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	var req dtos.JobCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.JobService.CreateJob(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	jobs, err := h.JobService.ListJobs(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	job, err := h.JobService.GetJob(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.JobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.JobService.UpdateJob(c.Request.Context(), id, middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.JobService.DeleteJob(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
