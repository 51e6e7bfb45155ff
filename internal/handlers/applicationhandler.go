package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/middleware"
	"github.com/justsurfingit/application-tracker/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
	Log          *slog.Logger
}

func NewApplicationHandler(a *services.ApplicationService, log *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{Applications: a, Log: log}
}

func (h *ApplicationHandler) Create(c *gin.Context) {
	var req dtos.ApplicationCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.Applications.CreateApplication(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) List(c *gin.Context) {
	apps, err := h.Applications.ListApplications(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, apps)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	app, err := h.Applications.GetApplication(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

// Update runs the status lifecycle: date stamping and, on entering offer,
// the Offer upsert.
func (h *ApplicationHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var patch dtos.ApplicationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}
	app, err := h.Applications.UpdateApplication(c.Request.Context(), id, middleware.UserID(c), &patch)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Applications.DeleteApplication(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ApplicationHandler) Stats(c *gin.Context) {
	stats, err := h.Applications.Stats(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
