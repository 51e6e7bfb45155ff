package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/middleware"
	"github.com/justsurfingit/application-tracker/internal/services"
)

// AccountHandler serves sign-in, the user's profile and their activity log.
type AccountHandler struct {
	Auth     *services.AuthService
	Profile  *services.ProfileService
	Activity *services.ActivityService
	Log      *slog.Logger
}

func NewAccountHandler(a *services.AuthService, p *services.ProfileService, act *services.ActivityService, log *slog.Logger) *AccountHandler {
	return &AccountHandler{Auth: a, Profile: p, Activity: act, Log: log}
}

func (h *AccountHandler) Signup(c *gin.Context) {
	var req dtos.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tok, err := h.Auth.Signup(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

func (h *AccountHandler) Login(c *gin.Context) {
	var req dtos.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tok, err := h.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, tok)
}

func (h *AccountHandler) Me(c *gin.Context) {
	me, err := h.Auth.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, me)
}

func (h *AccountHandler) GetProfile(c *gin.Context) {
	u, err := h.Profile.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AccountHandler) ReplaceProfile(c *gin.Context) {
	var req dtos.ProfileReplaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Profile.ReplaceProfile(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AccountHandler) PatchProfile(c *gin.Context) {
	var req dtos.ProfilePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.Profile.PatchProfile(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.Profile.DeleteAccount(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) ListActivity(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit", "field": "limit"})
			return
		}
		limit = n
	}
	rows, err := h.Activity.List(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
