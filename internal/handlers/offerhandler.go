package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/application-tracker/internal/dtos"
	"github.com/justsurfingit/application-tracker/internal/middleware"
	"github.com/justsurfingit/application-tracker/internal/services"
)

type OfferHandler struct {
	Offers *services.OfferService
	Log    *slog.Logger
}

func NewOfferHandler(o *services.OfferService, log *slog.Logger) *OfferHandler {
	return &OfferHandler{Offers: o, Log: log}
}

func (h *OfferHandler) Create(c *gin.Context) {
	var req dtos.OfferCreationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	offer, err := h.Offers.CreateOffer(c.Request.Context(), middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.Offers.ListOffers(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *OfferHandler) ListByApplication(c *gin.Context) {
	appID, ok := idParam(c, "application_id")
	if !ok {
		return
	}
	offers, err := h.Offers.ListByApplication(c.Request.Context(), middleware.UserID(c), appID)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *OfferHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	offer, err := h.Offers.GetOffer(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dtos.OfferUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	offer, err := h.Offers.UpdateOffer(c.Request.Context(), id, middleware.UserID(c), &req)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Offers.DeleteOffer(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
