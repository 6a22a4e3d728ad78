package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/service"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/transport/middleware"
)

type VenueHandler struct {
	venueService service.VenueService
}

func NewVenueHandler(venueService service.VenueService) *VenueHandler {
	return &VenueHandler{venueService: venueService}
}

func (h *VenueHandler) CreateVenue(c *gin.Context) {
	var req service.CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venue, err := h.venueService.CreateVenue(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, venue)
}

func (h *VenueHandler) GetVenue(c *gin.Context) {
	param := c.Param("id")
	if id, err := strconv.ParseInt(param, 10, 64); err == nil {
		venue, err := h.venueService.GetVenue(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, venue)
		return
	}

	venue, err := h.venueService.GetVenueBySlug(c.Request.Context(), param)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandler) GetAllVenues(c *gin.Context) {
	venues, err := h.venueService.GetAllVenues(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"venues": venues})
}

func (h *VenueHandler) UpdateVenue(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	venue, err := h.venueService.UpdateVenue(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venue)
}

func (h *VenueHandler) DeleteVenue(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.venueService.DeleteVenue(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VenueHandler) GetDirections(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	url, err := h.venueService.GetDirectionsURL(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"directions_url": url})
}
