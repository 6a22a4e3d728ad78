package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/service"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/transport/middleware"
)

type RSVPHandler struct {
	rsvpService service.RSVPService
}

func NewRSVPHandler(rsvpService service.RSVPService) *RSVPHandler {
	return &RSVPHandler{rsvpService: rsvpService}
}

func (h *RSVPHandler) RSVP(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	rsvp, err := h.rsvpService.RSVP(c.Request.Context(), eventID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rsvp)
}

func (h *RSVPHandler) CancelRSVP(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.rsvpService.CancelRSVP(c.Request.Context(), eventID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RSVPHandler) AcceptOffer(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	rsvp, err := h.rsvpService.AcceptOffer(c.Request.Context(), eventID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rsvp)
}

func (h *RSVPHandler) GetMyRSVPs(c *gin.Context) {
	user := middleware.CurrentUser(c)
	rsvps, err := h.rsvpService.GetUserRSVPs(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

func (h *RSVPHandler) GetEventRSVPs(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	rsvps, err := h.rsvpService.GetEventRSVPs(c.Request.Context(), middleware.CurrentUser(c), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

func (h *RSVPHandler) GetEventStats(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	stats, err := h.rsvpService.GetEventStats(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *RSVPHandler) GetAllRSVPs(c *gin.Context) {
	rsvps, err := h.rsvpService.GetAllRSVPs(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}
