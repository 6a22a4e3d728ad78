package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/service"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/transport/middleware"
)

type HostHandler struct {
	hostService service.HostService
}

func NewHostHandler(hostService service.HostService) *HostHandler {
	return &HostHandler{hostService: hostService}
}

func (h *HostHandler) RequestHostAccess(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"max=2000"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	request, err := h.hostService.RequestHostAccess(c.Request.Context(), user.ID, req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *HostHandler) GetPendingRequests(c *gin.Context) {
	requests, err := h.hostService.GetPendingRequests(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

func (h *HostHandler) ReviewRequest(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.hostService.ReviewRequest(c.Request.Context(), middleware.CurrentUser(c), id, req.Approve)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reviewed"})
}

func (h *HostHandler) CreateInvite(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invite, err := h.hostService.CreateInvite(c.Request.Context(), middleware.CurrentUser(c), eventID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invite)
}

func (h *HostHandler) AcceptInvite(c *gin.Context) {
	user := middleware.CurrentUser(c)
	invite, err := h.hostService.AcceptInvite(c.Request.Context(), user.ID, c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invite)
}
