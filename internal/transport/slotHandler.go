package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/service"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/transport/middleware"
)

type SlotHandler struct {
	slotService service.SlotService
}

func NewSlotHandler(slotService service.SlotService) *SlotHandler {
	return &SlotHandler{slotService: slotService}
}

func (h *SlotHandler) CreateSlots(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.CreateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	slots, err := h.slotService.CreateSlots(c.Request.Context(),
		middleware.CurrentUser(c), eventID, c.Param("date_key"), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"slots": slots})
}

func (h *SlotHandler) GetSlots(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	slots, err := h.slotService.GetSlots(c.Request.Context(), eventID, c.Param("date_key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

func (h *SlotHandler) ClaimSlot(c *gin.Context) {
	slotID, ok := parseID(c, "slot_id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	slot, err := h.slotService.ClaimSlot(c.Request.Context(), slotID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, slot)
}

func (h *SlotHandler) UnclaimSlot(c *gin.Context) {
	slotID, ok := parseID(c, "slot_id")
	if !ok {
		return
	}

	user := middleware.CurrentUser(c)
	if err := h.slotService.UnclaimSlot(c.Request.Context(), slotID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SlotHandler) DeleteSlots(c *gin.Context) {
	eventID, ok := parseID(c, "id")
	if !ok {
		return
	}

	err := h.slotService.DeleteSlots(c.Request.Context(),
		middleware.CurrentUser(c), eventID, c.Param("date_key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
