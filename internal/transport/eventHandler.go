package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/service"
	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/transport/middleware"
)

type EventHandler struct {
	eventService service.EventService
}

func NewEventHandler(eventService service.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middleware.CurrentUser(c)
	event, err := h.eventService.CreateEvent(c.Request.Context(), user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	// Accept a numeric id or a slug in the same position.
	param := c.Param("id")
	if id, err := strconv.ParseInt(param, 10, 64); err == nil {
		event, err := h.eventService.GetEvent(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, event)
		return
	}

	event, err := h.eventService.GetEventBySlug(c.Request.Context(), param)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) GetPublishedEvents(c *gin.Context) {
	if title := c.Query("q"); title != "" {
		events, err := h.eventService.SearchEventsByTitle(c.Request.Context(), title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, events)
		return
	}

	events, err := h.eventService.GetPublishedEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetMyEvents(c *gin.Context) {
	user := middleware.CurrentUser(c)
	events, err := h.eventService.GetHostEvents(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) PublishEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.PublishEvent(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "published"})
}

func (h *EventHandler) UnpublishEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.UnpublishEvent(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unpublished"})
}

func (h *EventHandler) CancelEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.CancelEvent(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (h *EventHandler) GetOccurrences(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	occurrences, err := h.eventService.GetOccurrences(c.Request.Context(), id,
		c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"occurrences": occurrences})
}

func (h *EventHandler) GetSeriesView(c *gin.Context) {
	view, err := h.eventService.GetSeriesView(c.Request.Context(),
		c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *EventHandler) GetMapPins(c *gin.Context) {
	result, err := h.eventService.GetMapPins(c.Request.Context(),
		c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpsertOverride decodes the body twice: once as a raw map for the field
// allow-list, once as the typed patch. The raw pass is what lets the service
// reject unknown fields instead of dropping them.
func (h *EventHandler) UpsertOverride(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	dateKey := c.Param("date_key")

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	var rawFields map[string]any
	if err := json.Unmarshal(body, &rawFields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	var patch entity.OverridePatch
	if err := json.Unmarshal(body, &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	override, err := h.eventService.UpsertOverride(c.Request.Context(),
		middleware.CurrentUser(c), id, dateKey, rawFields, &patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, override)
}

func (h *EventHandler) GetOverrides(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	overrides, err := h.eventService.GetOverrides(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"overrides": overrides})
}

func (h *EventHandler) DeleteOverride(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	err := h.eventService.DeleteOverride(c.Request.Context(),
		middleware.CurrentUser(c), id, c.Param("date_key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *EventHandler) VerifyEvent(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.eventService.VerifyEvent(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}
