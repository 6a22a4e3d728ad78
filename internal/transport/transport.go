package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/transport/middleware"
)

type Handlers struct {
	Event *EventHandler
	RSVP  *RSVPHandler
	Slot  *SlotHandler
	Venue *VenueHandler
	User  *UserHandler
	Host  *HostHandler
}

func InitRoutes(h *Handlers, resolver middleware.UserResolver) *gin.Engine {

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Timeout(30))

	auth := middleware.Auth(resolver)

	api := router.Group("/api/v1")
	{
		// Public discovery surface
		api.GET("/series", h.Event.GetSeriesView)
		api.GET("/map-pins", h.Event.GetMapPins)

		events := api.Group("/events")
		{
			events.GET("", h.Event.GetPublishedEvents)
			events.GET("/:id", h.Event.GetEvent)
			events.GET("/:id/occurrences", h.Event.GetOccurrences)
			events.GET("/:id/stats", h.RSVP.GetEventStats)
			events.GET("/:id/slots/:date_key", h.Slot.GetSlots)

			// Attendance requires a session
			events.POST("/:id/rsvp", auth, h.RSVP.RSVP)
			events.DELETE("/:id/rsvp", auth, h.RSVP.CancelRSVP)
			events.POST("/:id/rsvp/accept", auth, h.RSVP.AcceptOffer)
		}

		slots := api.Group("/slots", auth)
		{
			slots.POST("/:slot_id/claim", h.Slot.ClaimSlot)
			slots.DELETE("/:slot_id/claim", h.Slot.UnclaimSlot)
		}

		// Host event management
		myEvents := api.Group("/my-events", auth, middleware.RequireHost())
		{
			myEvents.GET("", h.Event.GetMyEvents)
			myEvents.POST("", h.Event.CreateEvent)
			myEvents.PATCH("/:id", h.Event.UpdateEvent)
			myEvents.DELETE("/:id", h.Event.DeleteEvent)
			myEvents.POST("/:id/publish", h.Event.PublishEvent)
			myEvents.POST("/:id/unpublish", h.Event.UnpublishEvent)
			myEvents.POST("/:id/cancel", h.Event.CancelEvent)
			myEvents.GET("/:id/rsvps", h.RSVP.GetEventRSVPs)

			myEvents.GET("/:id/overrides", h.Event.GetOverrides)
			myEvents.PUT("/:id/overrides/:date_key", h.Event.UpsertOverride)
			myEvents.DELETE("/:id/overrides/:date_key", h.Event.DeleteOverride)

			myEvents.POST("/:id/slots/:date_key", h.Slot.CreateSlots)
			myEvents.DELETE("/:id/slots/:date_key", h.Slot.DeleteSlots)

			myEvents.POST("/:id/invites", h.Host.CreateInvite)
		}

		venues := api.Group("/venues")
		{
			venues.GET("", h.Venue.GetAllVenues)
			venues.GET("/:id", h.Venue.GetVenue)
			venues.GET("/:id/directions", h.Venue.GetDirections)
			venues.POST("", auth, middleware.RequireHost(), h.Venue.CreateVenue)
			venues.PATCH("/:id", auth, h.Venue.UpdateVenue)
			venues.DELETE("/:id", auth, h.Venue.DeleteVenue)
		}

		users := api.Group("/users")
		{
			users.POST("/register", h.User.Register)
			users.POST("/login", h.User.Login)

			me := users.Group("/me", auth)
			{
				me.GET("", h.User.Me)
				me.POST("/telegram", h.User.LinkTelegram)
				me.GET("/rsvps", h.RSVP.GetMyRSVPs)
				me.GET("/notifications", h.User.GetNotifications)
				me.POST("/notifications/:id/read", h.User.MarkNotificationRead)
				me.GET("/preferences", h.User.GetPreferences)
				me.PUT("/preferences", h.User.SavePreferences)
			}
		}

		api.POST("/host-requests", auth, h.Host.RequestHostAccess)
		api.POST("/invites/:token/accept", auth, h.Host.AcceptInvite)

		admin := api.Group("/admin", auth, middleware.RequireAdmin())
		{
			admin.GET("/host-requests", h.Host.GetPendingRequests)
			admin.POST("/host-requests/:id/review", h.Host.ReviewRequest)
			admin.GET("/rsvps", h.RSVP.GetAllRSVPs)
			admin.GET("/users", h.User.GetAllUsers)
			admin.POST("/events/:id/verify", h.Event.VerifyEvent)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
