package transport

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/samiserrag/denver-songwriters-collective-sub014/internal/entity"
)

// respondError maps service-layer sentinel errors onto HTTP statuses.
// Unrecognized errors log server-side and degrade to a generic 500; the
// message never leaks internals.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrEventNotFound),
		errors.Is(err, entity.ErrVenueNotFound),
		errors.Is(err, entity.ErrRSVPNotFound),
		errors.Is(err, entity.ErrSlotNotFound),
		errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrHostRequestNotFound),
		errors.Is(err, entity.ErrInviteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, entity.ErrUnauthorized),
		errors.Is(err, entity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, entity.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, entity.ErrSlugTaken),
		errors.Is(err, entity.ErrEmailTaken),
		errors.Is(err, entity.ErrEventHasRSVPs),
		errors.Is(err, entity.ErrEventHasClaims),
		errors.Is(err, entity.ErrEventNotDraft),
		errors.Is(err, entity.ErrEventCancelled),
		errors.Is(err, entity.ErrAlreadyRSVPed),
		errors.Is(err, entity.ErrSlotTaken),
		errors.Is(err, entity.ErrAlreadyHasSlot),
		errors.Is(err, entity.ErrSlotNotHeld),
		errors.Is(err, entity.ErrRequestAlreadyReviewed),
		errors.Is(err, entity.ErrInviteUsed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, entity.ErrInvalidDateKey),
		errors.Is(err, entity.ErrOverrideFieldDenied),
		errors.Is(err, entity.ErrInvalidInput),
		errors.Is(err, entity.ErrEventNotPublished),
		errors.Is(err, entity.ErrNoOfferToAccept),
		errors.Is(err, entity.ErrOfferExpired),
		errors.Is(err, entity.ErrInviteExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
