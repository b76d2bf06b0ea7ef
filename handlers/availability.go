package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"anchorsite/config"
	"anchorsite/models"
	"anchorsite/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AnchorAPI is the slice of the management API the public endpoints proxy.
type AnchorAPI interface {
	GetTimeSlots(ctx context.Context, date string, partySize int) ([]models.TimeSlot, error)
	GetSundayLunchMenu(ctx context.Context) (*models.SundayLunchMenu, error)
	GetBusinessHours(ctx context.Context) (*models.BusinessHours, error)
}

// AvailabilityHandler serves calendar/slot data for the booking UI.
type AvailabilityHandler struct {
	Anchor AnchorAPI
	Loc    *time.Location
	Logger *zap.Logger
}

func NewAvailabilityHandler(anchor AnchorAPI, loc *time.Location, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Anchor: anchor, Loc: loc, Logger: logger}
}

// GetAvailability answers date/party-size availability queries. Food
// bookings are first checked against the venue's kitchen hours: a day the
// pub is open but the kitchen is closed is drinks-only and not bookable
// through the wizard.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	date := c.Query("date")
	partySizeParam := c.Query("party_size")
	bookingType := c.Query("booking_type")

	if date == "" || partySizeParam == "" {
		utils.JSONError(c, http.StatusBadRequest,
			"Missing required parameters", "date and party_size are required")
		return
	}
	partySize, err := strconv.Atoi(partySizeParam)
	if err != nil || partySize < 1 {
		utils.JSONError(c, http.StatusBadRequest, "Invalid party_size", "")
		return
	}

	ctx := c.Request.Context()

	if bookingType == string(models.BookingSundayLunch) || bookingType == "food" {
		closed, note, err := h.kitchenClosed(ctx, date)
		if err != nil {
			h.Logger.Warn("business hours check failed", zap.Error(err), zap.String("date", date))
		} else if closed {
			message := note
			if message == "" {
				message = "Kitchen is closed on this day. Bar service only - please call " +
					config.AppConfig.VenuePhone + " for drinks-only reservations."
			}
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data": gin.H{
					"available":  false,
					"message":    message,
					"time_slots": []models.TimeSlot{},
				},
			})
			return
		}
	}

	slots, err := h.Anchor.GetTimeSlots(ctx, date, partySize)
	if err != nil {
		h.Logger.Error("availability lookup failed", zap.Error(err),
			zap.String("date", date), zap.Int("partySize", partySize))
		utils.JSONError(c, http.StatusServiceUnavailable,
			"We couldn't check table availability right now. Please try again or call us at "+
				config.AppConfig.VenuePhone+".", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"available":  len(slots) > 0,
			"time_slots": slots,
		},
	})
}

// kitchenClosed checks regular hours for the date's weekday plus any
// special closure on the exact date.
func (h *AvailabilityHandler) kitchenClosed(ctx context.Context, date string) (bool, string, error) {
	hours, err := h.Anchor.GetBusinessHours(ctx)
	if err != nil {
		return false, "", err
	}

	day, err := time.ParseInLocation("2006-01-02", date, h.Loc)
	if err != nil {
		return false, "", err
	}

	weekday := strings.ToLower(day.Weekday().String())
	dayHours, ok := hours.RegularHours[weekday]
	if !ok || dayHours.IsClosed || dayHours.Kitchen == nil || dayHours.Kitchen.IsClosed {
		return true, "", nil
	}

	for _, special := range hours.SpecialHours {
		if special.Date != date {
			continue
		}
		if special.IsClosed || special.Kitchen == nil || special.Kitchen.IsClosed {
			return true, special.Note, nil
		}
	}
	return false, "", nil
}
