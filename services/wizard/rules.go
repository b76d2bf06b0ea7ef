package wizard

import (
	"fmt"
	"time"

	"anchorsite/models"
)

const (
	// Bookings can be made up to 30 days ahead, inclusive of today.
	bookingWindowDays = 30

	// Slots starting sooner than this from now are not honoured even if
	// the collaborator still lists them as available.
	sameDaySlotBuffer = 30 * time.Minute

	// Sunday roast pre-orders close at 13:00 on the preceding Saturday.
	roastCutoffHour = 13

	// Per-guest Sunday roast deposit, deducted from the final bill.
	depositPerGuest = 5.0

	minPartySize       = 1
	maxPartySize       = 20
	largeGroupAdvisory = 15
)

// WithinBookingWindow reports whether a date is selectable: between today
// and today+30 days inclusive, in the venue's calendar.
func WithinBookingWindow(date string, now time.Time, loc *time.Location) bool {
	day, err := parseVenueDate(date, loc)
	if err != nil {
		return false
	}
	today := startOfDay(now.In(loc))
	last := today.AddDate(0, 0, bookingWindowDays)
	return !day.Before(today) && !day.After(last)
}

// RoastCutoff returns the pre-order deadline for a target Sunday: 13:00
// venue-local on the Saturday immediately before it.
func RoastCutoff(sunday time.Time) time.Time {
	saturday := sunday.AddDate(0, 0, -1)
	return time.Date(saturday.Year(), saturday.Month(), saturday.Day(), roastCutoffHour, 0, 0, 0, saturday.Location())
}

// RoastPreorderOpen reports whether Sunday lunch can still be pre-ordered
// for the given date. Evaluated against the live clock on every check.
func RoastPreorderOpen(date string, now time.Time, loc *time.Location) bool {
	day, err := parseVenueDate(date, loc)
	if err != nil || day.Weekday() != time.Sunday {
		return false
	}
	return now.In(loc).Before(RoastCutoff(day))
}

// DepositAmount is the Sunday lunch deposit: a flat rate per guest,
// independent of which mains were chosen.
func DepositAmount(partySize int) float64 {
	return float64(partySize) * depositPerGuest
}

// TotalPrice sums the selections' captured prices. Display estimate only;
// the collaborator's billed amount is authoritative.
func TotalPrice(selections []models.MenuSelection) float64 {
	var total float64
	for _, s := range selections {
		total += s.PriceAtBooking
	}
	return total
}

// FilterTimeSlots drops unavailable slots, and for same-day bookings also
// drops any slot starting inside the safety buffer, regardless of what the
// collaborator reports.
func FilterTimeSlots(slots []models.TimeSlot, date string, now time.Time, loc *time.Location) []models.TimeSlot {
	day, err := parseVenueDate(date, loc)
	if err != nil {
		return nil
	}
	localNow := now.In(loc)
	isToday := startOfDay(localNow).Equal(day)
	earliest := localNow.Add(sameDaySlotBuffer)

	out := make([]models.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		if !slot.Available {
			continue
		}
		if isToday {
			start, err := slotStart(day, slot.Time)
			if err != nil || start.Before(earliest) {
				continue
			}
		}
		out = append(out, slot)
	}
	return out
}

// PartySizeAdvisory returns guidance for larger groups. Sizes of 15-19 get
// a soft recommendation to phone; the hard ceiling of 20 gets a stronger
// one, since in-flow capacity checks stop being meaningful there.
func PartySizeAdvisory(partySize int) string {
	switch {
	case partySize == maxPartySize:
		return fmt.Sprintf("For a group of %d please call us to arrange your booking so we can seat everyone together.", maxPartySize)
	case partySize >= largeGroupAdvisory:
		return "For the best experience with groups of 15 or more, we recommend calling us directly."
	default:
		return ""
	}
}

// slotKey identifies which (date, partySize) a cached slot set answers.
// A mismatch with the current draft marks the cache stale.
func slotKey(date string, partySize int) string {
	return fmt.Sprintf("%s|%d", date, partySize)
}

func slotStart(day time.Time, hhmm string) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
