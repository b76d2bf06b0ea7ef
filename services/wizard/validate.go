package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"anchorsite/models"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateContact checks the details step in one pass: every violated
// field is reported together rather than one at a time.
func ValidateContact(d models.BookingDraft) FieldErrors {
	errs := FieldErrors{}

	if strings.TrimSpace(d.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(d.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}

	phone := strings.TrimSpace(d.Phone)
	if phone == "" {
		errs["phone"] = "Phone number is required"
	} else if !phonePattern.MatchString(phone) {
		errs["phone"] = "Invalid phone format"
	}

	if email := strings.TrimSpace(d.Email); email != "" && !emailPattern.MatchString(email) {
		errs["email"] = "Invalid email address"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidatePartySize enforces the in-flow bounds. Groups above the ceiling
// cannot be represented here and must phone the venue.
func ValidatePartySize(partySize int) FieldErrors {
	if partySize < minPartySize || partySize > maxPartySize {
		return FieldErrors{
			"partySize": fmt.Sprintf("Please select between %d and %d people", minPartySize, maxPartySize),
		}
	}
	return nil
}

// ValidateMenuSelections checks Sunday lunch completeness: one named guest
// with a main course from the fetched menu for every cover. Partial
// completion blocks the step with field-level errors.
func ValidateMenuSelections(selections []models.MenuSelection, partySize int, menu *models.SundayLunchMenu) FieldErrors {
	errs := FieldErrors{}

	if len(selections) != partySize {
		errs["menuSelections"] = fmt.Sprintf("A main course is required for each of the %d guests", partySize)
		return errs
	}

	available := make(map[string]bool, len(menu.Mains))
	for _, item := range menu.Mains {
		if item.IsAvailable {
			available[item.ID] = true
		}
	}

	for i, sel := range selections {
		if strings.TrimSpace(sel.GuestName) == "" {
			errs[fmt.Sprintf("menuSelections.%d.guestName", i)] = "Guest name is required"
		}
		if !available[sel.MenuItemID] {
			errs[fmt.Sprintf("menuSelections.%d.menuItemId", i)] = "Please choose a main course from the menu"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
