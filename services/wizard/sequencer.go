package wizard

import (
	"time"

	"anchorsite/models"
)

// stepDescriptor is one entry of the wizard flow. Steps whose include
// predicate is unmet are absent from the active sequence entirely: never
// rendered, never counted, never reachable by navigation.
type stepDescriptor struct {
	Type    models.StepType
	Label   string
	include func(d models.BookingDraft, loc *time.Location) bool
}

// stepFlow is the single canonical ordering. The active subset is a pure
// function of (date-is-Sunday, bookingType); positions are recomputed from
// scratch on every draft mutation rather than tracked numerically.
var stepFlow = []stepDescriptor{
	{Type: models.StepDate, Label: "Select Date"},
	{Type: models.StepSundayOffer, Label: "Sunday Options", include: dateIsSunday},
	{Type: models.StepPartySize, Label: "Party Size"},
	{Type: models.StepMenuSelection, Label: "Menu Selection", include: wantsSundayLunch},
	{Type: models.StepTime, Label: "Select Time"},
	{Type: models.StepDetails, Label: "Your Details"},
	{Type: models.StepConfirm, Label: "Confirm"},
}

func dateIsSunday(d models.BookingDraft, loc *time.Location) bool {
	day, err := parseVenueDate(d.Date, loc)
	if err != nil {
		return false
	}
	return day.Weekday() == time.Sunday
}

func wantsSundayLunch(d models.BookingDraft, loc *time.Location) bool {
	return dateIsSunday(d, loc) && d.BookingType == models.BookingSundayLunch
}

// ActiveSteps computes the ordered active step sequence for a draft.
func ActiveSteps(d models.BookingDraft, loc *time.Location) []models.StepInfo {
	steps := make([]models.StepInfo, 0, len(stepFlow))
	for _, desc := range stepFlow {
		if desc.include != nil && !desc.include(d, loc) {
			continue
		}
		steps = append(steps, models.StepInfo{Type: desc.Type, Label: desc.Label})
	}
	return steps
}

// stepIndex returns the 0-based position of a step type in the sequence,
// or -1 when the step is not active.
func stepIndex(seq []models.StepInfo, t models.StepType) int {
	for i, s := range seq {
		if s.Type == t {
			return i
		}
	}
	return -1
}

// nextStep returns the step after current in the active sequence. From the
// terminal step (or an inactive one) it reports no transition.
func nextStep(seq []models.StepInfo, current models.StepType) (models.StepType, bool) {
	i := stepIndex(seq, current)
	if i < 0 || i+1 >= len(seq) {
		return current, false
	}
	return seq[i+1].Type, true
}

// prevStep returns the step before current in the active sequence.
func prevStep(seq []models.StepInfo, current models.StepType) (models.StepType, bool) {
	i := stepIndex(seq, current)
	if i <= 0 {
		return current, false
	}
	return seq[i-1].Type, true
}

// normalizeDraft drops data whose insertion condition no longer holds:
// picking a weekday after a Sunday lunch selection silently discards the
// booking type and menu choices rather than carrying them inconsistently.
func normalizeDraft(d *models.BookingDraft, loc *time.Location) {
	if !dateIsSunday(*d, loc) {
		d.BookingType = models.BookingRegular
		d.MenuSelections = nil
	}
	if d.BookingType != models.BookingSundayLunch {
		d.MenuSelections = nil
	}
}

// realignCursor reinterprets the cursor against a freshly computed
// sequence. If the step the user was on has disappeared, the cursor lands
// on the next active step in flow order, never on a stale numeric slot.
func realignCursor(seq []models.StepInfo, current models.StepType) models.StepType {
	if stepIndex(seq, current) >= 0 {
		return current
	}
	past := false
	for _, desc := range stepFlow {
		if desc.Type == current {
			past = true
			continue
		}
		if past && stepIndex(seq, desc.Type) >= 0 {
			return desc.Type
		}
	}
	return seq[0].Type
}

// parseVenueDate parses a YYYY-MM-DD date in the venue's calendar.
func parseVenueDate(date string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, loc)
}
