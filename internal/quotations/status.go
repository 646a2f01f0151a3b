package quotations

import "time"

// Status is a quotation lifecycle state. created, sent, accepted and
// rejected are set by users; about_to_expire and expired are derived from
// the validity date.
type Status string

const (
	StatusCreated       Status = "created"
	StatusSent          Status = "sent"
	StatusAccepted      Status = "accepted"
	StatusRejected      Status = "rejected"
	StatusAboutToExpire Status = "about_to_expire"
	StatusExpired       Status = "expired"
)

// aboutToExpireWindow is the number of days before the validity date at
// which a quotation starts alerting.
const aboutToExpireWindow = 2

var statusTable = map[Status]struct {
	color string
	label string
}{
	StatusCreated:       {"#f97316", "🟠 CREATED"},
	StatusAccepted:      {"#10b981", "🟢 ACCEPTED"},
	StatusAboutToExpire: {"#f59e0b", "🟡 ABOUT TO EXPIRE"},
	StatusExpired:       {"#ef4444", "🔴 EXPIRED"},
	StatusSent:          {"#3b82f6", "🔵 SENT"},
	StatusRejected:      {"#6b7280", "⚫ REJECTED"},
}

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

// Manual reports whether s is set by users rather than derived.
func (s Status) Manual() bool {
	switch s {
	case StatusCreated, StatusSent, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Color returns the display colour for s. Unknown states render with the
// created colour instead of failing.
func (s Status) Color() string {
	if meta, ok := statusTable[s]; ok {
		return meta.color
	}
	return statusTable[StatusCreated].color
}

// Label returns the display label for s.
func (s Status) Label() string {
	if meta, ok := statusTable[s]; ok {
		return meta.label
	}
	return statusTable[StatusCreated].label
}

// Validity is the derived view of where a quotation stands in its
// lifecycle.
type Validity struct {
	Status        Status
	DaysRemaining int
	Color         string
}

// DeriveValidity computes the effective state of a quotation.
//
// Manual states always win: the stored state is returned unchanged and
// only the remaining days are computed. Otherwise the validity date
// drives the result, and a quotation whose validity date is today counts
// as expired already, not as its last valid day.
func DeriveValidity(validUntil *time.Time, validityDays int, stored Status, today time.Time) Validity {
	if stored.Manual() {
		days := 0
		if validUntil != nil {
			days = daysBetween(today, *validUntil)
		}
		return Validity{Status: stored, DaysRemaining: days, Color: stored.Color()}
	}

	if validUntil == nil {
		return Validity{Status: StatusCreated, DaysRemaining: validityDays, Color: StatusCreated.Color()}
	}

	days := daysBetween(today, *validUntil)
	var status Status
	switch {
	case days <= 0:
		status = StatusExpired
	case days <= aboutToExpireWindow:
		status = StatusAboutToExpire
	default:
		status = stored
		if status == "" {
			status = StatusCreated
		}
	}
	return Validity{Status: status, DaysRemaining: days, Color: status.Color()}
}

// daysBetween counts whole calendar days from a to b, ignoring the time
// of day on both sides.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
