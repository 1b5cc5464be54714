package internal

import (
	"fmt"
	"time"
)

// UrgentDays is the threshold at which a non-overdue payment is highlighted.
const UrgentDays = 3

// DefaultUpcomingDays is the default window for IsUpcoming.
const DefaultUpcomingDays = 7

// DueStatus classifies a payment date relative to now.
type DueStatus string

const (
	DueOverdue DueStatus = "overdue"
	DueToday   DueStatus = "due_today"
	DueSoon    DueStatus = "due_soon"
	DueLater   DueStatus = "later"
)

// calendarDay returns midnight UTC of t's calendar date as seen in loc.
// Using UTC for the result keeps day differences free of DST shifts.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the calendar-day difference paymentDate - now, evaluated
// in now's location. Negative values mean the date has passed.
func DaysUntil(paymentDate, now time.Time) int {
	loc := now.Location()
	diff := calendarDay(paymentDate, loc).Sub(calendarDay(now, loc))
	return int(diff.Hours() / 24)
}

// IsOverdue reports whether paymentDate is strictly before now.
func IsOverdue(paymentDate, now time.Time) bool {
	return paymentDate.Before(now)
}

// IsUpcoming reports whether paymentDate lies strictly between now and
// now + windowDays.
func IsUpcoming(paymentDate, now time.Time, windowDays int) bool {
	return paymentDate.After(now) && paymentDate.Before(now.AddDate(0, 0, windowDays))
}

// ClassifyDue buckets a payment date for display. A payment whose calendar
// date is today is DueToday even if its time of day has already passed.
func ClassifyDue(paymentDate, now time.Time, windowDays int) DueStatus {
	days := DaysUntil(paymentDate, now)
	switch {
	case days < 0:
		return DueOverdue
	case days == 0:
		return DueToday
	case IsUpcoming(paymentDate, now, windowDays):
		return DueSoon
	default:
		return DueLater
	}
}

// DueLabel renders a day offset the way the upcoming-payments list shows it.
func DueLabel(days int) string {
	switch {
	case days < 0:
		return fmt.Sprintf("%d days overdue", -days)
	case days == 0:
		return "Due today"
	case days == 1:
		return "1 day"
	default:
		return fmt.Sprintf("%d days", days)
	}
}
