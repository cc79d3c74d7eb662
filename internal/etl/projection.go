package etl

import (
	"fmt"
	"strings"
	"time"
)

// NormalizeGroupCode pads a group code to a fixed width with leading zeros.
// Administrators deliver the same group as "512", "0512" or "00512" depending
// on the file layout.
func NormalizeGroupCode(code string, width int) string {
	code = strings.TrimSpace(code)
	if len(code) >= width {
		return code
	}
	return strings.Repeat("0", width-len(code)) + code
}

// MonthsBetween counts whole months from a to b, day-adjusted the way
// dateutil's relativedelta does: the count only advances once the day of
// month has been reached.
func MonthsBetween(a, b time.Time) int {
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	return months
}

// GroupProjection is the schedule estimate computed from a staged row:
// assemblies held as of today and the projected closing date of the group.
type GroupProjection struct {
	AssembliesToday     int
	RemainingAssemblies int
	ClosingDate         time.Time
}

// ProjectGroup estimates where a group stands today. The staged row reports
// the assembly number as of its reference date; months elapsed since then are
// added to it, the contracted deadline gives the remainder, and the closing
// date is that many months into the future.
func ProjectGroup(today, referenceDate time.Time, currentAssembly, deadline int) (GroupProjection, error) {
	if deadline <= 0 {
		return GroupProjection{}, fmt.Errorf("group deadline must be positive, got %d", deadline)
	}

	elapsed := MonthsBetween(referenceDate, today)
	if elapsed < 0 {
		elapsed = 0
	}

	assembliesToday := currentAssembly + elapsed
	remaining := deadline - assembliesToday
	if remaining < 0 {
		remaining = 0
	}

	return GroupProjection{
		AssembliesToday:     assembliesToday,
		RemainingAssemblies: remaining,
		ClosingDate:         today.AddDate(0, remaining, 0),
	}, nil
}
