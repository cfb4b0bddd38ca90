package evidence

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateRange is an extracted date constraint. Year and Month may be set
// independently: "2025" keeps the whole year, "March 2025" keeps one
// month, a bare "March" keeps that month in any year.
type DateRange struct {
	Year  int        // 0 when no year was found
	Month time.Month // 0 when no month was found
}

// IsZero reports whether no date constraint was found.
func (r DateRange) IsZero() bool { return r.Year == 0 && r.Month == 0 }

// Window returns the inclusive-exclusive UTC window for a fully specified
// range. ok is false for month-only ranges, which have no single window.
func (r DateRange) Window() (from, to time.Time, ok bool) {
	if r.Year == 0 {
		return time.Time{}, time.Time{}, false
	}
	if r.Month == 0 {
		from = time.Date(r.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return from, from.AddDate(1, 0, 0), true
	}
	from = time.Date(r.Year, r.Month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0), true
}

// Contains reports whether t falls inside the range. The zero time never
// matches; callers decide the fail-open behavior for undated evidence.
func (r DateRange) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	if from, to, ok := r.Window(); ok {
		return !t.Before(from) && t.Before(to)
	}
	// Month-only: match the month in any year.
	return t.Month() == r.Month
}

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// ExtractDateRange scans query text for a month name/abbreviation and a
// 4-digit year. The first of each found wins.
func ExtractDateRange(query string) DateRange {
	var r DateRange
	lower := strings.ToLower(query)

	if m := yearPattern.FindString(lower); m != "" {
		r.Year, _ = strconv.Atoi(m)
	}

	for _, word := range strings.FieldsFunc(lower, func(c rune) bool {
		return c < 'a' || c > 'z'
	}) {
		if month, ok := monthNames[word]; ok {
			r.Month = month
			break
		}
	}

	return r
}

// HasDateReference reports whether query text contains any month or year
// mention. Used by intent classification as well as the date filter.
func HasDateReference(query string) bool {
	return !ExtractDateRange(query).IsZero()
}
