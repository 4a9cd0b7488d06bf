package fields

import (
	"strconv"
	"strings"
	"time"
)

// parseDate turns a DD/MM/YYYY-ish token into ISO YYYY-MM-DD, or nil when the
// token is not a real calendar date. Two-digit years are assumed to be 2000s.
func parseDate(token string) *string {
	parts := strings.FieldsFunc(token, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 3 {
		return nil
	}

	day, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return nil
	}
	yearStr := parts[2]
	if len(yearStr) == 2 {
		yearStr = "20" + yearStr
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return nil
	}

	// time.Date normalizes overflow (31/02 becomes 02/03), so an invalid
	// calendar date is one that doesn't round-trip.
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return nil
	}
	iso := d.Format("2006-01-02")
	return &iso
}
