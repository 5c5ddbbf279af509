package booking

import (
	"errors"
	"time"
)

// The date picker hands over US-ordered text. The convention is fixed and
// explicit: the first field is the month, the second is the day, always.
const pickerDateLayout = "01/02/2006"

var ErrBadDate = errors.New("booking date must be MM/DD/YYYY")

// NormalizeBookingDate converts MM/DD/YYYY picker text into the RFC 3339
// instant the booking endpoint expects, at midnight UTC. "09/15/2024"
// becomes 2024-09-15T00:00:00Z; day-month-swapped input like "15/09/2024"
// is rejected rather than reinterpreted.
func NormalizeBookingDate(text string) (string, error) {
	t, err := time.ParseInLocation(pickerDateLayout, text, time.UTC)
	if err != nil {
		return "", ErrBadDate
	}
	return t.Format(time.RFC3339), nil
}
