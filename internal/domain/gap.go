package domain

import "time"

const day = 24 * time.Hour

// DaysBetween returns the number of whole days from `from` to `to`, both taken in UTC.
// Fractional days are truncated toward zero and the result is negative when `to`
// is earlier than `from`.
func DaysBetween(from, to time.Time) int {
	return int(to.UTC().Sub(from.UTC()) / day)
}
