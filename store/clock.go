package store

import "time"

// isoLayout is fixed-width (millisecond precision, explicit Z) so that
// lexicographic order over formatted timestamps is chronological order.
// RFC3339Nano would trim trailing zeros and break that.
const isoLayout = "2006-01-02T15:04:05.000Z"

func nowISO() string {
	return time.Now().UTC().Format(isoLayout)
}
