package sqlstore

import (
	"time"
)

// FormatTimeForDB normalizes a time.Time for storage: UTC, microsecond
// precision, so values round-trip identically through SQLite and Postgres.
func FormatTimeForDB(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

// FormatTimePtrForDB normalizes a *time.Time, returning nil if the pointer is nil
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}
