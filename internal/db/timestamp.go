package db

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// ErrConvertingValueIntoTimestamp is returned when a value cannot be converted into a Timestamp.
var ErrConvertingValueIntoTimestamp = errors.New("cannot convert value into Timestamp")

// Timestamp is a timestamp with millisecond precision, stored as INTEGER in SQLite.
//
//nolint:recvcheck // Mixing pointer receivers and value receivers is needed here because we are implementing sql.Scanner and driver.Valuer.
type Timestamp time.Time

// Scan converts a value to a Timestamp.
// Currently, only int64 values are supported.
func (t *Timestamp) Scan(value any) error {
	if value == nil {
		*t = Timestamp(time.Time{})

		return nil
	}

	ms, ok := value.(int64)
	if !ok {
		return fmt.Errorf("%w: %T", ErrConvertingValueIntoTimestamp, value)
	}

	*t = Timestamp(time.UnixMilli(ms).UTC())

	return nil
}

// Value converts a Timestamp to a value suitable for database storage.
func (t Timestamp) Value() (driver.Value, error) {
	return time.Time(t).UnixMilli(), nil
}

// Now returns the current time truncated to what a Timestamp can hold.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
