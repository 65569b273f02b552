package repository

import (
	"database/sql"
	"fmt"
	"time"
)

// dateFormat is how DATE columns are written; SQLite compares them lexically,
// which matches chronological order for this layout.
const dateFormat = "2006-01-02"

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(dateFormat, str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// parseNullTime parses an optional DATE column into *time.Time.
func parseNullTime(str sql.NullString) (*time.Time, error) {
	if !str.Valid || str.String == "" {
		return nil, nil
	}
	t, err := ParseTime(str.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// formatNullTime renders an optional date for an optional DATE column.
func formatNullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(dateFormat)
}
