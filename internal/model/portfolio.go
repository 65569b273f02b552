package model

import "time"

// Portfolio represents a portfolio from the database. UserID identifies the
// owner and is only consulted by the holdings recalculation ownership filter.
type Portfolio struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Name      string     `json:"name"`
	OpenDate  time.Time  `json:"openDate"`
	CloseDate *time.Time `json:"closeDate,omitempty"`
}
