package models

import "time"

// Event is a named thing a user tracks ("drink water", "call parents").
// Occurrences hang off it and are deleted with it.
type Event struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
