package model

import "time"

// MedicationEntry is a single reminder on the medication tracker.
type MedicationEntry struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"-"`
	Name       string    `json:"name"`
	Time       string    `json:"time"` // HH:MM, 24-hour
	Taken      bool      `json:"taken"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedDay string    `json:"-"` // YYYY-MM-DD in the tracker's location
}

// MedicationSummary counts today's doses.
type MedicationSummary struct {
	Taken int `json:"taken"`
	Total int `json:"total"`
}
