package models

import (
	"sort"
	"time"
)

// Occurrence is a single logged instance of an Event. UserID duplicates the
// owning event's userId so access checks don't need an extra event lookup;
// events never change owner, so the copy is written once at creation.
type Occurrence struct {
	ID      string `json:"id"`
	EventID string `json:"eventId"`
	UserID  string `json:"userId"`
	PartialTime
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SortOccurrencesDesc orders occurrences by normalized time, most recent
// first. Equal normalized times fall back to creation time and then id, so
// listing order is deterministic across calls.
func SortOccurrencesDesc(occs []Occurrence) {
	sort.SliceStable(occs, func(i, j int) bool {
		ti, tj := occs[i].Normalize(), occs[j].Normalize()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		if !occs[i].CreatedAt.Equal(occs[j].CreatedAt) {
			return occs[i].CreatedAt.Before(occs[j].CreatedAt)
		}
		return occs[i].ID < occs[j].ID
	})
}

// FilterByDateRange keeps the occurrences whose normalized time falls inside
// the closed interval from start to the last instant of end's calendar day
// (23:59:59.999), so both boundary days are included. Input order is
// preserved; an empty result is fine.
func FilterByDateRange(occs []Occurrence, start, end time.Time) []Occurrence {
	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999e6, end.Location())
	filtered := make([]Occurrence, 0, len(occs))
	for _, occ := range occs {
		t := occ.Normalize()
		if !t.Before(start) && !t.After(endOfDay) {
			filtered = append(filtered, occ)
		}
	}
	return filtered
}
