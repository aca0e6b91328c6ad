package models

import (
	"time"

	"github.com/whendid/whendid/internal/common"
)

// PartialTime is a timestamp with independently optional components: a record
// can carry just a year, a year and a month, a bare hour, and so on. A nil
// field means the component was not recorded.
type PartialTime struct {
	Year   *int `json:"year,omitempty"`
	Month  *int `json:"month,omitempty"`
	Day    *int `json:"day,omitempty"`
	Hour   *int `json:"hour,omitempty"`
	Minute *int `json:"minute,omitempty"`
	Second *int `json:"second,omitempty"`
}

// Defaults substituted for absent components when ordering.
const (
	defaultYear  = 2000
	defaultMonth = 1
	defaultDay   = 1
)

// IsEmpty reports whether no component is present.
func (pt PartialTime) IsEmpty() bool {
	return pt.Year == nil && pt.Month == nil && pt.Day == nil &&
		pt.Hour == nil && pt.Minute == nil && pt.Second == nil
}

// Validate enforces the presence rule (at least one component) and then the
// range of each present component, in the fixed order year, month, day, hour,
// minute, second. The first failing check wins. Day is only range-checked
// against 1-31; it is not validated against the month or year.
func (pt PartialTime) Validate() error {
	if pt.IsEmpty() {
		return common.ErrEmptyTimestamp
	}
	checks := []struct {
		name     string
		value    *int
		min, max int
	}{
		{"year", pt.Year, 1, 9999},
		{"month", pt.Month, 1, 12},
		{"day", pt.Day, 1, 31},
		{"hour", pt.Hour, 0, 23},
		{"minute", pt.Minute, 0, 59},
		{"second", pt.Second, 0, 59},
	}
	for _, c := range checks {
		if c.value != nil && (*c.value < c.min || *c.value > c.max) {
			return &common.InvalidFieldError{Field: c.name, Min: c.min, Max: c.max}
		}
	}
	return nil
}

// Normalize maps the partial value onto a concrete instant by filling absent
// components with defaults (2000-01-01 00:00:00, local time). The resulting
// instants order all partial times totally; values that only differ in absent
// components normalize to the same instant and compare equal. time.Date
// carries out-of-calendar combinations over instead of failing, so e.g.
// month=2, day=31 yields a day in early March.
func (pt PartialTime) Normalize() time.Time {
	return time.Date(
		intOr(pt.Year, defaultYear),
		time.Month(intOr(pt.Month, defaultMonth)),
		intOr(pt.Day, defaultDay),
		intOr(pt.Hour, 0),
		intOr(pt.Minute, 0),
		intOr(pt.Second, 0),
		0,
		time.Local,
	)
}

func intOr(p *int, fallback int) int {
	if p != nil {
		return *p
	}
	return fallback
}
