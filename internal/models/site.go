package models

import "time"

// Site is a physical school location. It owns classrooms, periods, weeks,
// inventory allocations and teams.
type Site struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Classroom belongs to a site. Code and name are each unique within a site.
type Classroom struct {
	ID     string `db:"id" json:"id"`
	SiteID string `db:"site_id" json:"site_id"`
	Code   string `db:"code" json:"code"`
	Name   string `db:"name" json:"name"`
}

// Week is a site week with an explicit list of working days. Holidays are
// excluded by omission rather than marked.
type Week struct {
	ID         string      `db:"id" json:"id"`
	SiteID     string      `db:"site_id" json:"site_id"`
	WeekNumber int         `db:"week_number" json:"week_number"`
	Days       []time.Time `db:"-" json:"days"`
}

// StartDate returns the earliest working day, or the zero time for an empty week.
func (w Week) StartDate() time.Time {
	if len(w.Days) == 0 {
		return time.Time{}
	}
	return w.Days[0]
}

// EndDate returns the latest working day, or the zero time for an empty week.
func (w Week) EndDate() time.Time {
	if len(w.Days) == 0 {
		return time.Time{}
	}
	return w.Days[len(w.Days)-1]
}
