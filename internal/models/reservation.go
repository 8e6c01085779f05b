package models

import "time"

// Reservation commits units of a site's SKU allocation to a classroom for one
// period on one date. Unique per (team, site_sku, classroom, date, period);
// immutable once created except for deletion.
type Reservation struct {
	ID            string    `db:"id" json:"id"`
	TeamID        string    `db:"team_id" json:"team_id"`
	SiteSKUID     string    `db:"site_sku_id" json:"site_sku_id"`
	ClassroomID   string    `db:"classroom_id" json:"classroom_id"`
	Date          time.Time `db:"date" json:"date"`
	PeriodID      string    `db:"period_id" json:"period_id"`
	Units         int       `db:"units" json:"units"`
	Purpose       string    `db:"purpose" json:"purpose"`
	Collaborative bool      `db:"collaborative" json:"collaborative"`
	CreatorID     string    `db:"creator_id" json:"creator_id"`
	Comment       string    `db:"comment" json:"comment"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// ReservationDetail enriches Reservation with the joined context the
// schedules and day views render.
type ReservationDetail struct {
	Reservation
	ClassroomCode  string `db:"classroom_code" json:"classroom_code"`
	ClassroomName  string `db:"classroom_name" json:"classroom_name"`
	PeriodNumber   int    `db:"period_number" json:"period_number"`
	PeriodName     string `db:"period_name" json:"period_name"`
	SKUDisplayName string `db:"sku_display_name" json:"sku_display_name"`
	TeamSubject    string `db:"team_subject" json:"team_subject"`
}

// ReservationFilter narrows reservation listings.
type ReservationFilter struct {
	SiteID    string
	SiteSKUID string
	TeamID    string
	Date      time.Time
	PeriodID  string
	Page      int
	PageSize  int
}
