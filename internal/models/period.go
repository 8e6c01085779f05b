package models

// Period is a named, numbered slice of the school day. Periods are totally
// ordered by number, ties broken by site.
type Period struct {
	ID     string `db:"id" json:"id"`
	SiteID string `db:"site_id" json:"site_id"`
	Number int    `db:"number" json:"number"`
	Name   string `db:"name" json:"name"`
}
