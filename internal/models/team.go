package models

import "time"

// Team is a group of users at a site reserving together, with the subject
// they teach. A solo team is created lazily the first time a user with no
// team makes a reservation.
type Team struct {
	ID        string    `db:"id" json:"id"`
	SiteID    string    `db:"site_id" json:"site_id"`
	Subject   string    `db:"subject" json:"subject"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	MemberIDs []string  `db:"-" json:"member_ids"`
}

// HasMember reports whether the given user belongs to the team.
func (t Team) HasMember(userID string) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
