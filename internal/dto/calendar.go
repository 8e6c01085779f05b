package dto

// CreatePeriodRequest adds one period to a site's calendar.
type CreatePeriodRequest struct {
	SiteID string `json:"site_id" validate:"required"`
	Number int    `json:"number" validate:"required,min=1"`
	Name   string `json:"name" validate:"required"`
}

// CreateClassroomRequest adds one classroom to a site.
type CreateClassroomRequest struct {
	SiteID string `json:"site_id" validate:"required"`
	Code   string `json:"code" validate:"required"`
	Name   string `json:"name" validate:"required"`
}

// CreateWeekRequest adds one site week. Dates use the 2006-01-02 layout;
// weekends are dropped automatically and holidays name additional non-working
// days inside the range.
type CreateWeekRequest struct {
	SiteID     string   `json:"site_id" validate:"required"`
	WeekNumber int      `json:"week_number" validate:"required,min=1"`
	StartDate  string   `json:"start_date" validate:"required"`
	EndDate    string   `json:"end_date" validate:"required"`
	Holidays   []string `json:"holidays,omitempty"`
}
