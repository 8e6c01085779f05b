package dto

// CreateReservationRequest books units of one site allocation into one
// classroom for every (date, period) combination in the request. The batch is
// all-or-nothing.
type CreateReservationRequest struct {
	SiteSKUID     string   `json:"site_sku_id" validate:"required"`
	ClassroomID   string   `json:"classroom_id" validate:"required"`
	Dates         []string `json:"dates" validate:"required,min=1,dive,required"`
	PeriodIDs     []string `json:"period_ids" validate:"required,min=1,dive,required"`
	Units         int      `json:"units" validate:"required,min=1"`
	Purpose       string   `json:"purpose" validate:"required"`
	Collaborative bool     `json:"collaborative"`
	Comment       string   `json:"comment,omitempty"`
}

// AvailabilityQuery asks how many units of an allocation are free in one slot.
type AvailabilityQuery struct {
	SiteSKUID string `form:"site_sku_id" validate:"required"`
	Date      string `form:"date" validate:"required"`
	PeriodID  string `form:"period_id" validate:"required"`
}

// PickAllocationRequest asks which allocation to suggest for a booking that
// starts in the selected period.
type PickAllocationRequest struct {
	SiteID   string `json:"site_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	PeriodID string `json:"period_id" validate:"required"`
	TypeID   string `json:"type_id,omitempty"`
}
