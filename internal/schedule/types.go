package schedule

// Location is a place units can sit: a classroom, or the allocation's storage
// location modelled as a synthetic location so the planner needs no special
// cases.
type Location struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Storage bool   `json:"storage,omitempty"`
}

// StorageLocation builds the synthetic at-rest location for an allocation.
func StorageLocation(name string) Location {
	return Location{Name: name, Storage: true}
}

func (l Location) key() string {
	if l.Storage {
		return "~storage"
	}
	return l.ID
}

// Demand is one reservation's unit requirement for a base period, snapshotted
// out of the ledger before planning.
type Demand struct {
	ReservationID string
	PeriodNumber  int
	Units         int
	Destination   Location
	Note          string
}

// Allocation is the planning snapshot of one site SKU: its unit count, its
// storage location and the day's demands against it.
type Allocation struct {
	ID              string
	SKUName         string
	Units           int
	StorageLocation string
	Demands         []Demand
}

// Movement is a single physical transfer of units of one allocation between
// two locations within one movement period.
type Movement struct {
	AllocationID string   `json:"allocation_id"`
	SKUName      string   `json:"sku_name"`
	Units        int      `json:"units"`
	Origin       Location `json:"origin"`
	Destination  Location `json:"destination"`
	Note         string   `json:"note,omitempty"`
}

// PeriodMovements pairs a movement period with its ordered transfers.
type PeriodMovements struct {
	Period    `json:"period"`
	Movements []Movement `json:"movements"`
}

// ShortfallWarning records a demand the planner could not source units for.
// This is reporting, not an error: the rest of the plan still computes.
type ShortfallWarning struct {
	AllocationID  string         `json:"allocation_id"`
	SKUName       string         `json:"sku_name"`
	ReservationID string         `json:"reservation_id"`
	PeriodNumber  int            `json:"period_number"`
	Destination   Location       `json:"destination"`
	UnitsShort    int            `json:"units_short"`
	Distribution  map[string]int `json:"distribution"`
}

// Plan is the full movement schedule for one site and date.
type Plan struct {
	Periods  []PeriodMovements  `json:"periods"`
	Warnings []ShortfallWarning `json:"warnings,omitempty"`
}
