package models

// SKUType categorises inventory items (e.g. "Chromebook cart", "Projector").
type SKUType struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// SKU is a catalog entry for one inventory item model. Units is the total
// count owned across all sites and must be at least 1.
type SKU struct {
	ID              string `db:"id" json:"id"`
	TypeID          string `db:"type_id" json:"type_id"`
	ModelIdentifier string `db:"model_identifier" json:"model_identifier"`
	DisplayName     string `db:"display_name" json:"display_name"`
	Units           int    `db:"units" json:"units"`
}

// SKUDetail enriches SKU with its type name and the unit count already
// assigned to sites.
type SKUDetail struct {
	SKU
	TypeName      string `db:"type_name" json:"type_name"`
	AssignedUnits int    `db:"assigned_units" json:"assigned_units"`
}

// SiteSKU assigns a number of a SKU's units to one site, together with the
// storage location those units rest at when not in a classroom. Unique per
// (site, sku); the sum of a SKU's site assignments never exceeds SKU.Units.
type SiteSKU struct {
	ID              string `db:"id" json:"id"`
	SiteID          string `db:"site_id" json:"site_id"`
	SKUID           string `db:"sku_id" json:"sku_id"`
	Units           int    `db:"units" json:"units"`
	StorageLocation string `db:"storage_location" json:"storage_location"`
}

// SiteSKUDetail enriches SiteSKU with catalog naming for display and planning.
type SiteSKUDetail struct {
	SiteSKU
	DisplayName     string `db:"display_name" json:"display_name"`
	ModelIdentifier string `db:"model_identifier" json:"model_identifier"`
	TypeID          string `db:"type_id" json:"type_id"`
	TypeName        string `db:"type_name" json:"type_name"`
}
