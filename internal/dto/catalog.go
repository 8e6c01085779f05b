package dto

// CreateSKUTypeRequest adds one catalog category.
type CreateSKUTypeRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateSKURequest adds one catalog item.
type CreateSKURequest struct {
	TypeID          string `json:"type_id" validate:"required"`
	ModelIdentifier string `json:"model_identifier" validate:"required"`
	DisplayName     string `json:"display_name" validate:"required"`
	Units           int    `json:"units" validate:"required,min=1"`
}

// CreateSiteSKURequest assigns catalog units to a site.
type CreateSiteSKURequest struct {
	SiteID          string `json:"site_id" validate:"required"`
	SKUID           string `json:"sku_id" validate:"required"`
	Units           int    `json:"units" validate:"required,min=1"`
	StorageLocation string `json:"storage_location,omitempty"`
}

// UpdateSiteSKURequest rewrites a site allocation.
type UpdateSiteSKURequest struct {
	Units           int    `json:"units" validate:"required,min=1"`
	StorageLocation string `json:"storage_location,omitempty"`
}
