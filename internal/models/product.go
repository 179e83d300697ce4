package models

import "time"

type Product struct {
	ID               int64     `json:"id" db:"id"`
	ItemNumber       string    `json:"item_number" db:"item_number"`
	Name             string    `json:"name" db:"name"`
	ShortDescription *string   `json:"short_description" db:"short_description"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ProductCreate is the payload accepted when registering a catalog item
type ProductCreate struct {
	ItemNumber       string  `json:"item_number" validate:"required,min=1,max=100"` // SKU, unique across the catalog
	Name             string  `json:"name" validate:"required,min=1,max=255"`
	ShortDescription *string `json:"short_description"`
}

// ProductUpdate carries a sparse set of product fields; absent fields are left untouched
type ProductUpdate struct {
	ItemNumber       Optional[string] `json:"item_number" validate:"omitempty,min=1,max=100"`
	Name             Optional[string] `json:"name" validate:"omitempty,min=1,max=255"`
	ShortDescription Optional[string] `json:"short_description"`
}

// NullViolations lists the NOT NULL columns the payload tries to clear
func (u *ProductUpdate) NullViolations() []string {
	var fields []string
	if u.ItemNumber.IsNull() {
		fields = append(fields, "item_number")
	}
	if u.Name.IsNull() {
		fields = append(fields, "name")
	}
	return fields
}

// Changes returns the column/value pairs present in the payload
func (u *ProductUpdate) Changes() map[string]any {
	changes := make(map[string]any)
	if u.ItemNumber.IsSet() {
		changes["item_number"] = u.ItemNumber.Value
	}
	if u.Name.IsSet() {
		changes["name"] = u.Name.Value
	}
	if u.ShortDescription.IsSet() {
		changes["short_description"] = u.ShortDescription.Ptr()
	}
	return changes
}
