package models

import "time"

// ProspectProduct records a prospect's interest in a product. It has no
// lifecycle of its own: rows disappear with either endpoint.
type ProspectProduct struct {
	ID         int64     `json:"id" db:"id"`
	ProspectID int64     `json:"prospect_id" db:"prospect_id"`
	ProductID  int64     `json:"product_id" db:"product_id"`
	AddedAt    time.Time `json:"added_at" db:"added_at"`
	Notes      *string   `json:"notes" db:"notes"`
}

// ProspectProductLink is the payload for linking a product to a prospect
type ProspectProductLink struct {
	ProductID int64   `json:"product_id" validate:"required"`
	Notes     *string `json:"notes"`
}
