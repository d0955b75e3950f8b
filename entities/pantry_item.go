package entities

import (
	"github.com/google/uuid"
)

// TriState holds a yes/no answer that may be unknown when the product was
// not found in the external database.
type TriState string

const (
	TriStateYes     TriState = "yes"
	TriStateNo      TriState = "no"
	TriStateUnknown TriState = "unknown"
)

func TriStateOf(b bool) TriState {
	if b {
		return TriStateYes
	}
	return TriStateNo
}

// PantryItem is unique per (owner_username, barcode, expiration_date). An
// undated item carries an empty expiration date, never NULL, so repeated
// undated scans of one barcode share a row.
type PantryItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUsername  string    `gorm:"size:30;not null;uniqueIndex:idx_pantry_merge_key,priority:1" json:"owner_username"`
	Barcode        string    `gorm:"not null;uniqueIndex:idx_pantry_merge_key,priority:2" json:"barcode"`
	ExpirationDate string    `gorm:"size:10;not null;uniqueIndex:idx_pantry_merge_key,priority:3" json:"expiration_date"`
	ProductName    string    `json:"product_name"`
	ImageURL       string    `json:"image_url"`
	EcoScore       string    `json:"eco_score"`
	CO2Estimate    string    `gorm:"column:co2_estimate" json:"co2_estimate"`
	HasPalmOil     TriState  `gorm:"size:7;not null" json:"has_palm_oil"`
	IsVegan        TriState  `gorm:"size:7;not null" json:"is_vegan"`
	Quantity       int       `gorm:"not null;check:quantity >= 0" json:"quantity"`

	Timestamp
}
