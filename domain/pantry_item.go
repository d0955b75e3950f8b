package domain

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/tidwall/gjson"
)

var (
	MessageSuccessAddProduct       = "product added to pantry successfully"
	MessageSuccessUpdatePantryItem = "pantry item updated successfully"
	MessageSuccessDeletePantryItem = "pantry item deleted successfully"
	MessageSuccessGetPantryItem    = "pantry item retrieved successfully"
	MessageSuccessGetDashboard     = "dashboard retrieved successfully"
	MessageAddProductForm          = "add product form"

	MessageFailedAddProduct       = "failed to add product"
	MessageFailedUpdatePantryItem = "failed to update pantry item"
	MessageFailedDeletePantryItem = "failed to delete pantry item"
	MessageFailedGetPantryItem    = "failed to retrieve pantry item"
	MessageFailedGetDashboard     = "failed to retrieve dashboard"

	MessageInvalidQuantity       = "Quantity must be a non-negative whole number"
	MessageInvalidExpirationDate = "Expiration date must use the YYYY-MM-DD format"
	MessageProductNameRequired   = "Product name is required"
	MessageQuantityRequired      = "Quantity is required"
	MessageExpirationRequired    = "Expiration date is required"

	MessageImageUploadUnavailable = "Image upload is not available"

	ErrPantryItemNotFound = errors.New("pantry item not found")
)

const (
	StatusSafe    = "Safe"
	StatusWarning = "Warning"
	StatusExpired = "Expired"
	StatusUndated = "Undated"
)

type (
	// Quantity is the raw quantity field of a form. JSON bodies may send it
	// as a number or a string; the service parses and checks it.
	Quantity string

	// AddProductRequest comes from the manual barcode form or the camera
	// scanner. Quantity is kept as text so a missing value can mean zero.
	AddProductRequest struct {
		Barcode        string   `json:"barcode" form:"barcode"`
		Quantity       Quantity `json:"quantity" form:"quantity"`
		ExpirationDate string   `json:"expiration_date" form:"expiration_date"`
	}

	UpdatePantryItemRequest struct {
		ProductName    string                `json:"product_name" form:"product_name" validate:"required"`
		Quantity       Quantity              `json:"quantity" form:"quantity" validate:"required"`
		ExpirationDate string                `json:"expiration_date" form:"expiration_date" validate:"required"`
		ImageURL       string                `json:"image_url" form:"image_url"`
		Image          *multipart.FileHeader `json:"-" form:"-"`
	}

	PantryItemResponse struct {
		ID             string    `json:"id"`
		OwnerUsername  string    `json:"owner_username"`
		Barcode        string    `json:"barcode"`
		ProductName    string    `json:"product_name"`
		ImageURL       string    `json:"image_url"`
		EcoScore       string    `json:"eco_score"`
		ExpirationDate string    `json:"expiration_date"`
		CO2Estimate    string    `json:"co2_estimate"`
		HasPalmOil     string    `json:"has_palm_oil"`
		IsVegan        string    `json:"is_vegan"`
		Quantity       int       `json:"quantity"`
		Status         string    `json:"status"`
		CreatedAt      time.Time `json:"created_at"`
		UpdatedAt      time.Time `json:"updated_at"`
	}

	AddProductResponse struct {
		Barcode         string `json:"barcode"`
		ExpirationDate  string `json:"expiration_date"`
		ProductName     string `json:"product_name"`
		QuantityAdded   int    `json:"quantity_added"`
		FoundInDatabase bool   `json:"found_in_database"`
	}

	DashboardStats struct {
		TotalItems        int `json:"total_items"`
		TotalQuantity     int `json:"total_quantity"`
		VeganItems        int `json:"vegan_items"`
		PalmOilFreeItems  int `json:"palm_oil_free_items"`
		ExpiringSoonItems int `json:"expiring_soon_items"`
		ExpiredItems      int `json:"expired_items"`
	}

	DashboardResponse struct {
		Username string               `json:"username"`
		Items    []PantryItemResponse `json:"items"`
		Stats    DashboardStats       `json:"stats"`
	}
)

func (q *Quantity) UnmarshalJSON(data []byte) error {
	value := gjson.ParseBytes(data)
	switch value.Type {
	case gjson.Null:
		*q = ""
	case gjson.String:
		*q = Quantity(value.Str)
	case gjson.Number:
		*q = Quantity(value.Raw)
	default:
		return fmt.Errorf("quantity must be a number or a string, got %s", value.Raw)
	}
	return nil
}

var AddProductFormFields = []FormField{
	{Name: "barcode", Hint: "leave empty for products outside the food database"},
	{Name: "quantity", Hint: "whole number, defaults to 0"},
	{Name: "expiration_date", Hint: "YYYY-MM-DD"},
}
