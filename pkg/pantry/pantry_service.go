package pantry

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/entities"
	"Markit-Pantry/internal/utils/storage"
	"Markit-Pantry/pkg/openfoodfacts"
	"Markit-Pantry/pkg/product"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

const warningWindowDays = 3

type (
	PantryService interface {
		AddProduct(ctx context.Context, owner string, req domain.AddProductRequest) (domain.AddProductResponse, error)
		GetDashboard(ctx context.Context, owner string) (domain.DashboardResponse, error)
		ListItems(ctx context.Context, owner string) ([]domain.PantryItemResponse, error)
		GetItem(ctx context.Context, id string) (domain.PantryItemResponse, error)
		UpdateItem(ctx context.Context, owner, id string, req domain.UpdatePantryItemRequest) error
		DeleteItem(ctx context.Context, owner, id string) error
	}

	pantryService struct {
		pantryRepository PantryRepository
		lookup           openfoodfacts.ProductLookup
		s3               storage.AwsS3
		now              func() time.Time
	}
)

// NewPantryService wires the service. s3 may be nil when image uploads are
// not configured.
func NewPantryService(pantryRepository PantryRepository, lookup openfoodfacts.ProductLookup, s3 storage.AwsS3) PantryService {
	return &pantryService{
		pantryRepository: pantryRepository,
		lookup:           lookup,
		s3:               s3,
		now:              time.Now,
	}
}

func (s *pantryService) AddProduct(ctx context.Context, owner string, req domain.AddProductRequest) (domain.AddProductResponse, error) {
	barcode := strings.TrimSpace(req.Barcode)
	expirationDate := strings.TrimSpace(req.ExpirationDate)

	errs := domain.NewValidationErrors()
	quantity, ok := parseQuantity(string(req.Quantity), true)
	if !ok {
		errs.Add("quantity", domain.MessageInvalidQuantity)
	}
	if expirationDate != "" && !validDate(expirationDate) {
		errs.Add("expiration_date", domain.MessageInvalidExpirationDate)
	}
	if err := errs.OrNil(); err != nil {
		return domain.AddProductResponse{}, err
	}

	var lookup *product.Lookup
	if barcode != "" && s.lookup != nil {
		found, err := s.lookup.Lookup(ctx, barcode)
		if err != nil {
			log.Warnf("product lookup for barcode %s failed, using defaults: %v", barcode, err)
		} else {
			lookup = found
		}
	}

	record := product.Normalize(barcode, lookup)
	item := &entities.PantryItem{
		OwnerUsername:  owner,
		Barcode:        barcode,
		ExpirationDate: expirationDate,
		ProductName:    record.Name,
		ImageURL:       record.ImageURL,
		EcoScore:       record.EcoScore,
		CO2Estimate:    record.CO2Estimate,
		HasPalmOil:     record.HasPalmOil,
		IsVegan:        record.IsVegan,
		Quantity:       quantity,
	}

	if err := s.pantryRepository.Upsert(ctx, item); err != nil {
		return domain.AddProductResponse{}, err
	}

	return domain.AddProductResponse{
		Barcode:         barcode,
		ExpirationDate:  expirationDate,
		ProductName:     record.Name,
		QuantityAdded:   quantity,
		FoundInDatabase: lookup != nil,
	}, nil
}

func (s *pantryService) ListItems(ctx context.Context, owner string) ([]domain.PantryItemResponse, error) {
	items, err := s.pantryRepository.GetPantryItems(ctx, owner)
	if err != nil {
		return nil, err
	}

	today := s.today()
	response := make([]domain.PantryItemResponse, 0, len(items))
	for _, item := range items {
		response = append(response, toResponse(item, today))
	}
	return response, nil
}

func (s *pantryService) GetDashboard(ctx context.Context, owner string) (domain.DashboardResponse, error) {
	items, err := s.ListItems(ctx, owner)
	if err != nil {
		return domain.DashboardResponse{}, err
	}

	return domain.DashboardResponse{
		Username: owner,
		Items:    items,
		Stats:    dashboardStats(items),
	}, nil
}

func (s *pantryService) GetItem(ctx context.Context, id string) (domain.PantryItemResponse, error) {
	item, err := s.pantryRepository.GetPantryItemByID(ctx, id)
	if err != nil {
		return domain.PantryItemResponse{}, err
	}
	return toResponse(item, s.today()), nil
}

func (s *pantryService) UpdateItem(ctx context.Context, owner, id string, req domain.UpdatePantryItemRequest) error {
	productName := strings.TrimSpace(req.ProductName)
	expirationDate := strings.TrimSpace(req.ExpirationDate)

	errs := domain.NewValidationErrors()
	if productName == "" {
		errs.Add("product_name", domain.MessageProductNameRequired)
	}
	rawQuantity := strings.TrimSpace(string(req.Quantity))
	quantity, ok := parseQuantity(rawQuantity, false)
	switch {
	case rawQuantity == "":
		errs.Add("quantity", domain.MessageQuantityRequired)
	case !ok:
		errs.Add("quantity", domain.MessageInvalidQuantity)
	}
	switch {
	case expirationDate == "":
		errs.Add("expiration_date", domain.MessageExpirationRequired)
	case !validDate(expirationDate):
		errs.Add("expiration_date", domain.MessageInvalidExpirationDate)
	}
	if req.Image != nil && s.s3 == nil {
		errs.Add("image", domain.MessageImageUploadUnavailable)
	}
	if err := errs.OrNil(); err != nil {
		return err
	}

	// Ownership is checked before anything is uploaded.
	current, err := s.pantryRepository.GetPantryItemByID(ctx, id)
	if err != nil {
		return err
	}
	if current.OwnerUsername != owner {
		return domain.ErrPantryItemNotFound
	}

	changes := map[string]any{
		"product_name":    productName,
		"quantity":        quantity,
		"expiration_date": expirationDate,
	}

	switch {
	case req.Image != nil:
		fileName := fmt.Sprintf("pantry-item-%s", current.ID.String())
		objectKey, err := s.s3.UploadFile(ctx, fileName, req.Image, "pantry-items", storage.AllowImage...)
		if err != nil {
			return domain.NewValidationErrors(domain.FieldError{Field: "image", Message: err.Error()})
		}
		changes["image_url"] = s.s3.GetPublicLinkKey(objectKey)
	case strings.TrimSpace(req.ImageURL) != "":
		changes["image_url"] = strings.TrimSpace(req.ImageURL)
	}

	return s.pantryRepository.UpdatePantryItem(ctx, owner, id, changes)
}

func (s *pantryService) DeleteItem(ctx context.Context, owner, id string) error {
	item, err := s.pantryRepository.GetPantryItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPantryItemNotFound) {
			return nil
		}
		return err
	}
	if item.OwnerUsername != owner {
		return nil
	}

	if err := s.pantryRepository.DeletePantryItem(ctx, owner, id); err != nil {
		return err
	}

	if s.s3 != nil {
		if objectKey := s.s3.GetObjectKeyFromLink(item.ImageURL); objectKey != "" {
			if err := s.s3.DeleteFile(ctx, objectKey); err != nil {
				log.Warnf("failed to delete image %s of pantry item %s: %v", objectKey, id, err)
			}
		}
	}
	return nil
}

func (s *pantryService) today() time.Time {
	now := s.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// parseQuantity accepts non-negative whole numbers. A blank value is zero
// when allowBlank is set.
func parseQuantity(raw string, allowBlank bool) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, allowBlank
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func validDate(raw string) bool {
	_, err := time.Parse(domain.DateLayout, raw)
	return err == nil
}

func determineStatus(expirationDate string, today time.Time) string {
	date, err := time.Parse(domain.DateLayout, expirationDate)
	if err != nil {
		return domain.StatusUndated
	}

	if date.Before(today) {
		return domain.StatusExpired
	}

	warningThreshold := today.AddDate(0, 0, warningWindowDays)
	if date.Before(warningThreshold) {
		return domain.StatusWarning
	}

	return domain.StatusSafe
}

func dashboardStats(items []domain.PantryItemResponse) domain.DashboardStats {
	var stats domain.DashboardStats
	for _, item := range items {
		stats.TotalItems++
		stats.TotalQuantity += item.Quantity
		if item.IsVegan == string(entities.TriStateYes) {
			stats.VeganItems++
		}
		if item.HasPalmOil == string(entities.TriStateNo) {
			stats.PalmOilFreeItems++
		}
		switch item.Status {
		case domain.StatusExpired:
			stats.ExpiredItems++
		case domain.StatusWarning:
			stats.ExpiringSoonItems++
		}
	}
	return stats
}

func toResponse(item *entities.PantryItem, today time.Time) domain.PantryItemResponse {
	return domain.PantryItemResponse{
		ID:             item.ID.String(),
		OwnerUsername:  item.OwnerUsername,
		Barcode:        item.Barcode,
		ProductName:    item.ProductName,
		ImageURL:       item.ImageURL,
		EcoScore:       item.EcoScore,
		ExpirationDate: item.ExpirationDate,
		CO2Estimate:    item.CO2Estimate,
		HasPalmOil:     string(item.HasPalmOil),
		IsVegan:        string(item.IsVegan),
		Quantity:       item.Quantity,
		Status:         determineStatus(item.ExpirationDate, today),
		CreatedAt:      item.CreatedAt,
		UpdatedAt:      item.UpdatedAt,
	}
}
