package pantry

import (
	"Markit-Pantry/domain"
	"Markit-Pantry/entities"
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	PantryRepository interface {
		Upsert(ctx context.Context, item *entities.PantryItem) error
		GetPantryItemByID(ctx context.Context, id string) (*entities.PantryItem, error)
		GetPantryItems(ctx context.Context, owner string) ([]*entities.PantryItem, error)
		UpdatePantryItem(ctx context.Context, owner, id string, changes map[string]any) error
		DeletePantryItem(ctx context.Context, owner, id string) error
	}

	pantryRepository struct {
		db *gorm.DB
	}
)

// mergeKey is backed by the idx_pantry_merge_key unique index.
var mergeKey = []clause.Column{
	{Name: "owner_username"},
	{Name: "barcode"},
	{Name: "expiration_date"},
}

// refreshedColumns are overwritten with the latest lookup on every merge.
var refreshedColumns = []string{
	"product_name",
	"image_url",
	"eco_score",
	"co2_estimate",
	"has_palm_oil",
	"is_vegan",
	"updated_at",
}

func NewPantryRepository(db *gorm.DB) PantryRepository {
	return &pantryRepository{db: db}
}

// Upsert inserts the item or merges it into the row sharing its merge key.
// The quantity increment happens inside the statement, so concurrent scans
// of the same key cannot lose updates.
func (r *pantryRepository) Upsert(ctx context.Context, item *entities.PantryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	onConflict := clause.OnConflict{
		Columns: mergeKey,
		DoUpdates: append(
			clause.AssignmentColumns(refreshedColumns),
			clause.Assignment{
				Column: clause.Column{Name: "quantity"},
				Value:  gorm.Expr("pantry_items.quantity + excluded.quantity"),
			},
		),
	}

	if err := r.db.WithContext(ctx).Clauses(onConflict).Create(item).Error; err != nil {
		return fmt.Errorf("%w: upsert pantry item: %v", domain.ErrStorage, err)
	}
	return nil
}

func (r *pantryRepository) GetPantryItemByID(ctx context.Context, id string) (*entities.PantryItem, error) {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrPantryItemNotFound
	}

	var item entities.PantryItem
	if err := r.db.WithContext(ctx).Where("id = ?", itemID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPantryItemNotFound
		}
		return nil, fmt.Errorf("%w: get pantry item: %v", domain.ErrStorage, err)
	}
	return &item, nil
}

func (r *pantryRepository) GetPantryItems(ctx context.Context, owner string) ([]*entities.PantryItem, error) {
	var items []*entities.PantryItem
	if err := r.db.WithContext(ctx).
		Where("owner_username = ?", owner).
		Order("created_at asc").
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("%w: list pantry items: %v", domain.ErrStorage, err)
	}
	return items, nil
}

func (r *pantryRepository) UpdatePantryItem(ctx context.Context, owner, id string, changes map[string]any) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrPantryItemNotFound
	}

	res := r.db.WithContext(ctx).Model(&entities.PantryItem{}).
		Where("id = ? AND owner_username = ?", itemID, owner).
		Updates(changes)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return domain.NewConflictErrors(domain.FieldError{
				Field:   "expiration_date",
				Message: "Another pantry row already holds this product with that expiration date",
			})
		}
		return fmt.Errorf("%w: update pantry item: %v", domain.ErrStorage, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPantryItemNotFound
	}
	return nil
}

// DeletePantryItem succeeds whether or not the row exists.
func (r *pantryRepository) DeletePantryItem(ctx context.Context, owner, id string) error {
	itemID, err := uuid.Parse(id)
	if err != nil {
		return nil
	}

	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_username = ?", itemID, owner).
		Delete(&entities.PantryItem{}).Error; err != nil {
		return fmt.Errorf("%w: delete pantry item: %v", domain.ErrStorage, err)
	}
	return nil
}
