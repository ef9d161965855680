package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/validation"
)

// ErrCatalogNotEmpty is returned when loading into a table that already has
// rows.
var ErrCatalogNotEmpty = fmt.Errorf("%w: table already contains data", ErrConflict)

const loadBatchSize = 500

// CatalogService serves the read-only ingredient and tag reference data.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "tag")
	}
	return &tag, nil
}

// ListIngredients returns ingredients whose name starts with prefix,
// ignoring case. An empty prefix lists everything.
func (s *CatalogService) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	q := s.db.WithContext(ctx).Order("name").Order("measurement_unit")
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}
	var ingredients []models.Ingredient
	err := q.Find(&ingredients).Error
	return ingredients, err
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "ingredient")
	}
	return &ingredient, nil
}

// LoadIngredients bulk inserts ingredients into an empty table.
func (s *CatalogService) LoadIngredients(ctx context.Context, items []models.Ingredient) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	for i := range items {
		if err := validation.ValidateStruct(&items[i]); err != nil {
			return 0, fmt.Errorf("ingredient #%d: %w", i+1, err)
		}
	}
	if err := s.load(ctx, &models.Ingredient{}, &items, "ingredients"); err != nil {
		return 0, err
	}
	return len(items), nil
}

// LoadTags bulk inserts tags into an empty table.
func (s *CatalogService) LoadTags(ctx context.Context, items []models.Tag) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	for i := range items {
		if err := validation.ValidateStruct(&items[i]); err != nil {
			return 0, fmt.Errorf("tag #%d: %w", i+1, err)
		}
	}
	if err := s.load(ctx, &models.Tag{}, &items, "tags"); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *CatalogService) load(ctx context.Context, model, rows interface{}, table string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(model).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrCatalogNotEmpty
		}
		if err := tx.CreateInBatches(rows, loadBatchSize).Error; err != nil {
			return fmt.Errorf("failed to load %s: %w", table, err)
		}
		logging.Ctx(ctx).Info().Str("table", table).Msg("catalog loaded")
		return nil
	})
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
