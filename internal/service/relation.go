package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RelationService adds and removes favorites, shopping cart entries and
// subscriptions. Uniqueness of each pair is left to the database indexes.
type RelationService struct {
	db *gorm.DB
}

func NewRelationService(db *gorm.DB) *RelationService {
	return &RelationService{db: db}
}

func (s *RelationService) AddFavorite(ctx context.Context, caller types.Caller, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.addRecipeRelation(ctx, caller, recipeID, &models.Favorite{UserID: caller.UserID, RecipeID: recipeID}, "favorites")
}

func (s *RelationService) RemoveFavorite(ctx context.Context, caller types.Caller, recipeID uuid.UUID) error {
	return s.removeRecipeRelation(ctx, caller, recipeID, &models.Favorite{}, "favorites")
}

func (s *RelationService) AddToCart(ctx context.Context, caller types.Caller, recipeID uuid.UUID) (*models.Recipe, error) {
	return s.addRecipeRelation(ctx, caller, recipeID, &models.ShoppingCart{UserID: caller.UserID, RecipeID: recipeID}, "shopping cart")
}

func (s *RelationService) RemoveFromCart(ctx context.Context, caller types.Caller, recipeID uuid.UUID) error {
	return s.removeRecipeRelation(ctx, caller, recipeID, &models.ShoppingCart{}, "shopping cart")
}

// Follow subscribes the caller to author.
func (s *RelationService) Follow(ctx context.Context, caller types.Caller, authorID uuid.UUID) (*models.User, error) {
	if err := requireAuth(caller.Authenticated); err != nil {
		return nil, err
	}
	if caller.UserID == authorID {
		return nil, invalid(RuleSelfFollow, "you cannot subscribe to yourself")
	}

	var author models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&author, "id = ?", authorID).Error; err != nil {
			return notFound(err, "user")
		}
		return insertRelation(tx, &models.Follow{UserID: caller.UserID, AuthorID: authorID}, "already subscribed to this user")
	})
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Debug().Str("user", caller.Username).Str("author", author.Username).Msg("subscribed")
	return &author, nil
}

func (s *RelationService) Unfollow(ctx context.Context, caller types.Caller, authorID uuid.UUID) error {
	if err := requireAuth(caller.Authenticated); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("id = ?", authorID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: user", ErrNotFound)
		}

		res := tx.Where("user_id = ? AND author_id = ?", caller.UserID, authorID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: not subscribed to this user", ErrNotFound)
		}
		return nil
	})
}

func (s *RelationService) addRecipeRelation(ctx context.Context, caller types.Caller, recipeID uuid.UUID, row interface{}, list string) (*models.Recipe, error) {
	if err := requireAuth(caller.Authenticated); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			return notFound(err, "recipe")
		}
		return insertRelation(tx, row, "recipe is already in "+list)
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (s *RelationService) removeRecipeRelation(ctx context.Context, caller types.Caller, recipeID uuid.UUID, model interface{}, list string) error {
	if err := requireAuth(caller.Authenticated); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: recipe", ErrNotFound)
		}

		res := tx.Where("user_id = ? AND recipe_id = ?", caller.UserID, recipeID).Delete(model)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: recipe is not in %s", ErrNotFound, list)
		}
		return nil
	})
}

// insertRelation inserts row, mapping a unique index violation to
// ErrConflict.
func insertRelation(tx *gorm.DB, row interface{}, conflict string) error {
	err := tx.Create(row).Error
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrConflict, conflict)
	}
	return err
}
