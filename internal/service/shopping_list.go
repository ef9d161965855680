package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/types"
)

const (
	shoppingListHeader  = "Shopping list:"
	shoppingListRecipes = "Recipes:"
	shoppingListFooter  = "Foodgram | Grocery Assistant"
)

// ShoppingItem is one ingredient summed over the whole cart.
type ShoppingItem struct {
	Name  string
	Unit  string
	Total int
}

// ShoppingRecipe is a recipe contributing to the list.
type ShoppingRecipe struct {
	Name   string
	Author string
}

type ShoppingList struct {
	Owner   string
	Items   []ShoppingItem
	Recipes []ShoppingRecipe
}

type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Build aggregates the caller's cart. Items are ordered by name then unit,
// recipes by name then author.
func (s *ShoppingListService) Build(ctx context.Context, caller types.Caller) (*ShoppingList, error) {
	if err := requireAuth(caller.Authenticated); err != nil {
		return nil, err
	}

	list := &ShoppingList{Owner: caller.Username}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Table("recipe_ingredients").
			Select("ingredients.name AS name, ingredients.measurement_unit AS unit, SUM(recipe_ingredients.amount) AS total").
			Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
			Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
			Where("shopping_carts.user_id = ?", caller.UserID).
			Group("ingredients.name, ingredients.measurement_unit").
			Order("ingredients.name, ingredients.measurement_unit").
			Scan(&list.Items).Error
		if err != nil {
			return fmt.Errorf("failed to aggregate ingredients: %w", err)
		}

		err = tx.Table("shopping_carts").
			Distinct("recipes.name AS name, users.username AS author").
			Joins("JOIN recipes ON recipes.id = shopping_carts.recipe_id").
			Joins("JOIN users ON users.id = recipes.author_id").
			Where("shopping_carts.user_id = ?", caller.UserID).
			Order("recipes.name, users.username").
			Scan(&list.Recipes).Error
		if err != nil {
			return fmt.Errorf("failed to list cart recipes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Render formats the list as the downloadable text report.
func (l *ShoppingList) Render() string {
	var b strings.Builder

	b.WriteString(shoppingListHeader)
	b.WriteByte('\n')
	for _, item := range l.Items {
		fmt.Fprintf(&b, "%s (%s) - %d\n", item.Name, item.Unit, item.Total)
	}

	b.WriteByte('\n')
	b.WriteString(shoppingListRecipes)
	b.WriteByte('\n')
	for _, r := range l.Recipes {
		fmt.Fprintf(&b, "%s - %s\n", r.Name, r.Author)
	}

	b.WriteString("\n---\n")
	b.WriteString(shoppingListFooter)
	b.WriteByte('\n')
	return b.String()
}

// Filename is the attachment name the list is served under.
func (l *ShoppingList) Filename() string {
	return l.Owner + "_shopping_cart.txt"
}
