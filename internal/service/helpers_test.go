package service_test

import (
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

const pngDataURL = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func callerOf(u *models.User) types.Caller {
	return types.Caller{UserID: u.ID, Username: u.Username, Authenticated: true}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

// recipeRequest builds a complete, valid payload around the given lines and
// tags.
func recipeRequest(name string, lines []types.IngredientAmount, tags ...uuid.UUID) *types.RecipeRequest {
	return &types.RecipeRequest{
		Name:        strPtr(name),
		Text:        strPtr("Mix everything and serve."),
		Image:       strPtr(pngDataURL),
		CookingTime: intPtr(20),
		Ingredients: lines,
		Tags:        tags,
	}
}

func line(i *models.Ingredient, amount int) types.IngredientAmount {
	return types.IngredientAmount{ID: i.ID, Amount: amount}
}
