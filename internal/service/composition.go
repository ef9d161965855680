package service

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/types"
)

const maxRecipeNameLength = 200

// Composition is a recipe payload that passed ValidateComposition.
type Composition struct {
	Name        string
	Text        string
	CookingTime int
	Ingredients []types.IngredientAmount
	Tags        []uuid.UUID
	// Image is nil when the payload carried no image.
	Image *DecodedImage
}

// ValidateComposition checks a complete recipe payload and returns its
// normalized form. The first violated rule is reported as a
// *ValidationError.
func ValidateComposition(req *types.RecipeRequest) (*Composition, error) {
	c := &Composition{}

	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if c.Name == "" {
		return nil, invalid(RuleNameRequired, "name is required")
	}
	if utf8.RuneCountInString(c.Name) > maxRecipeNameLength {
		return nil, invalid(RuleNameTooLong, "name must be at most %d characters", maxRecipeNameLength)
	}

	if req.Text != nil {
		c.Text = strings.TrimSpace(*req.Text)
	}
	if c.Text == "" {
		return nil, invalid(RuleTextRequired, "text is required")
	}

	if req.CookingTime == nil || *req.CookingTime < 1 {
		return nil, invalid(RuleCookingTimeNotPositive, "cooking_time must be at least 1 minute")
	}
	c.CookingTime = *req.CookingTime

	if len(req.Ingredients) == 0 {
		return nil, invalid(RuleIngredientsEmpty, "at least one ingredient is required")
	}
	seenIngredients := make(map[uuid.UUID]struct{}, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if _, dup := seenIngredients[line.ID]; dup {
			return nil, invalid(RuleIngredientsDuplicate, "ingredient %s is listed more than once", line.ID)
		}
		seenIngredients[line.ID] = struct{}{}
		if line.Amount < 1 {
			return nil, invalid(RuleAmountNotPositive, "amount of ingredient %s must be at least 1", line.ID)
		}
	}
	c.Ingredients = append([]types.IngredientAmount(nil), req.Ingredients...)

	if len(req.Tags) == 0 {
		return nil, invalid(RuleTagsEmpty, "at least one tag is required")
	}
	seenTags := make(map[uuid.UUID]struct{}, len(req.Tags))
	for _, id := range req.Tags {
		if _, dup := seenTags[id]; dup {
			return nil, invalid(RuleTagsDuplicate, "tag %s is listed more than once", id)
		}
		seenTags[id] = struct{}{}
	}
	c.Tags = append([]uuid.UUID(nil), req.Tags...)

	if req.Image != nil {
		img, err := DecodeDataURL(*req.Image)
		if err != nil {
			return nil, err
		}
		c.Image = img
	}

	return c, nil
}

// IngredientIDs returns the referenced ingredient ids in payload order.
func (c *Composition) IngredientIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Ingredients))
	for i, line := range c.Ingredients {
		ids[i] = line.ID
	}
	return ids
}
