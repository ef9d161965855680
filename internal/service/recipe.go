package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// RecipeDetail is a recipe together with flags relative to the caller.
type RecipeDetail struct {
	Recipe           *models.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

// RecipeFilter narrows a recipe listing. Zero values leave the listing
// unfiltered. Favorited and InShoppingCart need an authenticated caller
// whenever they are set, whatever their value; only true narrows the list.
type RecipeFilter struct {
	AuthorID       *uuid.UUID
	TagSlugs       []string
	Favorited      *bool
	InShoppingCart *bool
	Pagination
}

type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{db: db, images: images}
}

func preloadRecipe(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name")
		})
}

func (s *RecipeService) Create(ctx context.Context, caller types.Caller, req *types.RecipeRequest) (*RecipeDetail, error) {
	if err := requireAuth(caller.Authenticated); err != nil {
		return nil, err
	}
	if req.Image == nil || *req.Image == "" {
		return nil, invalid(RuleImageInvalid, "image is required")
	}

	comp, err := ValidateComposition(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, comp); err != nil {
		return nil, err
	}

	imageURL, err := s.images.Save(ctx, comp.Image)
	if err != nil {
		return nil, err
	}

	recipe := &models.Recipe{
		AuthorID:    caller.UserID,
		Name:        comp.Name,
		Text:        comp.Text,
		Image:       imageURL,
		CookingTime: comp.CookingTime,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Author", "Ingredients", "Tags").Create(recipe).Error; err != nil {
			return err
		}
		return replaceComposition(tx, recipe.ID, comp)
	})
	if err != nil {
		s.dropImage(ctx, imageURL)
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("recipe_id", recipe.ID.String()).Str("author", caller.Username).Msg("recipe created")
	return s.Get(ctx, caller, recipe.ID)
}

// Update applies a partial update. Fields absent from req keep their stored
// value; ingredients and tags, when present, replace the whole set.
func (s *RecipeService) Update(ctx context.Context, caller types.Caller, id uuid.UUID, req *types.RecipeRequest) (*RecipeDetail, error) {
	if err := requireAuth(caller.Authenticated); err != nil {
		return nil, err
	}

	var recipe models.Recipe
	if err := preloadRecipe(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, notFound(err, "recipe")
	}
	if recipe.AuthorID != caller.UserID {
		return nil, ErrPermissionDenied
	}

	merged := mergeRecipeRequest(&recipe, req)
	comp, err := ValidateComposition(merged)
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, comp); err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	imageURL := oldImage
	if comp.Image != nil {
		if imageURL, err = s.images.Save(ctx, comp.Image); err != nil {
			return nil, err
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
			"name":         comp.Name,
			"text":         comp.Text,
			"image":        imageURL,
			"cooking_time": comp.CookingTime,
		}).Error
		if err != nil {
			return err
		}
		return replaceComposition(tx, recipe.ID, comp)
	})
	if err != nil {
		if imageURL != oldImage {
			s.dropImage(ctx, imageURL)
		}
		return nil, err
	}
	if imageURL != oldImage {
		s.dropImage(ctx, oldImage)
	}

	return s.Get(ctx, caller, recipe.ID)
}

// Delete removes the recipe and every row that references it.
func (s *RecipeService) Delete(ctx context.Context, caller types.Caller, id uuid.UUID) error {
	if err := requireAuth(caller.Authenticated); err != nil {
		return err
	}

	var recipe models.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			return notFound(err, "recipe")
		}
		if recipe.AuthorID != caller.UserID {
			return ErrPermissionDenied
		}
		for _, owned := range []interface{}{
			&models.RecipeIngredient{}, &models.RecipeTag{}, &models.Favorite{}, &models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(owned).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&recipe).Error
	})
	if err != nil {
		return err
	}

	s.dropImage(ctx, recipe.Image)
	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe deleted")
	return nil
}

func (s *RecipeService) Get(ctx context.Context, caller types.Caller, id uuid.UUID) (*RecipeDetail, error) {
	var recipe models.Recipe
	if err := preloadRecipe(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, notFound(err, "recipe")
	}
	details, err := s.annotate(ctx, caller, []models.Recipe{recipe})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// List returns recipes newest first.
func (s *RecipeService) List(ctx context.Context, caller types.Caller, f RecipeFilter) (*Page[RecipeDetail], error) {
	if (f.Favorited != nil || f.InShoppingCart != nil) && !caller.Authenticated {
		return nil, ErrAuthenticationRequired
	}
	p := f.Pagination.Normalize()
	db := s.db.WithContext(ctx)

	q := db.Model(&models.Recipe{})
	if f.AuthorID != nil {
		q = q.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		q = q.Where("recipes.id IN (?)", db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.Favorited != nil && *f.Favorited {
		q = q.Where("recipes.id IN (?)", db.Model(&models.Favorite{}).
			Select("recipe_id").Where("user_id = ?", caller.UserID))
	}
	if f.InShoppingCart != nil && *f.InShoppingCart {
		q = q.Where("recipes.id IN (?)", db.Model(&models.ShoppingCart{}).
			Select("recipe_id").Where("user_id = ?", caller.UserID))
	}

	var count int64
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	err := preloadRecipe(q).
		Order("recipes.pub_date DESC").
		Order("recipes.id").
		Offset(p.Offset()).
		Limit(p.Limit).
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}

	details, err := s.annotate(ctx, caller, recipes)
	if err != nil {
		return nil, err
	}
	return &Page[RecipeDetail]{Count: count, Results: details, Pagination: p}, nil
}

// annotate sets the caller-relative flags on recipes with one query per
// relation.
func (s *RecipeService) annotate(ctx context.Context, caller types.Caller, recipes []models.Recipe) ([]RecipeDetail, error) {
	details := make([]RecipeDetail, len(recipes))
	for i := range recipes {
		lines := recipes[i].Ingredients
		sort.SliceStable(lines, func(a, b int) bool {
			return lines[a].Ingredient.Name < lines[b].Ingredient.Name
		})
		details[i].Recipe = &recipes[i]
	}
	if !caller.Authenticated || len(recipes) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(recipes))
	authors := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		ids[i] = r.ID
		authors[i] = r.AuthorID
	}

	db := s.db.WithContext(ctx)
	favorited, err := idSet(db.Model(&models.Favorite{}).Where("user_id = ? AND recipe_id IN ?", caller.UserID, ids), "recipe_id")
	if err != nil {
		return nil, err
	}
	inCart, err := idSet(db.Model(&models.ShoppingCart{}).Where("user_id = ? AND recipe_id IN ?", caller.UserID, ids), "recipe_id")
	if err != nil {
		return nil, err
	}
	followed, err := idSet(db.Model(&models.Follow{}).Where("user_id = ? AND author_id IN ?", caller.UserID, authors), "author_id")
	if err != nil {
		return nil, err
	}

	for i, r := range recipes {
		_, details[i].IsFavorited = favorited[r.ID]
		_, details[i].IsInShoppingCart = inCart[r.ID]
		_, details[i].AuthorSubscribed = followed[r.AuthorID]
	}
	return details, nil
}

func (s *RecipeService) checkReferences(ctx context.Context, comp *Composition) error {
	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.Ingredient{}).Where("id IN ?", comp.IngredientIDs()).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(comp.Ingredients) {
		return invalid(RuleIngredientUnknown, "one or more ingredients do not exist")
	}

	if err := db.Model(&models.Tag{}).Where("id IN ?", comp.Tags).Count(&n).Error; err != nil {
		return err
	}
	if int(n) != len(comp.Tags) {
		return invalid(RuleTagUnknown, "one or more tags do not exist")
	}
	return nil
}

func (s *RecipeService) dropImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("image", url).Msg("failed to delete image")
	}
}

// replaceComposition swaps the ingredient and tag rows of a recipe. It must
// run inside a transaction.
func replaceComposition(tx *gorm.DB, recipeID uuid.UUID, comp *Composition) error {
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
		return err
	}

	lines := make([]models.RecipeIngredient, len(comp.Ingredients))
	for i, in := range comp.Ingredients {
		lines[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: in.ID, Amount: in.Amount}
	}
	if err := tx.Omit("Ingredient").Create(&lines).Error; err != nil {
		return err
	}

	tags := make([]models.RecipeTag, len(comp.Tags))
	for i, id := range comp.Tags {
		tags[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
	}
	return tx.Create(&tags).Error
}

func mergeRecipeRequest(r *models.Recipe, req *types.RecipeRequest) *types.RecipeRequest {
	merged := *req
	if merged.Name == nil {
		merged.Name = &r.Name
	}
	if merged.Text == nil {
		merged.Text = &r.Text
	}
	if merged.CookingTime == nil {
		merged.CookingTime = &r.CookingTime
	}
	if merged.Ingredients == nil {
		merged.Ingredients = make([]types.IngredientAmount, len(r.Ingredients))
		for i, ri := range r.Ingredients {
			merged.Ingredients[i] = types.IngredientAmount{ID: ri.IngredientID, Amount: ri.Amount}
		}
	}
	if merged.Tags == nil {
		merged.Tags = make([]uuid.UUID, len(r.Tags))
		for i, t := range r.Tags {
			merged.Tags[i] = t.ID
		}
	}
	return &merged
}

func idSet(q *gorm.DB, column string) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	if err := q.Pluck(column, &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return err
}
