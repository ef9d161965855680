package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipeService       service.IRecipeService
	relationService     service.IRelationService
	shoppingListService service.IShoppingListService
	createLimiter       *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService service.IRecipeService,
	relationService service.IRelationService,
	shoppingListService service.IShoppingListService,
	createLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		relationService:     relationService,
		shoppingListService: shoppingListService,
		createLimiter:       createLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.POST("", middleware.RequireAuth(), h.createLimiter.Middleware(), h.CreateRecipe)
		recipes.GET("/download_shopping_cart", middleware.RequireAuth(), h.DownloadShoppingCart)
		recipes.GET("/:id", h.GetRecipe)
		recipes.PATCH("/:id", middleware.RequireAuth(), h.UpdateRecipe)
		recipes.PUT("/:id", middleware.RequireAuth(), h.UpdateRecipe)
		recipes.DELETE("/:id", middleware.RequireAuth(), h.DeleteRecipe)
		recipes.POST("/:id/favorite", middleware.RequireAuth(), h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", middleware.RequireAuth(), h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", middleware.RequireAuth(), h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", middleware.RequireAuth(), h.RemoveFromShoppingCart)
	}
}

// ListRecipes supports author, tags (repeatable slug), is_favorited and
// is_in_shopping_cart filters.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	favorited, err := queryFlag(c, "is_favorited")
	if err != nil {
		respondError(c, err)
		return
	}
	inCart, err := queryFlag(c, "is_in_shopping_cart")
	if err != nil {
		respondError(c, err)
		return
	}
	filter := service.RecipeFilter{
		TagSlugs:       c.QueryArray("tags"),
		Favorited:      favorited,
		InShoppingCart: inCart,
		Pagination:     pagination(c),
	}
	if author := c.Query("author"); author != "" {
		// an unparseable author matches nobody
		id, err := uuid.Parse(author)
		if err != nil {
			id = uuid.Nil
		}
		filter.AuthorID = &id
	}

	page, err := h.recipeService.List(c.Request.Context(), middleware.CallerFrom(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(c, page, recipeResponse))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.recipeService.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeResponse(*detail))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.recipeService.Create(c.Request.Context(), middleware.CallerFrom(c), &req)
	metrics.RecordRecipeOperation("create", err)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipeResponse(*detail))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req types.RecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.recipeService.Update(c.Request.Context(), middleware.CallerFrom(c), id, &req)
	metrics.RecordRecipeOperation("update", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recipeResponse(*detail))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.recipeService.Delete(c.Request.Context(), middleware.CallerFrom(c), id)
	metrics.RecordRecipeOperation("delete", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.addRelation(c, "favorite", h.relationService.AddFavorite)
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	h.removeRelation(c, "favorite", h.relationService.RemoveFavorite)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	h.addRelation(c, "shopping_cart", h.relationService.AddToCart)
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	h.removeRelation(c, "shopping_cart", h.relationService.RemoveFromCart)
}

type addFunc func(ctx context.Context, caller types.Caller, recipeID uuid.UUID) (*models.Recipe, error)

type removeFunc func(ctx context.Context, caller types.Caller, recipeID uuid.UUID) error

func (h *RecipeHandler) addRelation(c *gin.Context, relation string, add addFunc) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	recipe, err := add(c.Request.Context(), middleware.CallerFrom(c), id)
	metrics.RecordRelationToggle(relation, "add", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shortRecipeResponse(recipe))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, relation string, remove removeFunc) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := remove(c.Request.Context(), middleware.CallerFrom(c), id)
	metrics.RecordRelationToggle(relation, "remove", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart serves the aggregated cart as a text attachment
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	list, err := h.shoppingListService.Build(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.RecordShoppingListDownload()
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", list.Filename()))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list.Render()))
}
