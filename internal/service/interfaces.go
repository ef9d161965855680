package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	ValidateToken(ctx context.Context, token string) (*types.TokenClaims, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	SetPassword(ctx context.Context, caller types.Caller, current, next string) error
}

// IUserService defines the interface for user profile and subscription reads
type IUserService interface {
	Get(ctx context.Context, caller types.Caller, id uuid.UUID) (*UserDetail, error)
	Me(ctx context.Context, caller types.Caller) (*UserDetail, error)
	List(ctx context.Context, caller types.Caller, p Pagination) (*Page[UserDetail], error)
	Subscriptions(ctx context.Context, caller types.Caller, p Pagination, recipesLimit int) (*Page[Subscription], error)
	SubscriptionOf(ctx context.Context, caller types.Caller, author *models.User, recipesLimit int) (*Subscription, error)
}

// ICatalogService defines the interface for ingredient and tag reads
type ICatalogService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, caller types.Caller, req *types.RecipeRequest) (*RecipeDetail, error)
	Update(ctx context.Context, caller types.Caller, id uuid.UUID, req *types.RecipeRequest) (*RecipeDetail, error)
	Delete(ctx context.Context, caller types.Caller, id uuid.UUID) error
	Get(ctx context.Context, caller types.Caller, id uuid.UUID) (*RecipeDetail, error)
	List(ctx context.Context, caller types.Caller, f RecipeFilter) (*Page[RecipeDetail], error)
}

// IRelationService defines the interface for favorites, cart and follows
type IRelationService interface {
	AddFavorite(ctx context.Context, caller types.Caller, recipeID uuid.UUID) (*models.Recipe, error)
	RemoveFavorite(ctx context.Context, caller types.Caller, recipeID uuid.UUID) error
	AddToCart(ctx context.Context, caller types.Caller, recipeID uuid.UUID) (*models.Recipe, error)
	RemoveFromCart(ctx context.Context, caller types.Caller, recipeID uuid.UUID) error
	Follow(ctx context.Context, caller types.Caller, authorID uuid.UUID) (*models.User, error)
	Unfollow(ctx context.Context, caller types.Caller, authorID uuid.UUID) error
}

// IShoppingListService defines the interface for the cart report
type IShoppingListService interface {
	Build(ctx context.Context, caller types.Caller) (*ShoppingList, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IRelationService     = (*RelationService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
)
