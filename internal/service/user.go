package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// DefaultRecipesLimit is how many recipes a subscription shows per author.
const DefaultRecipesLimit = 6

// UserDetail is a user together with whether the caller follows them.
type UserDetail struct {
	User         *models.User
	IsSubscribed bool
}

// Subscription is a followed author with a preview of their recipes.
type Subscription struct {
	UserDetail
	Recipes      []models.Recipe
	RecipesCount int64
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) Get(ctx context.Context, caller types.Caller, id uuid.UUID) (*UserDetail, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user")
	}
	details, err := s.annotate(ctx, caller, []models.User{user})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *UserService) Me(ctx context.Context, caller types.Caller) (*UserDetail, error) {
	if err := requireAuth(caller.Authenticated); err != nil {
		return nil, err
	}
	return s.Get(ctx, caller, caller.UserID)
}

func (s *UserService) List(ctx context.Context, caller types.Caller, p Pagination) (*Page[UserDetail], error) {
	p = p.Normalize()
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	var users []models.User
	if err := db.Order("username").Offset(p.Offset()).Limit(p.Limit).Find(&users).Error; err != nil {
		return nil, err
	}

	details, err := s.annotate(ctx, caller, users)
	if err != nil {
		return nil, err
	}
	return &Page[UserDetail]{Count: count, Results: details, Pagination: p}, nil
}

// Subscriptions lists the authors the caller follows, each with at most
// recipesLimit of their newest recipes.
func (s *UserService) Subscriptions(ctx context.Context, caller types.Caller, p Pagination, recipesLimit int) (*Page[Subscription], error) {
	if err := requireAuth(caller.Authenticated); err != nil {
		return nil, err
	}
	p = p.Normalize()
	db := s.db.WithContext(ctx)

	followed := db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", caller.UserID)

	var count int64
	if err := db.Model(&models.User{}).Where("id IN (?)", followed).Count(&count).Error; err != nil {
		return nil, err
	}
	var authors []models.User
	err := db.Where("id IN (?)", followed).Order("username").Offset(p.Offset()).Limit(p.Limit).Find(&authors).Error
	if err != nil {
		return nil, err
	}

	subs := make([]Subscription, len(authors))
	for i := range authors {
		sub, err := s.subscription(ctx, &authors[i], recipesLimit)
		if err != nil {
			return nil, err
		}
		subs[i] = *sub
	}
	return &Page[Subscription]{Count: count, Results: subs, Pagination: p}, nil
}

// SubscriptionOf describes author as seen from the caller's subscriptions.
func (s *UserService) SubscriptionOf(ctx context.Context, caller types.Caller, author *models.User, recipesLimit int) (*Subscription, error) {
	sub, err := s.subscription(ctx, author, recipesLimit)
	if err != nil {
		return nil, err
	}
	details, err := s.annotate(ctx, caller, []models.User{*author})
	if err != nil {
		return nil, err
	}
	sub.IsSubscribed = details[0].IsSubscribed
	return sub, nil
}

func (s *UserService) subscription(ctx context.Context, author *models.User, recipesLimit int) (*Subscription, error) {
	if recipesLimit < 0 {
		recipesLimit = DefaultRecipesLimit
	}
	db := s.db.WithContext(ctx)

	sub := &Subscription{UserDetail: UserDetail{User: author, IsSubscribed: true}}
	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&sub.RecipesCount).Error; err != nil {
		return nil, err
	}
	if recipesLimit > 0 {
		err := db.Where("author_id = ?", author.ID).
			Order("pub_date DESC").Order("id").
			Limit(recipesLimit).
			Find(&sub.Recipes).Error
		if err != nil {
			return nil, err
		}
	}
	return sub, nil
}

func (s *UserService) annotate(ctx context.Context, caller types.Caller, users []models.User) ([]UserDetail, error) {
	details := make([]UserDetail, len(users))
	for i := range users {
		details[i].User = &users[i]
	}
	if !caller.Authenticated || len(users) == 0 {
		return details, nil
	}

	ids := make([]uuid.UUID, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	followed, err := idSet(s.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_id = ? AND author_id IN ?", caller.UserID, ids), "author_id")
	if err != nil {
		return nil, err
	}
	for i, u := range users {
		_, details[i].IsSubscribed = followed[u.ID]
	}
	return details, nil
}
