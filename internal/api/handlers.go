// Package api exposes the Foodgram services over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/logging"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

// Services bundles everything the handlers depend on
type Services struct {
	DB            *gorm.DB
	Auth          service.IAuthService
	Users         service.IUserService
	Catalog       service.ICatalogService
	Recipes       service.IRecipeService
	Relations     service.IRelationService
	ShoppingList  service.IShoppingListService
	RecipeLimiter *middleware.RateLimiter
}

// NewServices wires the default service implementations onto db
func NewServices(db *gorm.DB, auth *service.AuthService, images service.ImageStore, limiter *middleware.RateLimiter) Services {
	return Services{
		DB:            db,
		Auth:          auth,
		Users:         service.NewUserService(db),
		Catalog:       service.NewCatalogService(db),
		Recipes:       service.NewRecipeService(db, images),
		Relations:     service.NewRelationService(db),
		ShoppingList:  service.NewShoppingListService(db),
		RecipeLimiter: limiter,
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, s Services) {
	health := &healthHandler{db: s.DB}
	router.GET("/health", health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(middleware.Authenticate(s.Auth))

	NewAuthHandler(s.Auth).RegisterRoutes(api)
	NewUserHandler(s.Users, s.Relations).RegisterRoutes(api)
	NewCatalogHandler(s.Catalog).RegisterRoutes(api)
	NewRecipeHandler(s.Recipes, s.Relations, s.ShoppingList, s.RecipeLimiter).RegisterRoutes(api)
}

type healthHandler struct {
	db *gorm.DB
}

// Check reports whether the database answers a ping
func (h *healthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := database.HealthCheck(ctx, h.db); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
