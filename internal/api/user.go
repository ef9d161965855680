package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foodgram/backend/internal/metrics"
	"github.com/foodgram/backend/internal/middleware"
	"github.com/foodgram/backend/internal/service"
)

type UserHandler struct {
	userService     service.IUserService
	relationService service.IRelationService
}

func NewUserHandler(userService service.IUserService, relationService service.IRelationService) *UserHandler {
	return &UserHandler{userService: userService, relationService: relationService}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", h.ListUsers)
		users.GET("/me", middleware.RequireAuth(), h.Me)
		users.GET("/subscriptions", middleware.RequireAuth(), h.Subscriptions)
		users.GET("/:id", h.GetUser)
		users.POST("/:id/subscribe", middleware.RequireAuth(), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.RequireAuth(), h.Unsubscribe)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.userService.List(c.Request.Context(), middleware.CallerFrom(c), pagination(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(c, page, userDetailResponse))
}

func (h *UserHandler) Me(c *gin.Context) {
	detail, err := h.userService.Me(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userDetailResponse(*detail))
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	detail, err := h.userService.Get(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userDetailResponse(*detail))
}

// Subscriptions lists followed authors. recipes_limit bounds each preview.
func (h *UserHandler) Subscriptions(c *gin.Context) {
	page, err := h.userService.Subscriptions(c.Request.Context(), middleware.CallerFrom(c),
		pagination(c), queryInt(c, "recipes_limit", -1))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPageResponse(c, page, subscriptionResponse))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	caller := middleware.CallerFrom(c)

	author, err := h.relationService.Follow(ctx, caller, id)
	metrics.RecordRelationToggle("subscription", "add", err)
	if err != nil {
		respondError(c, err)
		return
	}

	sub, err := h.userService.SubscriptionOf(ctx, caller, author, queryInt(c, "recipes_limit", -1))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, subscriptionResponse(*sub))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.relationService.Unfollow(c.Request.Context(), middleware.CallerFrom(c), id)
	metrics.RecordRelationToggle("subscription", "remove", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
