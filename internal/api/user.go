package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

type UserHandler struct {
	userService         *service.UserService
	toggleService       *service.ToggleService
	subscriptionService *service.SubscriptionService
	authService         middleware.TokenValidator
}

func NewUserHandler(
	userService *service.UserService,
	toggleService *service.ToggleService,
	subscriptionService *service.SubscriptionService,
	authService middleware.TokenValidator,
) *UserHandler {
	return &UserHandler{
		userService:         userService,
		toggleService:       toggleService,
		subscriptionService: subscriptionService,
		authService:         authService,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListUsers)
		users.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetUser)
		users.POST("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Subscribe)
		users.DELETE("/:id/subscribe", middleware.AuthMiddleware(h.authService), h.Unsubscribe)
	}

	authed := router.Group("", middleware.AuthMiddleware(h.authService))
	{
		authed.GET("/profile", h.GetProfile)
		authed.GET("/subscriptions", h.ListSubscriptions)
	}
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	views, err := h.userService.List(c.Request.Context(), viewerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]UserResponse, len(views))
	for i, v := range views {
		out[i] = newUserResponse(v.User, v.IsFollowed)
	}
	c.JSON(http.StatusOK, gin.H{"users": out})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := userParam(c)
	if !ok {
		return
	}
	view, err := h.userService.Get(c.Request.Context(), id, viewerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(view.User, view.IsFollowed))
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	view, err := h.userService.Get(c.Request.Context(), userID, nil)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(view.User, false))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := userParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	view, err := h.toggleService.Follow(c.Request.Context(), userID, authorID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSubscriptionResponse(*view))
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := userParam(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.toggleService.Unfollow(c.Request.Context(), userID, authorID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	views, err := h.subscriptionService.List(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	out := make([]SubscriptionResponse, len(views))
	for i, v := range views {
		out[i] = newSubscriptionResponse(v)
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": out})
}

func userParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return uuid.Nil, false
	}
	return id, true
}
