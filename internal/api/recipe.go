package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/service"
)

type ingredientRequest struct {
	ID     uint `json:"id"`
	Amount int  `json:"amount"`
}

type createRecipeRequest struct {
	Name        string              `json:"name" binding:"required"`
	Image       string              `json:"image"`
	Text        string              `json:"text"`
	CookingTime int                 `json:"cooking_time" binding:"required,gte=1"`
	Tags        []uint              `json:"tags"`
	Ingredients []ingredientRequest `json:"ingredients"`
}

type updateRecipeRequest struct {
	Name        *string              `json:"name"`
	Image       *string              `json:"image"`
	Text        *string              `json:"text"`
	CookingTime *int                 `json:"cooking_time" binding:"omitempty,gte=1"`
	Tags        *[]uint              `json:"tags"`
	Ingredients *[]ingredientRequest `json:"ingredients"`
}

type RecipeHandler struct {
	recipeService       *service.RecipeService
	toggleService       *service.ToggleService
	shoppingListService *service.ShoppingListService
	imageService        *service.ImageService
	authService         middleware.TokenValidator
	creationLimiter     *middleware.RateLimiter
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	toggleService *service.ToggleService,
	shoppingListService *service.ShoppingListService,
	imageService *service.ImageService,
	authService middleware.TokenValidator,
	creationLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipeService:       recipeService,
		toggleService:       toggleService,
		shoppingListService: shoppingListService,
		imageService:        imageService,
		authService:         authService,
		creationLimiter:     creationLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuthMiddleware(h.authService), h.ListRecipes)
		recipes.GET("/:id", middleware.OptionalAuthMiddleware(h.authService), h.GetRecipe)

		authed := recipes.Group("", middleware.AuthMiddleware(h.authService))
		{
			create := []gin.HandlerFunc{}
			if h.creationLimiter != nil {
				create = append(create, h.creationLimiter.RateLimitMiddleware())
			}
			create = append(create, h.CreateRecipe)
			authed.POST("", create...)

			authed.PATCH("/:id", h.UpdateRecipe)
			authed.DELETE("/:id", h.DeleteRecipe)
			authed.POST("/:id/favorite", h.FavoriteRecipe)
			authed.DELETE("/:id/favorite", h.UnfavoriteRecipe)
			authed.POST("/:id/shopping_cart", h.AddToShoppingCart)
			authed.DELETE("/:id/shopping_cart", h.RemoveFromShoppingCart)
		}
	}

	// Lives outside /recipes/:id to keep the route tree free of
	// static-vs-param conflicts.
	router.GET("/shopping_cart/download",
		middleware.AuthMiddleware(h.authService), h.DownloadShoppingCart)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := parseRecipeFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer := viewerID(c)
	if (filter.FavoritedOnly || filter.InCartOnly) && viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required for this filter"})
		return
	}

	views, err := h.recipeService.List(c.Request.Context(), filter, viewer)
	if err != nil {
		abortWithError(c, err)
		return
	}

	out := make([]RecipeResponse, len(views))
	for i, v := range views {
		out[i] = newRecipeResponse(v)
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	view, err := h.recipeService.Get(c.Request.Context(), id, viewerID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(*view))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.UserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	image, err := h.imageService.StoreRecipeImage(c.Request.Context(), req.Image)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.recipeService.Create(c.Request.Context(), userID, service.RecipeInput{
		Name:        req.Name,
		Image:       image,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: toIngredientSpecs(req.Ingredients),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeResponse(*view))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	var req updateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, exists := middleware.UserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	update := service.RecipeUpdate{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
	}
	if req.Image != nil {
		image, err := h.imageService.StoreRecipeImage(c.Request.Context(), *req.Image)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		update.Image = &image
	}
	if req.Ingredients != nil {
		specs := toIngredientSpecs(*req.Ingredients)
		update.Ingredients = &specs
	}

	view, err := h.recipeService.Update(c.Request.Context(), id, userID, update)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(*view))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.recipeService.Delete(c.Request.Context(), id, userID); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	recipe, err := h.toggleService.AddFavorite(c.Request.Context(), userID, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeShortResponse(*recipe))
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.toggleService.RemoveFavorite(c.Request.Context(), userID, id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	recipe, err := h.toggleService.AddToCart(c.Request.Context(), userID, id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeShortResponse(*recipe))
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	id, ok := recipeID(c)
	if !ok {
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.toggleService.RemoveFromCart(c.Request.Context(), userID, id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart hands the aggregated list to the caller as a
// plain-text attachment; richer rendering belongs to the consumer.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	items, err := h.shoppingListService.Aggregate(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	for _, item := range items {
		fmt.Fprintf(&b, "%s (%s): %d\n", item.Name, item.MeasurementUnit, item.Amount)
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(b.String()))
}

func parseRecipeFilter(c *gin.Context) (service.RecipeFilter, error) {
	filter := service.RecipeFilter{
		TagSlugs:      c.QueryArray("tags"),
		FavoritedOnly: boolQuery(c, "is_favorited"),
		InCartOnly:    boolQuery(c, "is_in_shopping_cart"),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			return filter, fmt.Errorf("invalid author id")
		}
		filter.AuthorID = &authorID
	}
	return filter, nil
}

func boolQuery(c *gin.Context, name string) bool {
	v := c.Query(name)
	return v == "1" || v == "true"
}

func recipeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return 0, false
	}
	return uint(id), true
}

func viewerID(c *gin.Context) *uuid.UUID {
	if id, ok := middleware.UserID(c); ok {
		return &id
	}
	return nil
}

func toIngredientSpecs(reqs []ingredientRequest) []service.IngredientSpec {
	specs := make([]service.IngredientSpec, len(reqs))
	for i, r := range reqs {
		specs[i] = service.IngredientSpec{ID: r.ID, Amount: r.Amount}
	}
	return specs
}
