package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mealdex/backend/internal/logger"
	"github.com/mealdex/backend/internal/service"
)

type RecipeHandler struct {
	recipeService *service.RecipeService
	imageService  *service.ImageService
}

func NewRecipeHandler(recipeService *service.RecipeService, imageService *service.ImageService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageService:  imageService,
	}
}

// RegisterRoutes attaches the recipe routes. writeGuards (rate
// limiting) apply to mutating routes only.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("", append(writeGuards, h.CreateRecipe)...)
		recipes.PATCH("/:id", append(writeGuards, h.UpdateRecipe)...)
		recipes.PUT("/:id", append(writeGuards, h.ReplaceRecipe)...)
		recipes.DELETE("/:id", append(writeGuards, h.DeleteRecipe)...)
		recipes.POST("/:id/image", append(writeGuards, h.UploadRecipeImage)...)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), ownerID)
	if err != nil {
		logger.L().Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch recipes"})
		return
	}

	resp := make([]RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		resp = append(resp, newRecipeResponse(recipe))
	}
	c.JSON(http.StatusOK, gin.H{"recipes": resp})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), ownerID, id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetailResponse(*recipe))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), ownerID, service.RecipeInput{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       *req.Price,
		Description: req.Description,
		Link:        req.Link,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newRecipeDetailResponse(*recipe))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), ownerID, id, service.RecipePatch{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetailResponse(*recipe))
}

func (h *RecipeHandler) ReplaceRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req ReplaceRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingErrorBody(err))
		return
	}

	in := service.RecipeInput{
		Title:       *req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Description: *req.Description,
	}
	if req.Link != nil {
		in.Link = *req.Link
	}
	if req.TagIDs != nil {
		in.TagIDs = *req.TagIDs
	}

	recipe, err := h.recipeService.ReplaceRecipe(c.Request.Context(), ownerID, id, in)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetailResponse(*recipe))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), ownerID, id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) UploadRecipeImage(c *gin.Context) {
	ownerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	if h.imageService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "image storage not configured"})
		return
	}

	// Ownership check before touching S3.
	if _, err := h.recipeService.GetRecipe(c.Request.Context(), ownerID, id); err != nil {
		writeServiceError(c, err)
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": map[string]string{"image": "this field is required"}})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	url, err := h.imageService.UploadRecipeImage(
		c.Request.Context(), id, header.Filename, header.Header.Get("Content-Type"), file,
	)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	recipe, err := h.recipeService.SetImageURL(c.Request.Context(), ownerID, id, url)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newRecipeDetailResponse(*recipe))
}
