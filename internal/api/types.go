package api

import (
	"github.com/shopspring/decimal"

	"github.com/mealdex/backend/internal/models"
)

// CreateRecipeRequest represents the request body for creating a recipe.
// Price is a pointer so an omitted field is distinguishable from 0.
type CreateRecipeRequest struct {
	Title       string           `json:"title" binding:"required,max=255"`
	TimeMinutes int              `json:"time_minutes" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Description string           `json:"description" binding:"max=255"`
	Link        string           `json:"link" binding:"omitempty,max=255"`
	TagIDs      []uint           `json:"tags"`
}

// UpdateRecipeRequest represents a partial update. Every field is a
// pointer: nil means absent, and absent fields are never applied.
// There is deliberately no user field; ownership cannot change.
type UpdateRecipeRequest struct {
	Title       *string          `json:"title" binding:"omitempty,max=255"`
	TimeMinutes *int             `json:"time_minutes" binding:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description" binding:"omitempty,max=255"`
	Link        *string          `json:"link" binding:"omitempty,max=255"`
	TagIDs      *[]uint          `json:"tags"`
}

// ReplaceRecipeRequest represents a full update: the mandatory fields
// must all be present.
type ReplaceRecipeRequest struct {
	Title       *string          `json:"title" binding:"required,max=255"`
	TimeMinutes *int             `json:"time_minutes" binding:"required,min=1"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Description *string          `json:"description" binding:"required,max=255"`
	Link        *string          `json:"link" binding:"omitempty,max=255"`
	TagIDs      *[]uint          `json:"tags"`
}

// CreateTagRequest represents the request body for creating or
// renaming a tag.
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued JWT
type TokenResponse struct {
	Token string `json:"token"`
}

// RecipeResponse is the list form of a recipe. Tags serialize as ids.
type RecipeResponse struct {
	ID          uint            `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        string          `json:"link"`
	TagIDs      []uint          `json:"tags"`
}

// RecipeDetailResponse is the detail form: the list fields plus
// description and image URL.
type RecipeDetailResponse struct {
	RecipeResponse
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// TagResponse is the serialized form of a tag
type TagResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func newRecipeResponse(r models.Recipe) RecipeResponse {
	tagIDs := make([]uint, 0, len(r.Tags))
	for _, tag := range r.Tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	return RecipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price,
		Link:        r.Link,
		TagIDs:      tagIDs,
	}
}

func newRecipeDetailResponse(r models.Recipe) RecipeDetailResponse {
	return RecipeDetailResponse{
		RecipeResponse: newRecipeResponse(r),
		Description:    r.Description,
		ImageURL:       r.ImageURL,
	}
}

func newTagResponse(t models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}
