package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/mealdex/backend/internal/models"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// ValidationError reports a field whose value violates a model constraint.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// RecipeService handles recipe operations. Every method takes the owner
// id explicitly: a recipe owned by someone else is indistinguishable
// from a missing one.
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// RecipeInput carries the full field set for create and replace.
type RecipeInput struct {
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Description string
	Link        string
	TagIDs      []uint
}

// RecipePatch carries a partial update. A nil field is absent and
// leaves the stored value untouched.
type RecipePatch struct {
	Title       *string
	TimeMinutes *int
	Price       *decimal.Decimal
	Description *string
	Link        *string
	TagIDs      *[]uint
}

// ListRecipes returns the caller's recipes, most recently created first.
func (s *RecipeService) ListRecipes(ctx context.Context, ownerID uuid.UUID) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", ownerID).
		Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetRecipe retrieves a recipe by id, scoped to its owner.
func (s *RecipeService) GetRecipe(ctx context.Context, ownerID uuid.UUID, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ?", ownerID).
		First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// CreateRecipe creates a recipe owned by the caller. TimeMinutes
// defaults to 1 when unset. Tags are resolved by id with no ownership
// cross-check.
func (s *RecipeService) CreateRecipe(ctx context.Context, ownerID uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	if in.TimeMinutes == 0 {
		in.TimeMinutes = 1
	}
	if err := validateRecipeInput(in.Title, in.TimeMinutes, in.Price, in.Description); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		UserID:      ownerID,
		Title:       in.Title,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Description: in.Description,
		Link:        in.Link,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		recipe.Tags = tags
		return tx.Create(&recipe).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, ownerID, recipe.ID)
}

// UpdateRecipe applies a partial update. Only fields present in the
// patch change; the owner can never change.
func (s *RecipeService) UpdateRecipe(ctx context.Context, ownerID uuid.UUID, id uint, patch RecipePatch) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := tx.Where("user_id = ?", ownerID).First(&recipe, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.TimeMinutes != nil {
			updates["time_minutes"] = *patch.TimeMinutes
		}
		if patch.Price != nil {
			updates["price"] = *patch.Price
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Link != nil {
			updates["link"] = *patch.Link
		}

		if err := validatePatch(recipe, patch); err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
				return err
			}
		}

		if patch.TagIDs != nil {
			tags, err := resolveTags(tx, *patch.TagIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&recipe).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, ownerID, id)
}

// ReplaceRecipe overwrites the full mutable field set. Ownership and
// owner immutability follow the same rules as UpdateRecipe.
func (s *RecipeService) ReplaceRecipe(ctx context.Context, ownerID uuid.UUID, id uint, in RecipeInput) (*models.Recipe, error) {
	if err := validateRecipeInput(in.Title, in.TimeMinutes, in.Price, in.Description); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := tx.Where("user_id = ?", ownerID).First(&recipe, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"title":        in.Title,
			"time_minutes": in.TimeMinutes,
			"price":        in.Price,
			"description":  in.Description,
			"link":         in.Link,
		}
		if err := tx.Model(&recipe).Updates(updates).Error; err != nil {
			return err
		}

		tags, err := resolveTags(tx, in.TagIDs)
		if err != nil {
			return err
		}
		return tx.Model(&recipe).Association("Tags").Replace(&tags)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, ownerID, id)
}

// DeleteRecipe removes a recipe owned by the caller.
func (s *RecipeService) DeleteRecipe(ctx context.Context, ownerID uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		err := tx.Where("user_id = ?", ownerID).First(&recipe, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&recipe).Error
	})
}

// SetImageURL stores the uploaded image location on an owned recipe.
func (s *RecipeService) SetImageURL(ctx context.Context, ownerID uuid.UUID, id uint, url string) (*models.Recipe, error) {
	result := s.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Update("image_url", url)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrRecipeNotFound
	}
	return s.GetRecipe(ctx, ownerID, id)
}

// resolveTags looks up tags by id, preserving the order they were
// given in. No ownership filter: attaching another user's tag is
// allowed, matching the original behavior.
func resolveTags(tx *gorm.DB, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var tags []models.Tag
	if err := tx.Find(&tags, ids).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Tag, len(tags))
	for _, tag := range tags {
		byID[tag.ID] = tag
	}

	ordered := make([]models.Tag, 0, len(ids))
	for _, id := range ids {
		tag, ok := byID[id]
		if !ok {
			return nil, &ValidationError{Field: "tags", Message: "unknown tag id"}
		}
		ordered = append(ordered, tag)
	}
	return ordered, nil
}

// maxPrice is the largest value a decimal(6,2) column can hold.
var maxPrice = decimal.RequireFromString("9999.99")

func validateRecipeInput(title string, timeMinutes int, price decimal.Decimal, description string) error {
	if l := len(title); l < 1 || l > 255 {
		return &ValidationError{Field: "title", Message: "must be between 1 and 255 characters"}
	}
	if timeMinutes < 1 {
		return &ValidationError{Field: "time_minutes", Message: "must be at least 1"}
	}
	if err := validatePrice(price); err != nil {
		return err
	}
	if len(description) > 255 {
		return &ValidationError{Field: "description", Message: "must be at most 255 characters"}
	}
	return nil
}

func validatePatch(current models.Recipe, patch RecipePatch) error {
	title := current.Title
	if patch.Title != nil {
		title = *patch.Title
	}
	timeMinutes := current.TimeMinutes
	if patch.TimeMinutes != nil {
		timeMinutes = *patch.TimeMinutes
	}
	price := current.Price
	if patch.Price != nil {
		price = *patch.Price
	}
	description := current.Description
	if patch.Description != nil {
		description = *patch.Description
	}
	return validateRecipeInput(title, timeMinutes, price, description)
}

func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return &ValidationError{Field: "price", Message: "must not be negative"}
	}
	if price.Exponent() < -2 {
		return &ValidationError{Field: "price", Message: "must have at most 2 decimal places"}
	}
	if price.GreaterThan(maxPrice) {
		return &ValidationError{Field: "price", Message: "must have at most 6 digits"}
	}
	return nil
}
