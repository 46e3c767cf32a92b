package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mealdex/backend/internal/models"
)

var ErrTagNotFound = errors.New("tag not found")

// TagService mirrors the recipe ownership contract for tags.
type TagService struct {
	db *gorm.DB
}

func NewTagService(db *gorm.DB) *TagService {
	return &TagService{db: db}
}

// ListTags returns the caller's tags ordered by name.
func (s *TagService) ListTags(ctx context.Context, ownerID uuid.UUID) ([]models.Tag, error) {
	var tags []models.Tag
	err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("name").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag owned by the caller.
func (s *TagService) CreateTag(ctx context.Context, ownerID uuid.UUID, name string) (*models.Tag, error) {
	if l := len(name); l < 1 || l > 255 {
		return nil, &ValidationError{Field: "name", Message: "must be between 1 and 255 characters"}
	}
	tag := models.Tag{UserID: ownerID, Name: name}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// RenameTag updates a tag's name, scoped to its owner.
func (s *TagService) RenameTag(ctx context.Context, ownerID uuid.UUID, id uint, name string) (*models.Tag, error) {
	if l := len(name); l < 1 || l > 255 {
		return nil, &ValidationError{Field: "name", Message: "must be between 1 and 255 characters"}
	}

	var tag models.Tag
	err := s.db.WithContext(ctx).Where("user_id = ?", ownerID).First(&tag, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Model(&tag).Update("name", name).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// DeleteTag removes a tag owned by the caller, detaching it from any
// recipes that reference it.
func (s *TagService) DeleteTag(ctx context.Context, ownerID uuid.UUID, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tag models.Tag
		err := tx.Where("user_id = ?", ownerID).First(&tag, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTagNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE tag_id = ?", tag.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&tag).Error
	})
}
