package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Recipe belongs to the user that created it. There is no soft delete:
// a deleted recipe is gone, and deleting the owning user cascades.
type Recipe struct {
	ID          uint            `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	UserID      uuid.UUID       `gorm:"type:varchar(36);not null;index" json:"user_id"`
	User        User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Title       string          `gorm:"size:255;not null" json:"title"`
	TimeMinutes int             `gorm:"not null;default:1" json:"time_minutes"`
	Price       decimal.Decimal `gorm:"type:decimal(6,2)" json:"price"`
	Description string          `gorm:"size:255" json:"description"`
	Link        string          `gorm:"size:255" json:"link"`
	ImageURL    string          `gorm:"size:255" json:"image_url"`
	Tags        []Tag           `gorm:"many2many:recipe_tags" json:"tags"`
}
