package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Category groups options into one step of the customization wizard.
type Category struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	StepOrder   int          `gorm:"not null;default:0;index" json:"step_order"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (Category) TableName() string { return "customization_categories" }

// Option is a selectable finish or upgrade. A nil PlanID applies to every plan.
type Option struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id"`
	CategoryID   snowflake.ID  `gorm:"not null;index" json:"category_id"`
	PlanID       *snowflake.ID `gorm:"index" json:"plan_id"`
	Name         string        `gorm:"type:text;not null" json:"name"`
	Description  string        `gorm:"type:text;not null;default:''" json:"description"`
	ImageURL     string        `gorm:"type:text;not null;default:''" json:"image_url"`
	UpgradePrice int64         `gorm:"not null;default:0" json:"upgrade_price"`
	IsDefault    bool          `gorm:"not null;default:false" json:"is_default"`
	SortOrder    int           `gorm:"not null;default:0" json:"sort_order"`
	IsActive     bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null" json:"updated_at"`
	Category     *Category     `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

func (Option) TableName() string { return "customization_options" }

// OptionVisible reports whether option can be offered. With a plan id the
// option must be global or scoped to that plan; without one any active
// option is visible.
func OptionVisible(option Option, planID *snowflake.ID) bool {
	if !option.IsActive {
		return false
	}
	if planID == nil {
		return true
	}
	return option.PlanID == nil || *option.PlanID == *planID
}

// CatalogCategory is a category with the options visible to the reader.
type CatalogCategory struct {
	Category
	Options []Option `json:"options"`
}
