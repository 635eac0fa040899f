package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Plan is a house plan offered by the builder.
type Plan struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Name         string       `gorm:"type:text;not null" json:"name"`
	Slug         string       `gorm:"type:text;not null;uniqueIndex:ux_plans_slug" json:"slug"`
	Description  string       `gorm:"type:text;not null;default:''" json:"description"`
	Bedrooms     int          `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms    float64      `gorm:"not null;default:0" json:"bathrooms"`
	SquareFeet   int          `gorm:"not null;default:0" json:"square_feet"`
	Stories      int          `gorm:"not null;default:1" json:"stories"`
	GarageSpaces int          `gorm:"not null;default:0" json:"garage_spaces"`
	BasePrice    int64        `gorm:"not null;default:0" json:"base_price"`
	FloorPlanURL string       `gorm:"column:floor_plan_url;type:text;not null;default:''" json:"floor_plan_url"`
	IsPublished  bool         `gorm:"not null;default:false" json:"is_published"`
	SortOrder    int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
	Images       []PlanImage  `gorm:"foreignKey:PlanID" json:"images"`
}

func (Plan) TableName() string { return "plans" }

// PrimaryImage returns the first image by sort order, if any.
func (p Plan) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

type PlanImage struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	PlanID    snowflake.ID `gorm:"not null;index" json:"plan_id"`
	URL       string       `gorm:"type:text;not null" json:"url"`
	Caption   string       `gorm:"type:text;not null;default:''" json:"caption"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (PlanImage) TableName() string { return "plan_images" }

// Summary is the compact plan reference embedded in other resources.
type Summary struct {
	ID   snowflake.ID `json:"id"`
	Name string       `json:"name"`
	Slug string       `json:"slug"`
}

func (p Plan) Summary() Summary {
	return Summary{ID: p.ID, Name: p.Name, Slug: p.Slug}
}
