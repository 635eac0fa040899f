package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Testimonial struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	CustomerName string       `gorm:"type:text;not null" json:"customer_name"`
	Location     string       `gorm:"type:text;not null;default:''" json:"location"`
	Quote        string       `gorm:"type:text;not null" json:"quote"`
	Rating       int          `gorm:"not null;default:5" json:"rating"`
	IsPublished  bool         `gorm:"not null;default:false" json:"is_published"`
	SortOrder    int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt    time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null" json:"updated_at"`
}

func (Testimonial) TableName() string { return "testimonials" }
