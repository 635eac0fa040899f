package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusReserved  Status = "reserved"
	StatusSold      Status = "sold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusReserved, StatusSold:
		return true
	default:
		return false
	}
}

// Lot is a buildable parcel offered for sale.
type Lot struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Slug        string       `gorm:"type:text;not null;uniqueIndex:ux_lots_slug" json:"slug"`
	Address     string       `gorm:"type:text;not null;default:''" json:"address"`
	Acreage     float64      `gorm:"not null;default:0" json:"acreage"`
	Price       int64        `gorm:"not null;default:0" json:"price"`
	Status      Status       `gorm:"type:text;not null;default:'available'" json:"status"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	IsPublished bool         `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
	Features    []LotFeature `gorm:"foreignKey:LotID" json:"features"`
	Images      []LotImage   `gorm:"foreignKey:LotID" json:"images"`
}

func (Lot) TableName() string { return "lots" }

type LotFeature struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	LotID     snowflake.ID `gorm:"not null;index" json:"lot_id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`
}

func (LotFeature) TableName() string { return "lot_features" }

type LotImage struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	LotID     snowflake.ID `gorm:"not null;index" json:"lot_id"`
	URL       string       `gorm:"type:text;not null" json:"url"`
	Caption   string       `gorm:"type:text;not null;default:''" json:"caption"`
	SortOrder int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (LotImage) TableName() string { return "lot_images" }
