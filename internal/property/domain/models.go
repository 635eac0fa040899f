package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
)

type Status string

const (
	StatusAvailable     Status = "available"
	StatusUnderContract Status = "under_contract"
	StatusSold          Status = "sold"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusUnderContract, StatusSold:
		return true
	default:
		return false
	}
}

// Label is the human readable status printed on flyers.
func (s Status) Label() string {
	switch s {
	case StatusUnderContract:
		return "Under Contract"
	case StatusSold:
		return "Sold"
	default:
		return "Available"
	}
}

// Property is an available home listing.
type Property struct {
	ID          snowflake.ID     `gorm:"primaryKey" json:"id"`
	PlanID      *snowflake.ID    `gorm:"index" json:"plan_id"`
	Title       string           `gorm:"type:text;not null" json:"title"`
	Slug        string           `gorm:"type:text;not null;uniqueIndex:ux_properties_slug" json:"slug"`
	Address     string           `gorm:"type:text;not null;default:''" json:"address"`
	City        string           `gorm:"type:text;not null;default:''" json:"city"`
	State       string           `gorm:"type:text;not null;default:''" json:"state"`
	PostalCode  string           `gorm:"type:text;not null;default:''" json:"postal_code"`
	Price       int64            `gorm:"not null;default:0" json:"price"`
	Status      Status           `gorm:"type:text;not null;default:'available'" json:"status"`
	Bedrooms    int              `gorm:"not null;default:0" json:"bedrooms"`
	Bathrooms   float64          `gorm:"not null;default:0" json:"bathrooms"`
	SquareFeet  int              `gorm:"not null;default:0" json:"square_feet"`
	LotSize     string           `gorm:"type:text;not null;default:''" json:"lot_size"`
	Description string           `gorm:"type:text;not null;default:''" json:"description"`
	IsFeatured  bool             `gorm:"not null;default:false" json:"is_featured"`
	IsPublished bool             `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time        `gorm:"not null" json:"updated_at"`
	Images      []PropertyImage  `gorm:"foreignKey:PropertyID" json:"images"`
	Plan        *plandomain.Plan `gorm:"foreignKey:PlanID" json:"-"`
}

func (Property) TableName() string { return "properties" }

// FullAddress joins the street and locality parts that are set.
func (p Property) FullAddress() string {
	locality := p.City
	if p.State != "" {
		if locality != "" {
			locality += ", "
		}
		locality += p.State
	}
	if p.PostalCode != "" {
		if locality != "" {
			locality += " "
		}
		locality += p.PostalCode
	}
	switch {
	case p.Address == "":
		return locality
	case locality == "":
		return p.Address
	default:
		return p.Address + ", " + locality
	}
}

func (p Property) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0].URL
}

// PlanName returns the linked plan's name when it was loaded.
func (p Property) PlanName() string {
	if p.Plan == nil {
		return ""
	}
	return p.Plan.Name
}

type PropertyImage struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	PropertyID snowflake.ID `gorm:"not null;index" json:"property_id"`
	URL        string       `gorm:"type:text;not null" json:"url"`
	Caption    string       `gorm:"type:text;not null;default:''" json:"caption"`
	SortOrder  int          `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt  time.Time    `gorm:"not null" json:"created_at"`
}

func (PropertyImage) TableName() string { return "property_images" }

// View is the API representation, exposing the linked plan as a summary.
type View struct {
	Property
	FullAddress string              `json:"full_address"`
	Plan        *plandomain.Summary `json:"plan,omitempty"`
}

func (p Property) View() View {
	v := View{Property: p, FullAddress: p.FullAddress()}
	if p.Plan != nil {
		summary := p.Plan.Summary()
		v.Plan = &summary
	}
	return v
}
