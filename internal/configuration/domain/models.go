package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/homestead/internal/catalog/domain"
	plandomain "github.com/smallbiznis/homestead/internal/plan/domain"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusContacted Status = "contacted"
	StatusClosed    Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusContacted, StatusClosed:
		return true
	default:
		return false
	}
}

// Configuration is a customer's chosen set of options for one plan.
type Configuration struct {
	ID            snowflake.ID     `gorm:"primaryKey" json:"id"`
	PlanID        snowflake.ID     `gorm:"not null;index" json:"plan_id"`
	CustomerName  string           `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail string           `gorm:"type:text;not null" json:"customer_email"`
	CustomerPhone string           `gorm:"type:text;not null;default:''" json:"customer_phone"`
	Message       string           `gorm:"type:text;not null;default:''" json:"message"`
	Status        Status           `gorm:"type:text;not null;default:'submitted'" json:"status"`
	CreatedAt     time.Time        `gorm:"not null;index" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"not null" json:"updated_at"`
	Plan          *plandomain.Plan `gorm:"foreignKey:PlanID" json:"-"`
	Selections    []Selection      `gorm:"foreignKey:ConfigurationID" json:"selections"`
}

func (Configuration) TableName() string { return "customer_configurations" }

type Selection struct {
	ID              snowflake.ID          `gorm:"primaryKey" json:"id"`
	ConfigurationID snowflake.ID          `gorm:"not null;uniqueIndex:ux_configuration_selections_option" json:"configuration_id"`
	OptionID        snowflake.ID          `gorm:"not null;uniqueIndex:ux_configuration_selections_option" json:"option_id"`
	CreatedAt       time.Time             `gorm:"not null" json:"created_at"`
	Option          *catalogdomain.Option `gorm:"foreignKey:OptionID" json:"option,omitempty"`
}

func (Selection) TableName() string { return "configuration_selections" }

// View exposes the plan as a summary alongside the expanded selections.
type View struct {
	Configuration
	Plan *plandomain.Summary `json:"plan,omitempty"`
}

func (c Configuration) View() View {
	v := View{Configuration: c}
	if c.Plan != nil {
		summary := c.Plan.Summary()
		v.Plan = &summary
	}
	return v
}

// PlanName returns the linked plan's name when it was loaded.
func (c Configuration) PlanName() string {
	if c.Plan == nil {
		return ""
	}
	return c.Plan.Name
}
