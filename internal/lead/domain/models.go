package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Interest string

const (
	InterestGeneral  Interest = "general"
	InterestPlan     Interest = "plan"
	InterestProperty Interest = "property"
	InterestLot      Interest = "lot"
)

func (i Interest) Valid() bool {
	switch i {
	case InterestGeneral, InterestPlan, InterestProperty, InterestLot:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusNew       Status = "new"
	StatusContacted Status = "contacted"
	StatusClosed    Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusClosed:
		return true
	default:
		return false
	}
}

// Lead is a contact form submission.
type Lead struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"type:text;not null" json:"name"`
	Email       string        `gorm:"type:text;not null" json:"email"`
	Phone       string        `gorm:"type:text;not null;default:''" json:"phone"`
	Message     string        `gorm:"type:text;not null;default:''" json:"message"`
	Interest    Interest      `gorm:"type:text;not null;default:'general'" json:"interest"`
	ReferenceID *snowflake.ID `json:"reference_id,omitempty"`
	Status      Status        `gorm:"type:text;not null;default:'new'" json:"status"`
	IPHash      string        `gorm:"column:ip_hash;type:text;not null;default:''" json:"-"`
	CreatedAt   time.Time     `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null" json:"updated_at"`
}

func (Lead) TableName() string { return "leads" }
