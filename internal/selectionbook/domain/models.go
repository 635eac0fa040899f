package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
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

// SelectionBook is a denormalized snapshot of a customer's choices kept for
// the sales and build workflow. PlanID is informational and not enforced.
type SelectionBook struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	CustomerName  string            `gorm:"type:text;not null;default:''" json:"customer_name"`
	CustomerEmail string            `gorm:"type:text;not null;default:''" json:"customer_email"`
	CustomerPhone string            `gorm:"type:text;not null;default:''" json:"customer_phone"`
	PlanID        *snowflake.ID     `json:"plan_id"`
	PlanName      string            `gorm:"type:text;not null;default:''" json:"plan_name"`
	LotLabel      string            `gorm:"type:text;not null;default:''" json:"lot_label"`
	Selections    datatypes.JSONMap `gorm:"not null" json:"selections"`
	Notes         string            `gorm:"type:text;not null;default:''" json:"notes"`
	TotalUpgrades int64             `gorm:"not null;default:0" json:"total_upgrades"`
	Status        Status            `gorm:"type:text;not null;default:'draft'" json:"status"`
	CreatedBy     string            `gorm:"type:text;not null;default:''" json:"created_by"`
	CreatedAt     time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;index" json:"updated_at"`
}

func (SelectionBook) TableName() string { return "selection_books" }

// SelectionEntry is one category line of the selections payload.
type SelectionEntry struct {
	Category string
	Choices  []string
}

// Entries flattens the selections payload into category lines sorted by
// category label. Values that do not match the accepted shape are skipped.
func (b SelectionBook) Entries() []SelectionEntry {
	entries := make([]SelectionEntry, 0, len(b.Selections))
	for category, raw := range b.Selections {
		choices, ok := choiceList(raw)
		if !ok {
			continue
		}
		entries = append(entries, SelectionEntry{Category: category, Choices: choices})
	}
	sortEntries(entries)
	return entries
}
