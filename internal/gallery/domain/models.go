package domain

import (
	"database/sql/driver"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// GalleryItem is a photo of completed work shown on the public gallery.
type GalleryItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"type:text;not null;default:''" json:"title"`
	Description string       `gorm:"type:text;not null;default:''" json:"description"`
	ImageURL    string       `gorm:"type:text;not null" json:"image_url"`
	Category    string       `gorm:"type:text;not null;default:'';index" json:"category"`
	Tags        Tags         `gorm:"not null" json:"tags"`
	SortOrder   int          `gorm:"not null;default:0" json:"sort_order"`
	IsPublished bool         `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}

func (GalleryItem) TableName() string { return "gallery_items" }

// Tags is stored as a Postgres text[]; other dialects keep the array
// literal in a text column.
type Tags []string

func NewTags(values []string) Tags {
	tags := make(Tags, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		tags = append(tags, v)
	}
	return tags
}

func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		t = Tags{}
	}
	return pq.StringArray(t).Value()
}

func (t *Tags) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*t = Tags(arr)
	return nil
}

func (Tags) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
