package option

import (
	"strings"

	"gorm.io/gorm"
)

// QueryOption mutates a query before it is executed.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type QueryOptionFunc func(db *gorm.DB) *gorm.DB

func (f QueryOptionFunc) Apply(db *gorm.DB) *gorm.DB {
	return f(db)
}

// OrderBy appends ORDER BY clauses in the given order.
func OrderBy(clauses ...string) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		for _, clause := range clauses {
			if clause = strings.TrimSpace(clause); clause != "" {
				db = db.Order(clause)
			}
		}
		return db
	})
}

func Where(query any, args ...any) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	})
}

func Limit(n int) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Limit(n)
	})
}

func Preload(associations ...string) QueryOption {
	return QueryOptionFunc(func(db *gorm.DB) *gorm.DB {
		for _, assoc := range associations {
			db = db.Preload(assoc)
		}
		return db
	})
}

// Published restricts a query to rows flagged is_published.
func Published() QueryOption {
	return Where("is_published = ?", true)
}
