package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// ByQuestion matches the exact question text
type ByQuestion struct {
	Question string
}

func (s ByQuestion) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("question = ?", s.Question)
}

// Oldest orders records by insertion time
func Oldest() Specification {
	return OrderBy{Field: "created_at"}
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}
