package model

import "time"

type Category struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// DefaultCategoryNames are inserted, in this order, into an empty categories table.
var DefaultCategoryNames = []string{"Personal", "Work", "Home", "Health", "Learning", "Finance"}
