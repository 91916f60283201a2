package model

import "time"

// MaxNameLength bounds category and tag names.
const MaxNameLength = 50

type Tag struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"size:50;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TaskTag is a row of the task_tags junction table. It has no identity of its own.
type TaskTag struct {
	TaskID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}
