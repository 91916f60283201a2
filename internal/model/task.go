package model

import "time"

// Task priorities. The set is advisory, stored values are not checked against it.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Task struct {
	ID          uint      `gorm:"primaryKey"`
	Text        string    `gorm:"type:text;not null"`
	Completed   bool      `gorm:"not null;default:false"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	DueDate     *time.Time
	CompletedAt *time.Time // set by Toggle when the task becomes completed
	CategoryID  uint       `gorm:"not null;index"`
	Priority    string     `gorm:"size:20;not null;default:medium"`

	Category Category `gorm:"foreignKey:CategoryID"`
	Tags     []Tag    `gorm:"many2many:task_tags;constraint:OnDelete:CASCADE"`
}
