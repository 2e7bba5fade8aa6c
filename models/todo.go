package models

import (
	"time"
)

// TodoStatus is the lifecycle state of a todo. Stored values are always
// one of the canonical constants below; input casing and the legacy
// "in progress" spelling are canonicalized before storage.
type TodoStatus string

const (
	StatusPending    TodoStatus = "pending"
	StatusInProgress TodoStatus = "in_progress"
	StatusCompleted  TodoStatus = "completed"
)

// TodoPriority is the urgency level of a todo.
type TodoPriority string

const (
	PriorityLow    TodoPriority = "low"
	PriorityMedium TodoPriority = "medium"
	PriorityHigh   TodoPriority = "high"
)

type Todo struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string       `gorm:"not null" json:"title"`
	Description string       `gorm:"not null" json:"description"`
	Status      TodoStatus   `gorm:"not null;default:'pending'" json:"status"`
	Priority    TodoPriority `gorm:"not null;default:'low'" json:"priority"`
	DueDate     time.Time    `gorm:"not null" json:"dueDate"`
	Image       string       `json:"image,omitempty"`
	CreatedAt   time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
}
