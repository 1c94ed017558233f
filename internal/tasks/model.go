package tasks

import "time"

const (
	StatusToDo       = "To Do"
	StatusInProgress = "In Progress"
	StatusDone       = "Done"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"default:''" json:"description"`
	Priority    string     `gorm:"size:20;default:Medium;not null" json:"priority"`
	Status      string     `gorm:"size:20;default:'To Do';not null" json:"status"`
	DueDate     *time.Time `json:"due_date"`
	UserID      uint       `gorm:"index;not null" json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ValidStatus(s string) bool {
	return s == StatusToDo || s == StatusInProgress || s == StatusDone
}

func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
