package task

import (
	"time"
)

// Priority represents how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// DueDateLayout is the calendar date format used for due dates.
const DueDateLayout = "2006-01-02"

// Rank orders priorities for sorting; unknown values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Task represents a single to-do item.
// The JSON layout is the persisted storage format.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DueDate     *string   `json:"dueDate,omitempty"`
	Priority    Priority  `json:"priority"`
	Category    *string   `json:"category,omitempty"`
}

// Due returns the parsed due date, or false when the task has none
// or the stored value is not a calendar date.
func (t Task) Due() (time.Time, bool) {
	if t.DueDate == nil || *t.DueDate == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(DueDateLayout, *t.DueDate)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsOverdue reports whether a pending task is past its due date.
// A task due today is not overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	due, ok := t.Due()
	if !ok {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return due.Before(today)
}

// CountOverdue returns the number of overdue tasks in tasks.
func CountOverdue(tasks []Task, now time.Time) int {
	n := 0
	for _, t := range tasks {
		if t.IsOverdue(now) {
			n++
		}
	}
	return n
}
