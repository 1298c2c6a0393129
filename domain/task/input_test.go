package task

import (
	"errors"
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	task, err := NewTask("id-1", CreateInput{
		Title:       "  Buy milk  ",
		Description: strPtr("   "),
		Category:    strPtr(" Home "),
		DueDate:     strPtr(""),
	}, now)
	if err != nil {
		t.Fatalf("NewTask() error = %v", err)
	}

	if task.Title != "Buy milk" {
		t.Errorf("expected trimmed title, got %q", task.Title)
	}
	if task.Description != nil {
		t.Errorf("expected blank description to be absent, got %q", *task.Description)
	}
	if task.Category == nil || *task.Category != "Home" {
		t.Errorf("expected category Home, got %v", task.Category)
	}
	if task.DueDate != nil {
		t.Errorf("expected no due date, got %q", *task.DueDate)
	}
	if task.Priority != PriorityMedium {
		t.Errorf("expected default priority medium, got %q", task.Priority)
	}
	if task.Completed || !task.CreatedAt.Equal(now) || !task.UpdatedAt.Equal(now) {
		t.Errorf("unexpected defaults: %+v", task)
	}
}

func TestNewTask_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   CreateInput
	}{
		{"empty title", CreateInput{Title: "   "}},
		{"bad due date", CreateInput{Title: "x", DueDate: strPtr("tomorrow")}},
		{"bad priority", CreateInput{Title: "x", Priority: "urgent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTask("id", tt.in, time.Now())
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestUpdateInput_Apply(t *testing.T) {
	orig := Task{ID: "1", Title: "Old", Priority: PriorityLow, Category: strPtr("Work"), Description: strPtr("d")}

	high := PriorityHigh
	updated, err := UpdateInput{Title: strPtr(" New "), Priority: &high, Category: strPtr("")}.Apply(orig)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if updated.Title != "New" || updated.Priority != PriorityHigh {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if updated.Category != nil {
		t.Errorf("expected cleared category, got %q", *updated.Category)
	}
	if updated.Description == nil || *updated.Description != "d" {
		t.Errorf("description must be unchanged")
	}
	if orig.Title != "Old" {
		t.Errorf("original task must not be modified")
	}

	if _, err := (UpdateInput{Title: strPtr("")}).Apply(orig); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for empty title, got %v", err)
	}
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"past due pending", Task{DueDate: strPtr("2024-06-09")}, true},
		{"due today", Task{DueDate: strPtr("2024-06-10")}, false},
		{"past due completed", Task{DueDate: strPtr("2024-06-01"), Completed: true}, false},
		{"no due date", Task{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.task.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
