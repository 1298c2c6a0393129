package task

import (
	"fmt"
	"strings"
	"time"
)

// CreateInput holds the caller-supplied fields for a new task.
type CreateInput struct {
	Title       string
	Description *string
	DueDate     *string
	Priority    Priority
	Category    *string
}

// UpdateInput lists the fields to replace on an existing task.
// A nil field is left unchanged. A pointer to an empty string clears
// an optional field.
type UpdateInput struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *Priority
	Category    *string
}

// NormalizeTitle trims the title and rejects an empty result.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title is required", ErrValidation)
	}
	return title, nil
}

// NormalizeOptional trims s; empty results become nil.
func NormalizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// NormalizeDueDate trims the due date and checks it is a calendar date.
func NormalizeDueDate(s *string) (*string, error) {
	v := NormalizeOptional(s)
	if v == nil {
		return nil, nil
	}
	if _, err := time.Parse(DueDateLayout, *v); err != nil {
		return nil, fmt.Errorf("%w: due date %q must be YYYY-MM-DD", ErrValidation, *v)
	}
	return v, nil
}

// ParsePriority parses a priority name. An empty string yields def.
func ParsePriority(s string, def Priority) (Priority, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def, nil
	}
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrValidation, s)
	}
	return p, nil
}

// NewTask builds a validated task from input. The caller supplies id and time.
func NewTask(id string, in CreateInput, now time.Time) (Task, error) {
	title, err := NormalizeTitle(in.Title)
	if err != nil {
		return Task{}, err
	}
	due, err := NormalizeDueDate(in.DueDate)
	if err != nil {
		return Task{}, err
	}
	priority, err := ParsePriority(string(in.Priority), PriorityMedium)
	if err != nil {
		return Task{}, err
	}
	return Task{
		ID:          id,
		Title:       title,
		Description: NormalizeOptional(in.Description),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
		DueDate:     due,
		Priority:    priority,
		Category:    NormalizeOptional(in.Category),
	}, nil
}

// Apply returns a copy of t with the fields in in replaced.
// UpdatedAt is left to the caller.
func (in UpdateInput) Apply(t Task) (Task, error) {
	if in.Title != nil {
		title, err := NormalizeTitle(*in.Title)
		if err != nil {
			return Task{}, err
		}
		t.Title = title
	}
	if in.Description != nil {
		t.Description = NormalizeOptional(in.Description)
	}
	if in.DueDate != nil {
		due, err := NormalizeDueDate(in.DueDate)
		if err != nil {
			return Task{}, err
		}
		t.DueDate = due
	}
	if in.Priority != nil {
		p, err := ParsePriority(string(*in.Priority), t.Priority)
		if err != nil {
			return Task{}, err
		}
		t.Priority = p
	}
	if in.Category != nil {
		t.Category = NormalizeOptional(in.Category)
	}
	return t, nil
}
