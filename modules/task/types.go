package task

import (
	"context"
	"time"

	"github.com/example/task-tracker/domain/fault"
	domain "github.com/example/task-tracker/domain/task"
)

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    string  `json:"priority,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	TaskID string `json:"task_id"`
}

// UpdateTaskRequest is the request for updating a task. Nil fields are
// left unchanged; an empty string clears an optional field.
type UpdateTaskRequest struct {
	TaskID      string  `json:"task_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Category    *string `json:"category,omitempty"`
}

// ToggleTaskRequest is the request for flipping a task's completion.
type ToggleTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
	fault.Fault
}

// ListTasksRequest is the request for listing tasks in stored order.
type ListTasksRequest struct{}

// ListTasksResponse is the response for listing tasks.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Total int            `json:"total"`
	fault.Fault
}

// ViewTasksRequest selects a filtered, sorted view.
type ViewTasksRequest struct {
	Search   string `json:"search,omitempty"`
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	Sort     string `json:"sort,omitempty"`
}

// CountsResponse summarizes the whole collection.
type CountsResponse struct {
	All       int `json:"all"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// ViewTasksResponse is the response for a view request.
type ViewTasksResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Total      int            `json:"total"`
	Counts     CountsResponse `json:"counts"`
	Categories []string       `json:"categories"`
	Overdue    int            `json:"overdue"`
	fault.Fault
}

// TaskResponse is the response for a single task.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	DueDate     *string   `json:"due_date,omitempty"`
	Priority    string    `json:"priority"`
	Category    *string   `json:"category,omitempty"`
	Overdue     bool      `json:"overdue"`
	fault.Fault
}

// TaskPort defines the interface for task operations.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, taskID string) (*TaskResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	ToggleTask(ctx context.Context, taskID string) (*TaskResponse, error)
	DeleteTask(ctx context.Context, taskID string) (*DeleteTaskResponse, error)
	ListTasks(ctx context.Context) (*ListTasksResponse, error)
	ViewTasks(ctx context.Context, req *ViewTasksRequest) (*ViewTasksResponse, error)
}

// toTaskResponse converts a domain Task to a TaskResponse.
func toTaskResponse(t domain.Task, now time.Time) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Category:    t.Category,
		Overdue:     t.IsOverdue(now),
	}
}

func toTaskResponses(tasks []domain.Task, now time.Time) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t, now))
	}
	return out
}
