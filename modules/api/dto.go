package api

import "time"

// LoginRequest is the HTTP request body for signing in.
type LoginRequest struct {
	Username string `json:"username"`
}

// LoginResponse is the HTTP response for signing in.
type LoginResponse struct {
	User      UserResponse `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// UserResponse is the HTTP response for a signed-in user.
type UserResponse struct {
	Username  string    `json:"username"`
	LoginTime time.Time `json:"login_time"`
}

// SessionResponse is the HTTP response describing the current session.
type SessionResponse struct {
	Authenticated bool          `json:"authenticated"`
	User          *UserResponse `json:"user,omitempty"`
}

// CreateTaskRequest is the HTTP request body for creating a task.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    string  `json:"priority"`
	Category    *string `json:"category"`
}

// UpdateTaskRequest is the HTTP request body for updating a task.
// Omitted fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
}

// TaskResponse is the HTTP response for a task.
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
}

// CountsResponse summarizes the whole collection.
type CountsResponse struct {
	All       int `json:"all"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// ViewTasksResponse is the HTTP response for listing tasks.
type ViewTasksResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	Total      int            `json:"total"`
	Counts     CountsResponse `json:"counts"`
	Categories []string       `json:"categories"`
	Overdue    int            `json:"overdue"`
}

// PreferencesRequest is the HTTP request body for changing preferences.
type PreferencesRequest struct {
	DarkMode *bool `json:"dark_mode"`
}

// PreferencesResponse is the HTTP response for preferences.
type PreferencesResponse struct {
	DarkMode bool `json:"dark_mode"`
}

// ActivityEntry is one line of the activity feed.
type ActivityEntry struct {
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityResponse is the HTTP response for the activity feed.
type ActivityResponse struct {
	Entries []ActivityEntry `json:"entries"`
	Total   int             `json:"total"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
