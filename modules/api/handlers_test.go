package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/session"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskPort implements task.TaskPort for testing
type mockTaskPort struct {
	createTaskFunc func(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error)
	getTaskFunc    func(ctx context.Context, taskID string) (*task.TaskResponse, error)
	updateTaskFunc func(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error)
	toggleTaskFunc func(ctx context.Context, taskID string) (*task.TaskResponse, error)
	deleteTaskFunc func(ctx context.Context, taskID string) (*task.DeleteTaskResponse, error)
	viewTasksFunc  func(ctx context.Context, req *task.ViewTasksRequest) (*task.ViewTasksResponse, error)
}

func (m *mockTaskPort) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
	if m.createTaskFunc != nil {
		return m.createTaskFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) GetTask(ctx context.Context, taskID string) (*task.TaskResponse, error) {
	if m.getTaskFunc != nil {
		return m.getTaskFunc(ctx, taskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) UpdateTask(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error) {
	if m.updateTaskFunc != nil {
		return m.updateTaskFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) ToggleTask(ctx context.Context, taskID string) (*task.TaskResponse, error) {
	if m.toggleTaskFunc != nil {
		return m.toggleTaskFunc(ctx, taskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) DeleteTask(ctx context.Context, taskID string) (*task.DeleteTaskResponse, error) {
	if m.deleteTaskFunc != nil {
		return m.deleteTaskFunc(ctx, taskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) ListTasks(_ context.Context) (*task.ListTasksResponse, error) {
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) ViewTasks(ctx context.Context, req *task.ViewTasksRequest) (*task.ViewTasksResponse, error) {
	if m.viewTasksFunc != nil {
		return m.viewTasksFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

// mockActivityPort implements activity.ActivityPort for testing
type mockActivityPort struct {
	entries []activity.Entry
}

func (m *mockActivityPort) ListActivity(_ context.Context, limit int) (*activity.ListActivityResponse, error) {
	entries := m.entries
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return &activity.ListActivityResponse{Entries: entries, Total: len(entries)}, nil
}

func setupTestApp(tasks *mockTaskPort, sessions *mockSessionPort) *fiber.App {
	if sessions.validateTokenFunc == nil {
		sessions.validateTokenFunc = validSession
	}
	m := &APIModule{
		port:        3000,
		taskPort:    tasks,
		sessionPort: sessions,
		activityPort: &mockActivityPort{entries: []activity.Entry{
			{ID: "2", Type: "task.created", Subject: "t2", Message: "Created task \"b\""},
			{ID: "1", Type: "session.started", Subject: "alice", Message: "alice signed in"},
		}},
	}
	return m.newApp()
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer valid-token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, string(raw)
}

func sampleTask(id string) *task.TaskResponse {
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return &task.TaskResponse{ID: id, Title: "Write report", Priority: "medium", CreatedAt: now, UpdatedAt: now}
}

func TestHealthHandler(t *testing.T) {
	app := setupTestApp(&mockTaskPort{}, &mockSessionPort{})

	resp, body := doRequest(t, app, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"healthy"`)
}

func TestLogin(t *testing.T) {
	sessions := &mockSessionPort{
		loginFunc: func(_ context.Context, username string) (*session.LoginResponse, error) {
			if strings.TrimSpace(username) == "" {
				return nil, fmt.Errorf("login failed: %w", user.ErrInvalidUsername)
			}
			return &session.LoginResponse{
				User:  session.UserResponse{Username: strings.TrimSpace(username)},
				Token: "valid-token",
			}, nil
		},
	}
	app := setupTestApp(&mockTaskPort{}, sessions)

	resp, body := doRequest(t, app, "POST", "/api/v1/session", `{"username":"  alice "}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var out LoginResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Equal(t, "alice", out.User.Username)
	assert.Equal(t, "valid-token", out.Token)

	resp, _ = doRequest(t, app, "POST", "/api/v1/session", `{"username":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", "/api/v1/session", `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCurrentSessionAndLogout(t *testing.T) {
	loggedOut := false
	sessions := &mockSessionPort{
		currentSessionFunc: func(_ context.Context) (*session.SessionResponse, error) {
			return &session.SessionResponse{Authenticated: false}, nil
		},
		logoutFunc: func(_ context.Context) (*session.LogoutResponse, error) {
			loggedOut = true
			return &session.LogoutResponse{LoggedOut: true, Username: "alice"}, nil
		},
	}
	app := setupTestApp(&mockTaskPort{}, sessions)

	resp, body := doRequest(t, app, "GET", "/api/v1/session", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"authenticated":false`)

	resp, _ = doRequest(t, app, "DELETE", "/api/v1/session", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.True(t, loggedOut)
}

func TestTasksRequireAuthentication(t *testing.T) {
	app := setupTestApp(&mockTaskPort{}, &mockSessionPort{})

	req := httptest.NewRequest("GET", "/api/v1/tasks", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateTask(t *testing.T) {
	var got *task.CreateTaskRequest
	tasks := &mockTaskPort{
		createTaskFunc: func(_ context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
			got = req
			if strings.TrimSpace(req.Title) == "" {
				return nil, fmt.Errorf("create-task: %w: title is required", domain.ErrValidation)
			}
			return sampleTask("t1"), nil
		},
	}
	app := setupTestApp(tasks, &mockSessionPort{})

	resp, body := doRequest(t, app, "POST", "/api/v1/tasks",
		`{"title":"Write report","due_date":"2024-02-01","priority":"high","category":"Work"}`)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, body, `"id":"t1"`)
	require.NotNil(t, got)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2024-02-01", *got.DueDate)
	assert.Equal(t, "high", got.Priority)
	assert.Nil(t, got.Description)

	resp, body = doRequest(t, app, "POST", "/api/v1/tasks", `{"title":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "validation_error")
}

func TestTaskNotFound(t *testing.T) {
	notFound := func(_ context.Context, taskID string) (*task.TaskResponse, error) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, taskID)
	}
	tasks := &mockTaskPort{getTaskFunc: notFound, toggleTaskFunc: notFound}
	app := setupTestApp(tasks, &mockSessionPort{})

	resp, body := doRequest(t, app, "GET", "/api/v1/tasks/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "not_found")

	resp, _ = doRequest(t, app, "POST", "/api/v1/tasks/missing/toggle", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateTask_PartialBody(t *testing.T) {
	var got *task.UpdateTaskRequest
	tasks := &mockTaskPort{
		updateTaskFunc: func(_ context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error) {
			got = req
			return sampleTask(req.TaskID), nil
		},
	}
	app := setupTestApp(tasks, &mockSessionPort{})

	resp, _ := doRequest(t, app, "PUT", "/api/v1/tasks/t9", `{"category":""}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, "t9", got.TaskID)
	assert.Nil(t, got.Title)
	require.NotNil(t, got.Category)
	assert.Equal(t, "", *got.Category)
}

func TestDeleteTask_UnknownIDSucceeds(t *testing.T) {
	tasks := &mockTaskPort{
		deleteTaskFunc: func(_ context.Context, taskID string) (*task.DeleteTaskResponse, error) {
			return &task.DeleteTaskResponse{Deleted: taskID == "t1"}, nil
		},
	}
	app := setupTestApp(tasks, &mockSessionPort{})

	resp, _ := doRequest(t, app, "DELETE", "/api/v1/tasks/unknown", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestListTasks_PassesQuery(t *testing.T) {
	var got *task.ViewTasksRequest
	tasks := &mockTaskPort{
		viewTasksFunc: func(_ context.Context, req *task.ViewTasksRequest) (*task.ViewTasksResponse, error) {
			got = req
			if req.Sort == "size" {
				return nil, fmt.Errorf("%w: unknown sort key %q", domain.ErrValidation, req.Sort)
			}
			return &task.ViewTasksResponse{
				Tasks:  []task.TaskResponse{*sampleTask("t1")},
				Total:  1,
				Counts: task.CountsResponse{All: 3, Completed: 2, Pending: 1},
			}, nil
		},
	}
	app := setupTestApp(tasks, &mockSessionPort{})

	resp, body := doRequest(t, app, "GET", "/api/v1/tasks?search=report&status=pending&category=Work&sort=priority", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, got)
	assert.Equal(t, task.ViewTasksRequest{Search: "report", Status: "pending", Category: "Work", Sort: "priority"}, *got)

	var out ViewTasksResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.Len(t, out.Tasks, 1)
	assert.Equal(t, CountsResponse{All: 3, Completed: 2, Pending: 1}, out.Counts)
	assert.NotNil(t, out.Categories)

	resp, _ = doRequest(t, app, "GET", "/api/v1/tasks?sort=size", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPreferences(t *testing.T) {
	dark := false
	sessions := &mockSessionPort{
		getPreferencesFunc: func(_ context.Context) (*session.PreferencesResponse, error) {
			return &session.PreferencesResponse{DarkMode: dark}, nil
		},
		setPreferencesFunc: func(_ context.Context, darkMode bool) (*session.PreferencesResponse, error) {
			dark = darkMode
			return &session.PreferencesResponse{DarkMode: dark}, nil
		},
	}
	app := setupTestApp(&mockTaskPort{}, sessions)

	resp, body := doRequest(t, app, "PUT", "/api/v1/preferences", `{"dark_mode":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"dark_mode":true`)

	resp, body = doRequest(t, app, "GET", "/api/v1/preferences", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"dark_mode":true`)

	resp, _ = doRequest(t, app, "PUT", "/api/v1/preferences", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListActivity(t *testing.T) {
	app := setupTestApp(&mockTaskPort{}, &mockSessionPort{})

	resp, body := doRequest(t, app, "GET", "/api/v1/activity?limit=1", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out ActivityResponse
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Len(t, out.Entries, 1)
	assert.Equal(t, "task.created", out.Entries[0].Type)
}

func TestWriteError_Internal(t *testing.T) {
	tasks := &mockTaskPort{
		getTaskFunc: func(_ context.Context, _ string) (*task.TaskResponse, error) {
			return nil, errors.New("nats: timeout")
		},
	}
	app := setupTestApp(tasks, &mockSessionPort{})

	resp, body := doRequest(t, app, "GET", "/api/v1/tasks/t1", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, body, "nats")
}
