package api

import (
	"errors"
	"log"

	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/modules/task"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	api := app.Group("/api/v1")

	api.Post("/session", m.login)
	api.Get("/session", m.currentSession)

	auth := AuthMiddleware(m.sessionPort)
	api.Delete("/session", auth, m.logout)

	tasks := api.Group("/tasks", auth)
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Get("/:id", m.getTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Delete("/:id", m.deleteTask)
	tasks.Post("/:id/toggle", m.toggleTask)

	api.Get("/preferences", auth, m.getPreferences)
	api.Put("/preferences", auth, m.setPreferences)

	api.Get("/activity", auth, m.listActivity)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// writeError maps domain errors to HTTP responses.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, user.ErrInvalidUsername):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	case errors.Is(err, user.ErrUnauthenticated), errors.Is(err, user.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error:   "unauthorized",
			Message: err.Error(),
		})
	default:
		log.Printf("[api] Request %s %s failed: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "internal_error",
			Message: "Internal Server Error",
		})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
	})
}

// login handles POST /api/v1/session.
func (m *APIModule) login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := m.sessionPort.Login(c.UserContext(), req.Username)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(LoginResponse{
		User: UserResponse{
			Username:  resp.User.Username,
			LoginTime: resp.User.LoginTime,
		},
		Token:     resp.Token,
		ExpiresAt: resp.ExpiresAt,
	})
}

// currentSession handles GET /api/v1/session.
func (m *APIModule) currentSession(c *fiber.Ctx) error {
	resp, err := m.sessionPort.CurrentSession(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}

	out := SessionResponse{Authenticated: resp.Authenticated}
	if resp.User != nil {
		out.User = &UserResponse{Username: resp.User.Username, LoginTime: resp.User.LoginTime}
	}
	return c.JSON(out)
}

// logout handles DELETE /api/v1/session.
func (m *APIModule) logout(c *fiber.Ctx) error {
	if _, err := m.sessionPort.Logout(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listTasks handles GET /api/v1/tasks.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	resp, err := m.taskPort.ViewTasks(c.UserContext(), &task.ViewTasksRequest{
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
	})
	if err != nil {
		return writeError(c, err)
	}

	tasks := make([]TaskResponse, 0, len(resp.Tasks))
	for _, t := range resp.Tasks {
		tasks = append(tasks, toTaskResponse(t))
	}
	categories := resp.Categories
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(ViewTasksResponse{
		Tasks: tasks,
		Total: resp.Total,
		Counts: CountsResponse{
			All:       resp.Counts.All,
			Completed: resp.Counts.Completed,
			Pending:   resp.Counts.Pending,
		},
		Categories: categories,
		Overdue:    resp.Overdue,
	})
}

// createTask handles POST /api/v1/tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := m.taskPort.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(*resp))
}

// getTask handles GET /api/v1/tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	resp, err := m.taskPort.GetTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTaskResponse(*resp))
}

// updateTask handles PUT /api/v1/tasks/:id.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	resp, err := m.taskPort.UpdateTask(c.UserContext(), &task.UpdateTaskRequest{
		TaskID:      c.Params("id"),
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Category:    req.Category,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTaskResponse(*resp))
}

// toggleTask handles POST /api/v1/tasks/:id/toggle.
func (m *APIModule) toggleTask(c *fiber.Ctx) error {
	resp, err := m.taskPort.ToggleTask(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTaskResponse(*resp))
}

// deleteTask handles DELETE /api/v1/tasks/:id. Deleting an unknown task
// succeeds.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	if _, err := m.taskPort.DeleteTask(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// getPreferences handles GET /api/v1/preferences.
func (m *APIModule) getPreferences(c *fiber.Ctx) error {
	resp, err := m.sessionPort.GetPreferences(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(PreferencesResponse{DarkMode: resp.DarkMode})
}

// setPreferences handles PUT /api/v1/preferences.
func (m *APIModule) setPreferences(c *fiber.Ctx) error {
	var req PreferencesRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	if req.DarkMode == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "dark_mode is required",
		})
	}

	resp, err := m.sessionPort.SetPreferences(c.UserContext(), *req.DarkMode)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(PreferencesResponse{DarkMode: resp.DarkMode})
}

// listActivity handles GET /api/v1/activity.
func (m *APIModule) listActivity(c *fiber.Ctx) error {
	resp, err := m.activityPort.ListActivity(c.UserContext(), c.QueryInt("limit", 50))
	if err != nil {
		return writeError(c, err)
	}

	entries := make([]ActivityEntry, 0, len(resp.Entries))
	for _, e := range resp.Entries {
		entries = append(entries, ActivityEntry{
			Type:      e.Type,
			Subject:   e.Subject,
			Message:   e.Message,
			Timestamp: e.Timestamp,
		})
	}
	return c.JSON(ActivityResponse{Entries: entries, Total: len(entries)})
}

// toTaskResponse converts a task service response to its HTTP form.
func toTaskResponse(t task.TaskResponse) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Category:    t.Category,
		Overdue:     t.Overdue,
	}
}
