package task

import (
	"context"
	"fmt"
	"log"

	"github.com/example/task-tracker/domain/fault"
	domain "github.com/example/task-tracker/domain/task"
	"github.com/example/task-tracker/domain/user"
	"github.com/example/task-tracker/events"
	"github.com/go-monolith/mono"
)

// ensureSession checks that a user is signed in and that the collection
// belongs to the current sign-in, reloading it from storage otherwise.
func (m *TaskModule) ensureSession(ctx context.Context) error {
	sess, err := m.sessionPort.CurrentSession(ctx)
	if err != nil {
		return fmt.Errorf("failed to check session: %w", err)
	}
	if !sess.Authenticated {
		return user.ErrUnauthenticated
	}
	if m.repo.Owner() != sess.SessionKey {
		if err := m.repo.Load(ctx, sess.SessionKey); err != nil {
			return err
		}
		log.Printf("[task] Loaded %d tasks for %s", len(m.repo.LoadAll()), sess.User.Username)
	}
	return nil
}

// createTask handles the create-task service request.
func (m *TaskModule) createTask(ctx context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if err := m.ensureSession(ctx); err != nil {
		return taskFailure(err)
	}

	newTask, err := m.repo.Create(ctx, domain.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    domain.Priority(req.Priority),
		Category:    req.Category,
	})
	if err != nil {
		return taskFailure(err)
	}

	if m.eventBus != nil {
		event := events.TaskCreatedEvent{
			TaskID:    newTask.ID,
			Title:     newTask.Title,
			Priority:  string(newTask.Priority),
			CreatedAt: newTask.CreatedAt,
		}
		if newTask.Category != nil {
			event.Category = *newTask.Category
		}
		if err := events.TaskCreatedV1.Publish(m.eventBus, event, nil); err != nil {
			// Event publishing is best-effort; log but don't fail the operation
			log.Printf("[task] Warning: failed to publish TaskCreated event for task %s: %v", newTask.ID, err)
		}
	}

	return toTaskResponse(newTask, m.now()), nil
}

// getTask handles the get-task service request.
func (m *TaskModule) getTask(ctx context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if err := m.ensureSession(ctx); err != nil {
		return taskFailure(err)
	}
	t, err := m.repo.Get(req.TaskID)
	if err != nil {
		return taskFailure(err)
	}
	return toTaskResponse(t, m.now()), nil
}

// updateTask handles the update-task service request.
func (m *TaskModule) updateTask(ctx context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if err := m.ensureSession(ctx); err != nil {
		return taskFailure(err)
	}

	in := domain.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Category:    req.Category,
	}
	if req.Priority != nil {
		p := domain.Priority(*req.Priority)
		in.Priority = &p
	}

	updated, err := m.repo.Update(ctx, req.TaskID, in)
	if err != nil {
		return taskFailure(err)
	}

	if m.eventBus != nil {
		event := events.TaskUpdatedEvent{
			TaskID:    updated.ID,
			Title:     updated.Title,
			UpdatedAt: updated.UpdatedAt,
		}
		if err := events.TaskUpdatedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskUpdated event for task %s: %v", updated.ID, err)
		}
	}

	return toTaskResponse(updated, m.now()), nil
}

// toggleTask handles the toggle-task service request.
func (m *TaskModule) toggleTask(ctx context.Context, req ToggleTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if err := m.ensureSession(ctx); err != nil {
		return taskFailure(err)
	}

	toggled, err := m.repo.ToggleComplete(ctx, req.TaskID)
	if err != nil {
		return taskFailure(err)
	}

	if m.eventBus != nil {
		event := events.TaskToggledEvent{
			TaskID:    toggled.ID,
			Title:     toggled.Title,
			Completed: toggled.Completed,
			UpdatedAt: toggled.UpdatedAt,
		}
		if err := events.TaskToggledV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskToggled event for task %s: %v", toggled.ID, err)
		}
	}

	return toTaskResponse(toggled, m.now()), nil
}

// deleteTask handles the delete-task service request.
func (m *TaskModule) deleteTask(ctx context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.ensureSession(ctx); err != nil {
		if f, ok := fault.From(err); ok {
			return DeleteTaskResponse{Fault: f}, nil
		}
		return DeleteTaskResponse{}, err
	}

	existed, err := m.repo.Delete(ctx, req.TaskID)
	if err != nil {
		return DeleteTaskResponse{}, err
	}

	if existed && m.eventBus != nil {
		event := events.TaskDeletedEvent{
			TaskID:    req.TaskID,
			Existed:   existed,
			DeletedAt: m.now(),
		}
		if err := events.TaskDeletedV1.Publish(m.eventBus, event, nil); err != nil {
			log.Printf("[task] Warning: failed to publish TaskDeleted event for task %s: %v", req.TaskID, err)
		}
	}

	return DeleteTaskResponse{Deleted: existed}, nil
}

// listTasks handles the list-tasks service request.
func (m *TaskModule) listTasks(ctx context.Context, _ ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	if err := m.ensureSession(ctx); err != nil {
		if f, ok := fault.From(err); ok {
			return ListTasksResponse{Fault: f}, nil
		}
		return ListTasksResponse{}, err
	}

	tasks := m.repo.LoadAll()
	return ListTasksResponse{
		Tasks: toTaskResponses(tasks, m.now()),
		Total: len(tasks),
	}, nil
}

// viewTasks handles the view-tasks service request.
func (m *TaskModule) viewTasks(ctx context.Context, req ViewTasksRequest, _ *mono.Msg) (ViewTasksResponse, error) {
	if err := m.ensureSession(ctx); err != nil {
		if f, ok := fault.From(err); ok {
			return ViewTasksResponse{Fault: f}, nil
		}
		return ViewTasksResponse{}, err
	}

	q, err := parseQuery(req)
	if err != nil {
		f, _ := fault.From(err)
		return ViewTasksResponse{Fault: f}, nil
	}

	tasks, revision := m.repo.Snapshot()
	view := m.views.Get(tasks, revision, q)
	now := m.now()

	return ViewTasksResponse{
		Tasks: toTaskResponses(view.Tasks, now),
		Total: len(view.Tasks),
		Counts: CountsResponse{
			All:       view.Counts.All,
			Completed: view.Counts.Completed,
			Pending:   view.Counts.Pending,
		},
		Categories: view.Categories,
		Overdue:    domain.CountOverdue(view.Tasks, now),
	}, nil
}

func parseQuery(req ViewTasksRequest) (domain.Query, error) {
	status, err := domain.ParseStatusFilter(req.Status)
	if err != nil {
		return domain.Query{}, err
	}
	sortKey, err := domain.ParseSortKey(req.Sort)
	if err != nil {
		return domain.Query{}, err
	}
	return domain.Query{
		Search:   req.Search,
		Status:   status,
		Category: req.Category,
		Sort:     sortKey,
	}, nil
}

// taskFailure turns domain errors into a response fault and passes other
// errors through.
func taskFailure(err error) (TaskResponse, error) {
	if f, ok := fault.From(err); ok {
		return TaskResponse{Fault: f}, nil
	}
	return TaskResponse{}, err
}
