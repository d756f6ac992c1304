package ports

import (
	"context"
	"time"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// CreateTaskInput carries client-supplied task fields. AssignedTo is only
// honoured for admins.
type CreateTaskInput struct {
	Title      string
	Priority   domain.TaskPriority
	DueDate    *time.Time
	AssignedTo string
}

// TaskView is a task with its assignee expanded.
type TaskView struct {
	Task       *domain.Task
	AssignedTo *domain.UserRef
}

type TaskService interface {
	CreateTask(ctx context.Context, actor *domain.User, in CreateTaskInput) (*TaskView, error)
	ListTasks(ctx context.Context, actor *domain.User, status string) ([]TaskView, error)
	ToggleTask(ctx context.Context, actor *domain.User, id string) (*TaskView, error)
	DeleteTask(ctx context.Context, actor *domain.User, id string) error
}
