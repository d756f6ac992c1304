package ports

import (
	"context"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks. Every method that
// takes assignedTo restricts the query to that assignee when it is non-empty,
// so a task owned by somebody else is reported as domain.ErrTaskNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	List(ctx context.Context, assignedTo, status string) ([]*domain.Task, error)
	// ToggleStatus atomically flips pending <-> completed and returns the updated task.
	ToggleStatus(ctx context.Context, id, assignedTo string) (*domain.Task, error)
	Delete(ctx context.Context, id, assignedTo string) error
}
