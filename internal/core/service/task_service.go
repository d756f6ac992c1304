package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

// TaskService scopes every read and write through domain.TaskOwnerScope, so
// non-admins never see or touch somebody else's task.
type TaskService struct {
	tasks  ports.TaskRepository
	users  ports.UserRepository
	logger zerolog.Logger
}

func NewTaskService(tasks ports.TaskRepository, users ports.UserRepository, logger zerolog.Logger) *TaskService {
	return &TaskService{tasks: tasks, users: users, logger: logger}
}

func (s *TaskService) CreateTask(ctx context.Context, actor *domain.User, in ports.CreateTaskInput) (*ports.TaskView, error) {
	assignee := domain.TaskAssignee(actor, in.AssignedTo)

	ref := actor.Ref()
	if assignee != actor.ID {
		var err error
		if ref, err = requireUser(ctx, s.users, "assignedTo", assignee); err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewValidationError("title", "Title is required")
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := time.Now().UTC()
	task := &domain.Task{
		Title:      title,
		Status:     domain.TaskPending,
		Priority:   priority,
		AssignedTo: assignee,
		DueDate:    in.DueDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", task.ID).Str("assigned_to", assignee).Msg("task created")
	return &ports.TaskView{Task: task, AssignedTo: ref}, nil
}

func (s *TaskService) ListTasks(ctx context.Context, actor *domain.User, status string) ([]ports.TaskView, error) {
	tasks, err := s.tasks.List(ctx, domain.TaskOwnerScope(actor), status)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.AssignedTo)
	}
	refs, err := userRefs(ctx, s.users, ids...)
	if err != nil {
		return nil, err
	}

	views := make([]ports.TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, ports.TaskView{Task: t, AssignedTo: refs[t.AssignedTo]})
	}
	return views, nil
}

func (s *TaskService) ToggleTask(ctx context.Context, actor *domain.User, id string) (*ports.TaskView, error) {
	task, err := s.tasks.ToggleStatus(ctx, id, domain.TaskOwnerScope(actor))
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("task_id", task.ID).Str("status", string(task.Status)).Msg("task toggled")

	refs, err := userRefs(ctx, s.users, task.AssignedTo)
	if err != nil {
		return nil, err
	}
	return &ports.TaskView{Task: task, AssignedTo: refs[task.AssignedTo]}, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, actor *domain.User, id string) error {
	if err := s.tasks.Delete(ctx, id, domain.TaskOwnerScope(actor)); err != nil {
		return err
	}
	s.logger.Info().Str("task_id", id).Msg("task deleted")
	return nil
}
