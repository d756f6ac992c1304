package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/relaycrm/crm-api/internal/api/metrics"
	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// Create adds a task. Only admins may assign it to somebody else.
//
// @Summary      Create task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task"
// @Success      201   {object}  taskEnvelope
// @Failure      400   {object}  errorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createTaskRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	view, err := h.service.CreateTask(c.Request().Context(), user, ports.CreateTaskInput{
		Title:      req.Title,
		Priority:   domain.TaskPriority(req.Priority),
		DueDate:    req.DueDate,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, taskEnvelope{Message: "Task created", Task: toTaskResponse(*view)})
}

// List returns the caller's tasks, or every task for admins.
//
// @Summary      List tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "pending or completed"
// @Success      200     {object}  listTasksResponse
// @Failure      400     {object}  errorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	status := c.QueryParam("status")
	if status != "" && status != string(domain.TaskPending) && status != string(domain.TaskCompleted) {
		return domain.NewValidationError("status", "status must be one of: pending completed")
	}

	views, err := h.service.ListTasks(c.Request().Context(), user, status)
	if err != nil {
		return err
	}
	tasks := make([]taskResponse, 0, len(views))
	for _, v := range views {
		tasks = append(tasks, toTaskResponse(v))
	}
	return c.JSON(http.StatusOK, listTasksResponse{Tasks: tasks})
}

// Toggle flips a task between pending and completed.
//
// @Summary      Toggle task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  taskEnvelope
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id}/toggle [patch]
func (h *TaskHandler) Toggle(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	view, err := h.service.ToggleTask(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.TasksToggledTotal.WithLabelValues(string(view.Task.Status)).Inc()
	return c.JSON(http.StatusOK, taskEnvelope{Message: "Task status updated", Task: toTaskResponse(*view)})
}

// Delete removes a task.
//
// @Summary      Delete task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteTask(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Task deleted"})
}
