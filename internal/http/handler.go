package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	dto "project-board.com/project-board/internal/data_models"
	apperrors "project-board.com/project-board/internal/errors"
	"project-board.com/project-board/internal/services"
	"project-board.com/project-board/internal/validators"
)

type Handler struct {
	taskService *services.TaskService
	bulkService *services.BulkService
}

func NewHandler(taskService *services.TaskService, bulkService *services.BulkService) *Handler {
	return &Handler{
		taskService: taskService,
		bulkService: bulkService,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidJSON()
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req.TaskFields)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) GetTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) FreshTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	task, err := h.taskService.FreshTask(c.Request().Context(), id)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.ListTasks(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) ListPage(c echo.Context) error {
	v := apperrors.NewValidationError()
	page := intQuery(c, "page", 0, v)
	size := intQuery(c, "size", 0, v)
	if err := v.OrNil(); err != nil {
		return err
	}

	result, err := h.taskService.ListPage(c.Request().Context(), page, size)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *Handler) SearchTasks(c echo.Context) error {
	criteria := dto.SearchCriteria{
		Status:     c.QueryParam("status"),
		Priority:   c.QueryParam("priority"),
		Assignee:   c.QueryParam("assignee"),
		SearchTerm: c.QueryParam("searchTerm"),
	}

	tasks, err := h.taskService.SearchTasks(c.Request().Context(), criteria)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) TasksByStatus(c echo.Context) error {
	tasks, err := h.taskService.TasksByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) TasksByPriority(c echo.Context) error {
	tasks, err := h.taskService.TasksByPriority(c.Request().Context(), c.Param("priority"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) Statistics(c echo.Context) error {
	stats, err := h.taskService.Statistics(c.Request().Context())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) Meta(c echo.Context) error {
	return c.JSON(http.StatusOK, services.Meta())
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidJSON()
	}
	if err := validators.ValidateUpdateTaskRequest(&req); err != nil {
		return err
	}

	task, err := h.taskService.AttemptUpdate(c.Request().Context(), id, req.TaskFields, *req.Version)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CheckConflict(c echo.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}

	check, err := h.taskService.CheckForConflicts(c.Request().Context(), id, c.QueryParam("lastFetched"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, check)
}

func (h *Handler) BulkUpdateStatus(c echo.Context) error {
	var req dto.BulkStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.InvalidJSON()
	}
	if err := validators.ValidateBulkStatusRequest(&req); err != nil {
		return err
	}

	tasks, err := h.bulkService.UpdateStatus(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func taskID(c echo.Context) (string, error) {
	id := c.Param("id")
	if id == "" {
		return "", apperrors.ErrTaskIDRequired
	}
	return id, nil
}

func intQuery(c echo.Context, name string, fallback int, v *apperrors.ValidationError) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		v.Add(name, name+" must be an integer")
		return fallback
	}
	return n
}
