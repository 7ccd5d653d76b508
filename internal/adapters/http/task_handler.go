package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forgeplanner/core/internal/domain/entities"
	"github.com/forgeplanner/core/internal/infrastructure/logger"
	"github.com/forgeplanner/core/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService ports.TaskService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService ports.TaskService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.WithComponent("task_handler"),
	}
}

// Register mounts the task routes on g.
func (h *TaskHandler) Register(g *echo.Group) {
	g.GET("", h.ListTasks)
	g.POST("", h.CreateTask)
	g.DELETE("", h.ClearTasks)
	g.GET("/tags", h.ListTags)
	g.GET("/range", h.TasksForRange)
	g.GET("/day/:date", h.TasksForDate)
	g.POST("/quick-notes", h.CreateQuickNote)
	g.GET("/:id", h.GetTask)
	g.PATCH("/:id", h.UpdateTask)
	g.PUT("/:id", h.UpdateTask)
	g.DELETE("/:id", h.DeleteTask)
	g.POST("/:id/toggle", h.ToggleTask)
}

// ListTasks godoc
// @Summary List root tasks
// @Description Stored root tasks in display order, optionally filtered by tags
// @Tags tasks
// @Produce json
// @Param tags query string false "Comma separated tags, any match"
// @Success 200 {object} ListResponse[entities.Task]
// @Security BearerAuth
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c echo.Context) error {
	var q ports.TagFilterQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}

	tasks := entities.SortByOrder(entities.FilterByTags(h.taskService.Tasks(), splitList(q.Tags)))
	return c.JSON(http.StatusOK, newListResponse(tasks))
}

// CreateTask godoc
// @Summary Create a task
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body entities.CreateTaskRequest true "Task data"
// @Success 201 {object} entities.Task
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req entities.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.Add(c.Request().Context(), req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

// CreateQuickNote godoc
// @Summary Create a quick note
// @Description Quick notes expire after 3 days and are deleted after 30
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body ports.QuickNoteRequest true "Note"
// @Success 201 {object} entities.Task
// @Security BearerAuth
// @Router /tasks/quick-notes [post]
func (h *TaskHandler) CreateQuickNote(c echo.Context) error {
	var req ports.QuickNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.taskService.AddQuickNote(c.Request().Context(), req.Title, req.Date)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, note)
}

// GetTask returns one stored root task.
func (h *TaskHandler) GetTask(c echo.Context) error {
	id := c.Param("id")
	for _, t := range h.taskService.Tasks() {
		if t.ID == id {
			return c.JSON(http.StatusOK, t)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "Task not found")
}

// UpdateTask godoc
// @Summary Update a task
// @Description Merges the given fields. Unknown ids leave the collection unchanged.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body entities.TaskPatch true "Fields to change"
// @Success 200 {object} ListResponse[entities.Task]
// @Security BearerAuth
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	var patch entities.TaskPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tasks, err := h.taskService.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, newListResponse(tasks))
}

// DeleteTask removes a task. Unknown ids are not an error.
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	tasks := h.taskService.Delete(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, newListResponse(tasks))
}

// ToggleTask flips the completed flag.
func (h *TaskHandler) ToggleTask(c echo.Context) error {
	tasks := h.taskService.ToggleComplete(c.Request().Context(), c.Param("id"))
	return c.JSON(http.StatusOK, newListResponse(tasks))
}

// ClearTasks deletes every task.
func (h *TaskHandler) ClearTasks(c echo.Context) error {
	h.taskService.ClearAll(c.Request().Context())
	h.logger.Warn("All tasks cleared")
	return c.JSON(http.StatusOK, MessageResponse{Message: "All tasks cleared"})
}

// ListTags returns every tag in use, sorted.
func (h *TaskHandler) ListTags(c echo.Context) error {
	return c.JSON(http.StatusOK, newListResponse(entities.AllTags(h.taskService.Tasks())))
}

// TasksForDate godoc
// @Summary Tasks visible on a day
// @Description Regular tasks dated that day plus recurring instances
// @Tags tasks
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} ListResponse[entities.Task]
// @Security BearerAuth
// @Router /tasks/day/{date} [get]
func (h *TaskHandler) TasksForDate(c echo.Context) error {
	date, err := dateParam(c, "date")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newListResponse(h.taskService.TasksForDate(date)))
}

// TasksForRange godoc
// @Summary Tasks visible in a date range
// @Tags tasks
// @Produce json
// @Param start query string true "YYYY-MM-DD"
// @Param end query string true "YYYY-MM-DD"
// @Success 200 {object} ListResponse[entities.Task]
// @Security BearerAuth
// @Router /tasks/range [get]
func (h *TaskHandler) TasksForRange(c echo.Context) error {
	var q ports.DateRangeQuery
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if q.Start > q.End {
		return echo.NewHTTPError(http.StatusBadRequest, "start must not be after end")
	}

	return c.JSON(http.StatusOK, newListResponse(h.taskService.TasksForRange(q.Start, q.End)))
}
