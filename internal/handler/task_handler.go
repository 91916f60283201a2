package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"todoapi/internal/metrics"
	"todoapi/internal/model"
	"todoapi/internal/repository"
)

const (
	msgTaskRequired   = "Task text and category_id are required"
	msgInvalidBody    = "Invalid request body"
	msgInvalidTaskID  = "Invalid task ID format"
	msgInvalidDueDate = "Invalid due_date, expected an ISO-8601 timestamp"
	msgTagTooLong     = "Tag names must be at most 50 characters"
	msgNoCategory     = "Category not found"
	msgTaskNotFound   = "Task not found"
)

var errTagTooLong = errors.New("tag name too long")

// dueDateLayouts are the ISO-8601 forms accepted for due_date. Forms
// without an offset are read as UTC.
var dueDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02T15",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskRepo     repository.TaskRepositoryInterface
	categoryRepo repository.CategoryRepositoryInterface
	logger       *zap.Logger
	now          func() time.Time
}

// NewTaskHandler creates a new TaskHandler instance
func NewTaskHandler(
	taskRepo repository.TaskRepositoryInterface,
	categoryRepo repository.CategoryRepositoryInterface,
	logger *zap.Logger,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// CreateTaskRequest is the body of POST /api/tasks/
type CreateTaskRequest struct {
	Text       string   `json:"text" binding:"required"`
	CategoryID uint     `json:"category_id" binding:"required"`
	Priority   string   `json:"priority"`
	DueDate    *string  `json:"due_date"`
	Tags       []string `json:"tags"`
}

// UpdateTaskRequest is the body of PUT /api/tasks/{id}. Nil fields are left
// unchanged. A null or empty due_date also keeps the stored value.
type UpdateTaskRequest struct {
	Text       *string  `json:"text"`
	CategoryID *uint    `json:"category_id"`
	Priority   *string  `json:"priority"`
	DueDate    *string  `json:"due_date"`
	Tags       []string `json:"tags"`
}

// TaskResponse is the projection returned by GET /api/tasks/
type TaskResponse struct {
	ID          uint             `json:"id"`
	Text        string           `json:"text"`
	Completed   bool             `json:"completed"`
	CreatedAt   string           `json:"created_at"`
	DueDate     *string          `json:"due_date"`
	CompletedAt *string          `json:"completed_at"`
	Priority    string           `json:"priority"`
	Category    CategoryResponse `json:"category"`
	Tags        []string         `json:"tags"`
}

// GetAll returns every task with its category
//
// @Summary  List tasks
// @Tags     Tasks
// @Produce  json
// @Success  200  {array}   TaskResponse
// @Failure  500  {object}  map[string]string
// @Router   /api/tasks/ [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	tasks, err := h.taskRepo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("GetAll tasks: failed to fetch tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

// Create creates a new task
//
// @Summary  Create a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    task  body      CreateTaskRequest  true  "Task"
// @Success  201   {object}  map[string]interface{}
// @Failure  400   {object}  map[string]string
// @Failure  500   {object}  map[string]string
// @Router   /api/tasks/ [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.logger.Warn("Create task: missing required fields", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": msgTaskRequired})
			return
		}
		h.logger.Warn("Create task: invalid body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil {
		parsed, err := parseDueDate(*req.DueDate)
		if err != nil {
			h.logger.Warn("Create task: invalid due_date", zap.String("due_date", *req.DueDate), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidDueDate})
			return
		}
		dueDate = parsed
	}

	tags, err := normalizeTags(req.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgTagTooLong})
		return
	}

	if !h.categoryExists(c, req.CategoryID) {
		return
	}

	priority := req.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}

	task := &model.Task{
		Text:       req.Text,
		CategoryID: req.CategoryID,
		Priority:   priority,
		DueDate:    dueDate,
	}

	if err := h.taskRepo.Create(c.Request.Context(), task, tags); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgNoCategory})
			return
		}
		h.logger.Error("Create task: failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	metrics.IncrementTaskOperation("create")
	h.logger.Info("Create task: success", zap.Uint("task_id", task.ID))
	c.JSON(http.StatusCreated, gin.H{"message": "Task created", "id": task.ID})
}

// Update overwrites the fields present in the body
//
// @Summary  Update a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    id    path      int                true  "Task ID"
// @Param    task  body      UpdateTaskRequest  true  "Fields to change"
// @Success  200   {object}  map[string]string
// @Failure  400   {object}  map[string]string
// @Failure  404   {object}  map[string]string
// @Failure  500   {object}  map[string]string
// @Router   /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	if _, err := h.taskRepo.GetByID(c.Request.Context(), taskID); err != nil {
		h.respondTaskError(c, "Update", taskID, err, "Failed to retrieve task")
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update task: invalid body", zap.Uint("task_id", taskID), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidBody})
		return
	}

	fields := map[string]interface{}{}
	if req.Text != nil {
		fields["text"] = *req.Text
	}
	if req.Priority != nil {
		fields["priority"] = *req.Priority
	}
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := parseDueDate(*req.DueDate)
		if err != nil {
			h.logger.Warn("Update task: invalid due_date", zap.String("due_date", *req.DueDate), zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidDueDate})
			return
		}
		fields["due_date"] = parsed
	}
	if req.CategoryID != nil {
		if !h.categoryExists(c, *req.CategoryID) {
			return
		}
		fields["category_id"] = *req.CategoryID
	}

	tags, err := normalizeTags(req.Tags)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgTagTooLong})
		return
	}

	if err := h.taskRepo.Update(c.Request.Context(), taskID, fields, tags); err != nil {
		if errors.Is(err, repository.ErrInvalidReference) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgNoCategory})
			return
		}
		h.respondTaskError(c, "Update", taskID, err, "Failed to update task")
		return
	}

	metrics.IncrementTaskOperation("update")
	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// Toggle flips the completed flag
//
// @Summary  Toggle task completion
// @Tags     Tasks
// @Produce  json
// @Param    id   path      int  true  "Task ID"
// @Success  200  {object}  map[string]interface{}
// @Failure  404  {object}  map[string]string
// @Failure  500  {object}  map[string]string
// @Router   /api/tasks/{id}/toggle [patch]
func (h *TaskHandler) Toggle(c *gin.Context) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	task, err := h.taskRepo.Toggle(c.Request.Context(), taskID, h.now())
	if err != nil {
		h.respondTaskError(c, "Toggle", taskID, err, "Failed to update task status")
		return
	}

	metrics.IncrementTaskOperation("toggle")
	c.JSON(http.StatusOK, gin.H{"message": "Task status updated", "completed": task.Completed})
}

// Delete removes a task
//
// @Summary  Delete a task
// @Tags     Tasks
// @Produce  json
// @Param    id   path      int  true  "Task ID"
// @Success  200  {object}  map[string]string
// @Failure  404  {object}  map[string]string
// @Failure  500  {object}  map[string]string
// @Router   /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, ok := h.parseTaskID(c)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), taskID); err != nil {
		h.respondTaskError(c, "Delete", taskID, err, "Failed to delete task")
		return
	}

	metrics.IncrementTaskOperation("delete")
	h.logger.Info("Delete task: success", zap.Uint("task_id", taskID))
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}

func (h *TaskHandler) parseTaskID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.logger.Warn("invalid task id", zap.String("task_id", raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidTaskID})
		return 0, false
	}
	return uint(id), true
}

// categoryExists writes the error response itself when it returns false.
func (h *TaskHandler) categoryExists(c *gin.Context, id uint) bool {
	_, err := h.categoryRepo.GetByID(c.Request.Context(), id)
	switch {
	case err == nil:
		return true
	case errors.Is(err, repository.ErrCategoryNotFound):
		h.logger.Warn("unknown category", zap.Uint("category_id", id))
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoCategory})
	default:
		h.logger.Error("failed to retrieve category", zap.Uint("category_id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve category"})
	}
	return false
}

func (h *TaskHandler) respondTaskError(c *gin.Context, op string, taskID uint, err error, failure string) {
	if errors.Is(err, repository.ErrTaskNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msgTaskNotFound})
		return
	}
	h.logger.Error(op+" task: storage failure", zap.Uint("task_id", taskID), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": failure})
}

func toTaskResponse(task *model.Task) TaskResponse {
	response := TaskResponse{
		ID:        task.ID,
		Text:      task.Text,
		Completed: task.Completed,
		CreatedAt: task.CreatedAt.UTC().Format(time.RFC3339),
		Priority:  task.Priority,
		Category: CategoryResponse{
			ID:   task.Category.ID,
			Name: task.Category.Name,
		},
		Tags: make([]string, 0, len(task.Tags)),
	}

	if task.DueDate != nil {
		dueDate := task.DueDate.UTC().Format(time.RFC3339)
		response.DueDate = &dueDate
	}
	if task.CompletedAt != nil {
		completedAt := task.CompletedAt.UTC().Format(time.RFC3339)
		response.CompletedAt = &completedAt
	}
	for _, tag := range task.Tags {
		response.Tags = append(response.Tags, tag.Name)
	}
	return response
}

// parseDueDate returns nil for an empty string.
func parseDueDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var lastErr error
	for _, layout := range dueDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// normalizeTags trims names and drops blanks and duplicates. A nil input
// stays nil so callers can tell "absent" from "empty".
func normalizeTags(raw []string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}

	seen := make(map[string]bool, len(raw))
	names := make([]string, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if utf8.RuneCountInString(name) > model.MaxNameLength {
			return nil, errTagTooLong
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}
