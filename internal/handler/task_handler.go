package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type TaskUseCases interface {
	Create(ctx context.Context, in service.CreateTaskInput) (*model.Task, error)
	Update(ctx context.Context, in service.UpdateTaskInput) (*model.Task, error)
	Move(ctx context.Context, in service.MoveTaskInput) (*model.Task, error)
	Block(ctx context.Context, id int64) (*model.Task, error)
	Unblock(ctx context.Context, id int64) (*model.Task, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*model.Task, error)
}

var _ TaskUseCases = (*service.TaskService)(nil)

type TaskHandler struct {
	tasks TaskUseCases
}

func NewTaskHandler(tasks TaskUseCases) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTaskRequest carries the due date as YYYY-MM-DD
type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" binding:"required"`
	ColumnID    int64  `json:"column_id" binding:"required,gt=0"`
}

type UpdateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date" binding:"required"`
}

type MoveTaskRequest struct {
	ColumnID int64 `json:"column_id" binding:"required,gt=0"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	due, ok := parseDueDate(c, req.DueDate)
	if !ok {
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		ColumnID:    req.ColumnID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "task")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

// Update changes title, description and due date; the column stays
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "task")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}
	due, ok := parseDueDate(c, req.DueDate)
	if !ok {
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), service.UpdateTaskInput{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "task")
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *TaskHandler) MoveTask(c *gin.Context) {
	id, ok := pathID(c, "task")
	if !ok {
		return
	}

	var req MoveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	task, err := h.tasks.Move(c.Request.Context(), service.MoveTaskInput{TaskID: id, ColumnID: req.ColumnID})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) Block(c *gin.Context) {
	h.toggle(c, h.tasks.Block)
}

func (h *TaskHandler) Unblock(c *gin.Context) {
	h.toggle(c, h.tasks.Unblock)
}

func (h *TaskHandler) toggle(c *gin.Context, apply func(context.Context, int64) (*model.Task, error)) {
	id, ok := pathID(c, "task")
	if !ok {
		return
	}

	task, err := apply(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func parseDueDate(c *gin.Context, s string) (time.Time, bool) {
	due, err := time.Parse(model.DateLayout, s)
	if err != nil {
		badRequest(c, "Invalid due date, expected YYYY-MM-DD")
		return time.Time{}, false
	}
	return due, true
}
