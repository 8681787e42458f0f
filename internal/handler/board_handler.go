package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type BoardUseCases interface {
	Create(ctx context.Context, title string) (*model.Board, error)
	Update(ctx context.Context, in service.UpdateBoardInput) (*model.Board, error)
	Delete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) (*service.CompleteBoard, error)
	List(ctx context.Context) ([]service.BoardSummary, error)
}

var _ BoardUseCases = (*service.BoardService)(nil)

type BoardHandler struct {
	boards BoardUseCases
}

func NewBoardHandler(boards BoardUseCases) *BoardHandler {
	return &BoardHandler{boards: boards}
}

type BoardRequest struct {
	Title string `json:"title" binding:"required"`
}

// Create creates a board with its four columns
func (h *BoardHandler) Create(c *gin.Context) {
	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	board, err := h.boards.Create(c.Request.Context(), req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newBoardResponse(board))
}

// GetAll lists every board with its progress
func (h *BoardHandler) GetAll(c *gin.Context) {
	summaries, err := h.boards.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]BoardSummaryResponse, len(summaries))
	for i, s := range summaries {
		response[i] = BoardSummaryResponse{
			ID:         s.ID,
			Title:      s.Title,
			CreatedAt:  formatTime(s.CreatedAt),
			TotalTasks: s.TotalTasks,
			Progress:   s.Progress,
		}
	}

	c.JSON(http.StatusOK, response)
}

// GetByID returns the complete board: columns and their tasks
func (h *BoardHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "board")
	if !ok {
		return
	}

	board, err := h.boards.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCompleteBoardResponse(board))
}

func (h *BoardHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "board")
	if !ok {
		return
	}

	var req BoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request")
		return
	}

	board, err := h.boards.Update(c.Request.Context(), service.UpdateBoardInput{ID: id, Title: req.Title})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newBoardResponse(board))
}

// Delete removes the board together with its columns and tasks
func (h *BoardHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "board")
	if !ok {
		return
	}

	if err := h.boards.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
