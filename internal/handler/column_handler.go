package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ColumnHandler struct {
	boards BoardUseCases
}

func NewColumnHandler(boards BoardUseCases) *ColumnHandler {
	return &ColumnHandler{boards: boards}
}

// GetAll lists a board's columns in type order, each with its tasks
func (h *ColumnHandler) GetAll(c *gin.Context) {
	id, ok := pathID(c, "board")
	if !ok {
		return
	}

	board, err := h.boards.Complete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ColumnResponse, len(board.Columns))
	for i, col := range board.Columns {
		response[i] = newColumnResponse(col)
	}

	c.JSON(http.StatusOK, response)
}
