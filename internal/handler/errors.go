package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{model.ErrNotFound, http.StatusNotFound, "not_found"},
	{model.ErrDuplicateTitle, http.StatusConflict, "duplicate_title"},
	{model.ErrInvalidTitle, http.StatusBadRequest, "invalid_title"},
	{model.ErrInvalidDueDate, http.StatusBadRequest, "invalid_due_date"},
	{model.ErrInvalidMoveTarget, http.StatusBadRequest, "invalid_move_target"},
	{model.ErrTaskBlocked, http.StatusConflict, "task_blocked"},
}

// respondError writes the status and body matching a use-case error. Storage
// and unknown failures are reported without their details.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			c.JSON(e.status, ErrorResponse{Error: err.Error(), Code: e.code})
			return
		}
	}
	if errors.Is(err, model.ErrStorage) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Storage failure", Code: "storage_failure"})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal error", Code: "internal"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: "bad_request"})
}

// pathID parses the :id parameter, writing a 400 when it is not a positive integer.
func pathID(c *gin.Context, what string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+what+" ID")
		return 0, false
	}
	return id, true
}
