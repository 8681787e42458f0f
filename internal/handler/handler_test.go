package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskboard/internal/handler"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

type MockBoardUseCases struct {
	mock.Mock
}

func (m *MockBoardUseCases) Create(ctx context.Context, title string) (*model.Board, error) {
	args := m.Called(ctx, title)
	board, _ := args.Get(0).(*model.Board)
	return board, args.Error(1)
}

func (m *MockBoardUseCases) Update(ctx context.Context, in service.UpdateBoardInput) (*model.Board, error) {
	args := m.Called(ctx, in)
	board, _ := args.Get(0).(*model.Board)
	return board, args.Error(1)
}

func (m *MockBoardUseCases) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBoardUseCases) Complete(ctx context.Context, id int64) (*service.CompleteBoard, error) {
	args := m.Called(ctx, id)
	board, _ := args.Get(0).(*service.CompleteBoard)
	return board, args.Error(1)
}

func (m *MockBoardUseCases) List(ctx context.Context) ([]service.BoardSummary, error) {
	args := m.Called(ctx)
	summaries, _ := args.Get(0).([]service.BoardSummary)
	return summaries, args.Error(1)
}

type MockTaskUseCases struct {
	mock.Mock
}

func (m *MockTaskUseCases) task(args mock.Arguments) (*model.Task, error) {
	task, _ := args.Get(0).(*model.Task)
	return task, args.Error(1)
}

func (m *MockTaskUseCases) Create(ctx context.Context, in service.CreateTaskInput) (*model.Task, error) {
	return m.task(m.Called(ctx, in))
}

func (m *MockTaskUseCases) Update(ctx context.Context, in service.UpdateTaskInput) (*model.Task, error) {
	return m.task(m.Called(ctx, in))
}

func (m *MockTaskUseCases) Move(ctx context.Context, in service.MoveTaskInput) (*model.Task, error) {
	return m.task(m.Called(ctx, in))
}

func (m *MockTaskUseCases) Block(ctx context.Context, id int64) (*model.Task, error) {
	return m.task(m.Called(ctx, id))
}

func (m *MockTaskUseCases) Unblock(ctx context.Context, id int64) (*model.Task, error) {
	return m.task(m.Called(ctx, id))
}

func (m *MockTaskUseCases) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTaskUseCases) Get(ctx context.Context, id int64) (*model.Task, error) {
	return m.task(m.Called(ctx, id))
}

func setupTest() (*gin.Engine, *MockBoardUseCases, *MockTaskUseCases) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	boards := new(MockBoardUseCases)
	tasks := new(MockTaskUseCases)

	boardHandler := handler.NewBoardHandler(boards)
	columnHandler := handler.NewColumnHandler(boards)
	taskHandler := handler.NewTaskHandler(tasks)

	r.POST("/boards", boardHandler.Create)
	r.GET("/boards", boardHandler.GetAll)
	r.GET("/boards/:id", boardHandler.GetByID)
	r.GET("/boards/:id/columns", columnHandler.GetAll)
	r.PUT("/boards/:id", boardHandler.Update)
	r.DELETE("/boards/:id", boardHandler.Delete)
	r.POST("/tasks", taskHandler.Create)
	r.GET("/tasks/:id", taskHandler.GetByID)
	r.PUT("/tasks/:id", taskHandler.Update)
	r.DELETE("/tasks/:id", taskHandler.Delete)
	r.POST("/tasks/:id/move", taskHandler.MoveTask)
	r.POST("/tasks/:id/block", taskHandler.Block)
	r.POST("/tasks/:id/unblock", taskHandler.Unblock)

	return r, boards, tasks
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) handler.ErrorResponse {
	var body handler.ErrorResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestBoardHandler_Create(t *testing.T) {
	// Arrange
	router, boards, _ := setupTest()
	created := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	boards.On("Create", mock.Anything, "Sprint 1").
		Return(&model.Board{ID: 1, Title: "Sprint 1", CreatedAt: created}, nil)

	// Act
	resp := doJSON(router, http.MethodPost, "/boards", handler.BoardRequest{Title: "Sprint 1"})

	// Assert
	assert.Equal(t, http.StatusCreated, resp.Code)
	var body handler.BoardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.ID)
	assert.Equal(t, "2030-01-02T03:04:05Z", body.CreatedAt)
	boards.AssertExpectations(t)
}

func TestBoardHandler_CreateMissingTitle(t *testing.T) {
	// Arrange
	router, boards, _ := setupTest()

	// Act
	resp := doJSON(router, http.MethodPost, "/boards", map[string]string{})

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	boards.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBoardHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"duplicate", fmt.Errorf("%w: %q", model.ErrDuplicateTitle, "X"), http.StatusConflict, "duplicate_title"},
		{"blank title", fmt.Errorf("%w: got %q", model.ErrInvalidTitle, " "), http.StatusBadRequest, "invalid_title"},
		{"storage", fmt.Errorf("%w: write boards.csv: disk full", model.ErrStorage), http.StatusInternalServerError, "storage_failure"},
		{"unknown", assert.AnError, http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router, boards, _ := setupTest()
			boards.On("Create", mock.Anything, "X").Return(nil, tc.err)

			resp := doJSON(router, http.MethodPost, "/boards", handler.BoardRequest{Title: "X"})

			assert.Equal(t, tc.status, resp.Code)
			body := decodeError(t, resp)
			assert.Equal(t, tc.code, body.Code)
			assert.NotContains(t, body.Error, "disk full")
		})
	}
}

func TestBoardHandler_GetByIDReturnsCompleteView(t *testing.T) {
	// Arrange
	router, boards, _ := setupTest()
	due := time.Date(2030, 5, 6, 0, 0, 0, 0, time.UTC)
	boards.On("Complete", mock.Anything, int64(4)).Return(&service.CompleteBoard{
		ID:    4,
		Title: "Release",
		Columns: []service.ColumnView{
			{ID: 10, Type: model.ColumnToDo, Tasks: []service.TaskView{{ID: 1, Title: "a", DueDate: due}}},
			{ID: 11, Type: model.ColumnInProgress, Tasks: []service.TaskView{}},
			{ID: 12, Type: model.ColumnDone, Tasks: []service.TaskView{{ID: 2, Title: "b", DueDate: due}}},
			{ID: 13, Type: model.ColumnPaused, Tasks: []service.TaskView{}},
		},
	}, nil)

	// Act
	resp := doJSON(router, http.MethodGet, "/boards/4", nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.Code)
	var body handler.CompleteBoardResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalTasks)
	assert.Equal(t, 50, body.Progress)
	require.Len(t, body.Columns, 4)
	assert.Equal(t, "In Progress", body.Columns[1].Title)
	assert.NotNil(t, body.Columns[1].Tasks)
	assert.Equal(t, "2030-05-06", body.Columns[0].Tasks[0].DueDate)
	assert.Contains(t, resp.Body.String(), `"tasks":[]`)
}

func TestBoardHandler_MalformedAndMissingID(t *testing.T) {
	// Arrange
	router, boards, _ := setupTest()
	boards.On("Complete", mock.Anything, int64(9)).
		Return(nil, fmt.Errorf("board %d: %w", 9, model.ErrNotFound))

	// Act
	malformed := doJSON(router, http.MethodGet, "/boards/abc", nil)
	missing := doJSON(router, http.MethodGet, "/boards/9", nil)
	columns := doJSON(router, http.MethodGet, "/boards/9/columns", nil)

	// Assert
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, "board 9: not found", decodeError(t, missing).Error)
	assert.Equal(t, http.StatusNotFound, columns.Code)
}

func TestBoardHandler_GetAll(t *testing.T) {
	// Arrange
	router, boards, _ := setupTest()
	boards.On("List", mock.Anything).Return([]service.BoardSummary{
		{ID: 1, Title: "one", TotalTasks: 3, Progress: 33},
		{ID: 2, Title: "two"},
	}, nil)

	// Act
	resp := doJSON(router, http.MethodGet, "/boards", nil)

	// Assert
	require.Equal(t, http.StatusOK, resp.Code)
	var body []handler.BoardSummaryResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, 33, body[0].Progress)
	assert.Equal(t, 0, body[1].TotalTasks)
}

func TestBoardHandler_UpdateAndDelete(t *testing.T) {
	// Arrange
	router, boards, _ := setupTest()
	boards.On("Update", mock.Anything, service.UpdateBoardInput{ID: 3, Title: "New"}).
		Return(&model.Board{ID: 3, Title: "New"}, nil)
	boards.On("Delete", mock.Anything, int64(3)).Return(nil)

	// Act
	updated := doJSON(router, http.MethodPut, "/boards/3", handler.BoardRequest{Title: "New"})
	deleted := doJSON(router, http.MethodDelete, "/boards/3", nil)

	// Assert
	assert.Equal(t, http.StatusOK, updated.Code)
	assert.Equal(t, http.StatusNoContent, deleted.Code)
	boards.AssertExpectations(t)
}

func TestTaskHandler_Create(t *testing.T) {
	// Arrange
	router, _, tasks := setupTest()
	due := time.Date(2030, 7, 8, 0, 0, 0, 0, time.UTC)
	column := &model.Column{ID: 5, BoardID: 2, Type: model.ColumnToDo}
	tasks.On("Create", mock.Anything, service.CreateTaskInput{
		Title: "Fix bug", Description: "steps", DueDate: due, ColumnID: 5,
	}).Return(&model.Task{ID: 8, Title: "Fix bug", Description: "steps", DueDate: due, ColumnID: 5, Column: column}, nil)

	// Act
	resp := doJSON(router, http.MethodPost, "/tasks", handler.CreateTaskRequest{
		Title: "Fix bug", Description: "steps", DueDate: "2030-07-08", ColumnID: 5,
	})

	// Assert
	require.Equal(t, http.StatusCreated, resp.Code)
	var body handler.TaskResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, int64(8), body.ID)
	assert.Equal(t, int64(2), body.BoardID)
	assert.Equal(t, "2030-07-08", body.DueDate)
	assert.False(t, body.Blocked)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_CreateRejectsMalformedDate(t *testing.T) {
	// Arrange
	router, _, tasks := setupTest()

	// Act
	resp := doJSON(router, http.MethodPost, "/tasks", handler.CreateTaskRequest{
		Title: "Fix bug", DueDate: "07/08/2030", ColumnID: 5,
	})

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	tasks.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestTaskHandler_MoveErrorsAreDistinct(t *testing.T) {
	// Arrange
	router, _, tasks := setupTest()
	tasks.On("Move", mock.Anything, service.MoveTaskInput{TaskID: 1, ColumnID: 2}).
		Return(nil, fmt.Errorf("%w: task 1 must be unblocked before it can move", model.ErrTaskBlocked))
	tasks.On("Move", mock.Anything, service.MoveTaskInput{TaskID: 1, ColumnID: 3}).
		Return(nil, fmt.Errorf("%w: task 1, column 3", model.ErrInvalidMoveTarget))

	// Act
	blocked := doJSON(router, http.MethodPost, "/tasks/1/move", handler.MoveTaskRequest{ColumnID: 2})
	sameColumn := doJSON(router, http.MethodPost, "/tasks/1/move", handler.MoveTaskRequest{ColumnID: 3})

	// Assert
	assert.Equal(t, http.StatusConflict, blocked.Code)
	assert.Equal(t, "task_blocked", decodeError(t, blocked).Code)
	assert.Equal(t, http.StatusBadRequest, sameColumn.Code)
	assert.Equal(t, "invalid_move_target", decodeError(t, sameColumn).Code)
}

func TestTaskHandler_BlockUnblockGetDelete(t *testing.T) {
	// Arrange
	router, _, tasks := setupTest()
	tasks.On("Block", mock.Anything, int64(4)).Return(&model.Task{ID: 4, Blocked: true}, nil)
	tasks.On("Unblock", mock.Anything, int64(4)).Return(&model.Task{ID: 4}, nil)
	tasks.On("Get", mock.Anything, int64(4)).Return(&model.Task{ID: 4, Title: "t"}, nil)
	tasks.On("Delete", mock.Anything, int64(4)).Return(nil)
	tasks.On("Delete", mock.Anything, int64(5)).Return(fmt.Errorf("task 5: %w", model.ErrNotFound))

	// Act
	blocked := doJSON(router, http.MethodPost, "/tasks/4/block", nil)
	unblocked := doJSON(router, http.MethodPost, "/tasks/4/unblock", nil)
	got := doJSON(router, http.MethodGet, "/tasks/4", nil)
	deleted := doJSON(router, http.MethodDelete, "/tasks/4", nil)
	missing := doJSON(router, http.MethodDelete, "/tasks/5", nil)

	// Assert
	assert.Equal(t, http.StatusOK, blocked.Code)
	assert.Contains(t, blocked.Body.String(), `"blocked":true`)
	assert.Equal(t, http.StatusOK, unblocked.Code)
	assert.Contains(t, unblocked.Body.String(), `"blocked":false`)
	assert.Equal(t, http.StatusOK, got.Code)
	assert.Equal(t, http.StatusNoContent, deleted.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	tasks.AssertExpectations(t)
}

func TestTaskHandler_UpdatePastDueDate(t *testing.T) {
	// Arrange
	router, _, tasks := setupTest()
	due := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tasks.On("Update", mock.Anything, service.UpdateTaskInput{ID: 6, Title: "t", DueDate: due}).
		Return(nil, fmt.Errorf("%w: 2020-01-01 is before 2030-01-01", model.ErrInvalidDueDate))

	// Act
	resp := doJSON(router, http.MethodPut, "/tasks/6", handler.UpdateTaskRequest{Title: "t", DueDate: "2020-01-01"})

	// Assert
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	body := decodeError(t, resp)
	assert.Equal(t, "invalid_due_date", body.Code)
	assert.Contains(t, body.Error, "2020-01-01")
}
