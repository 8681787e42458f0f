package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

var (
	taskColumns   = []string{"id", "column_id", "title", "description", "due_date", "blocked", "created_at"}
	columnColumns = []string{"id", "board_id", "type"}
	boardColumns  = []string{"id", "title", "created_at"}
)

func TestTaskRepository_FindByIDLoadsColumnAndBoard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	now := time.Now().UTC()
	due := time.Date(2031, time.January, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE "tasks"."id" = `).
		WillReturnRows(sqlmock.NewRows(taskColumns).AddRow(11, 3, "Fix bug", "crash on save", due, true, now))
	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE "columns"."id" = `).
		WillReturnRows(sqlmock.NewRows(columnColumns).AddRow(3, 1, "IN_PROGRESS"))
	mock.ExpectQuery(`SELECT \* FROM "boards" WHERE "boards"."id" = `).
		WillReturnRows(sqlmock.NewRows(boardColumns).AddRow(1, "Sprint 1", now))

	// Act
	task, err := repo.FindByID(context.Background(), 11)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Fix bug", task.Title)
	assert.True(t, task.Blocked)
	assert.True(t, due.Equal(task.DueDate))
	require.NotNil(t, task.Column)
	assert.Equal(t, model.ColumnInProgress, task.Column.Type)
	require.NotNil(t, task.Column.Board)
	assert.Equal(t, int64(1), task.BoardID())
	assert.Equal(t, "Sprint 1", task.Column.Board.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_FindByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "tasks"`).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	// Act
	_, err := repo.FindByID(context.Background(), 99)

	// Assert
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_SaveSkipsColumn(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	column := &model.Column{ID: 3, BoardID: 1, Type: model.ColumnToDo}
	task, err := model.NewTask("Write docs", "", time.Now(), column)
	require.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
	mock.ExpectCommit()

	// Act
	saved, err := repo.Save(context.Background(), task)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(21), saved.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_TitleCheckIsScopedToBoard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" JOIN "columns" ON .* WHERE "columns"."board_id" = .* AND LOWER\("tasks"."title"\) = LOWER\(`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" JOIN "columns" ON .* AND "tasks"."id" <> `).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// Act
	taken, err := repo.ExistsByTitleInBoard(context.Background(), "fix BUG", 1)
	require.NoError(t, err)
	takenByOther, err := repo.ExistsByTitleInBoardExcludingID(context.Background(), "fix BUG", 1, 11)
	require.NoError(t, err)

	// Assert
	assert.True(t, taken)
	assert.False(t, takenByOther)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ListByColumnIDEmpty(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE column_id = `).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	// Act
	tasks, err := repo.ListByColumnID(context.Background(), 4)

	// Assert
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_ExistsByIDError(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).
		WillReturnError(assert.AnError)

	// Act
	exists, err := repo.ExistsByID(context.Background(), 4)

	// Assert
	assert.ErrorIs(t, err, model.ErrStorage)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestColumnRepository_ListByBoardIDLoadsBoard(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewColumnRepository(gormDB)
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT \* FROM "columns" WHERE board_id = .* ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(columnColumns).
			AddRow(1, 1, "TO_DO").
			AddRow(2, 1, "IN_PROGRESS"))
	mock.ExpectQuery(`SELECT \* FROM "boards" WHERE "boards"."id" = `).
		WillReturnRows(sqlmock.NewRows(boardColumns).AddRow(1, "Sprint 1", now))

	// Act
	columns, err := repo.ListByBoardID(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, model.ColumnToDo, columns[0].Type)
	require.NotNil(t, columns[1].Board)
	assert.Equal(t, "Sprint 1", columns[1].Board.Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}
