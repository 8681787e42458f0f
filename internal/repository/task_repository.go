package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

// boardJoin narrows a task query to the tasks whose column sits on a board.
const boardJoin = `JOIN "columns" ON "columns"."id" = "tasks"."column_id"`

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Save inserts a task without an ID and updates one that has it. The column
// itself is never written through a task.
func (r *TaskRepository) Save(ctx context.Context, task *model.Task) (*model.Task, error) {
	db := r.db.WithContext(ctx).Omit(clause.Associations)
	var err error
	if task.ID == 0 {
		err = db.Create(task).Error
	} else {
		err = db.Save(task).Error
	}
	if err != nil {
		return nil, translate(fmt.Sprintf("save task %q", task.Title), err)
	}
	return task, nil
}

// FindByID returns the task with its column and board loaded.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	if err := r.withParents(ctx).Where(`"tasks"."id" = ?`, id).First(&task).Error; err != nil {
		return nil, translate(fmt.Sprintf("task %d", id), err)
	}
	return &task, nil
}

func (r *TaskRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(fmt.Sprintf("task %d", id), err)
	}
	return count > 0, nil
}

// ExistsByTitleInBoard matches titles case-insensitively among the board's tasks only.
func (r *TaskRepository) ExistsByTitleInBoard(ctx context.Context, title string, boardID int64) (bool, error) {
	return r.titleTaken(ctx, title, boardID, 0)
}

func (r *TaskRepository) ExistsByTitleInBoardExcludingID(ctx context.Context, title string, boardID, id int64) (bool, error) {
	return r.titleTaken(ctx, title, boardID, id)
}

func (r *TaskRepository) ListByBoardID(ctx context.Context, boardID int64) ([]model.Task, error) {
	tasks := []model.Task{}
	err := r.withParents(ctx).
		Joins(boardJoin).
		Where(`"columns"."board_id" = ?`, boardID).
		Order(`"tasks"."id"`).
		Find(&tasks).Error
	if err != nil {
		return nil, translate(fmt.Sprintf("tasks of board %d", boardID), err)
	}
	return tasks, nil
}

func (r *TaskRepository) ListByColumnID(ctx context.Context, columnID int64) ([]model.Task, error) {
	tasks := []model.Task{}
	err := r.withParents(ctx).Where("column_id = ?", columnID).Order("id").Find(&tasks).Error
	if err != nil {
		return nil, translate(fmt.Sprintf("tasks of column %d", columnID), err)
	}
	return tasks, nil
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Delete(&model.Task{}, id).Error
	return translate(fmt.Sprintf("delete task %d", id), err)
}

func (r *TaskRepository) withParents(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Column.Board")
}

func (r *TaskRepository) titleTaken(ctx context.Context, title string, boardID, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).
		Joins(boardJoin).
		Where(`"columns"."board_id" = ? AND LOWER("tasks"."title") = LOWER(?)`, boardID, title)
	if excludeID != 0 {
		q = q.Where(`"tasks"."id" <> ?`, excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, translate(fmt.Sprintf("task title %q in board %d", title, boardID), err)
	}
	return count > 0, nil
}
