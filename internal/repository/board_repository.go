// Package repository implements the board, column and task gateways on a
// relational database through gorm.
package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

type BoardRepository struct {
	db *gorm.DB
}

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Save inserts a board without an ID and updates one that has it.
func (r *BoardRepository) Save(ctx context.Context, board *model.Board) (*model.Board, error) {
	db := r.db.WithContext(ctx).Omit(clause.Associations)
	var err error
	if board.ID == 0 {
		err = db.Create(board).Error
	} else {
		err = db.Save(board).Error
	}
	if err != nil {
		return nil, translate(fmt.Sprintf("save board %q", board.Title), err)
	}
	return board, nil
}

func (r *BoardRepository) FindByID(ctx context.Context, id int64) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		return nil, translate(fmt.Sprintf("board %d", id), err)
	}
	return &board, nil
}

func (r *BoardRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	return r.exists(ctx, fmt.Sprintf("board %d", id), "id = ?", id)
}

func (r *BoardRepository) ExistsByTitle(ctx context.Context, title string) (bool, error) {
	return r.exists(ctx, fmt.Sprintf("board title %q", title), "LOWER(title) = LOWER(?)", title)
}

func (r *BoardRepository) ExistsByTitleExcludingID(ctx context.Context, title string, id int64) (bool, error) {
	return r.exists(ctx, fmt.Sprintf("board title %q", title), "LOWER(title) = LOWER(?) AND id <> ?", title, id)
}

// ListAll returns every board ordered by ID.
func (r *BoardRepository) ListAll(ctx context.Context) ([]model.Board, error) {
	boards := []model.Board{}
	if err := r.db.WithContext(ctx).Order("id").Find(&boards).Error; err != nil {
		return nil, translate("list boards", err)
	}
	return boards, nil
}

// DeleteByID removes the board's tasks, then its columns, then the board,
// all in one transaction.
func (r *BoardRepository) DeleteByID(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		columnIDs := tx.Model(&model.Column{}).Select("id").Where("board_id = ?", id)
		if err := tx.Where("column_id IN (?)", columnIDs).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("board_id = ?", id).Delete(&model.Column{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Board{}, id).Error
	})
	return translate(fmt.Sprintf("delete board %d", id), err)
}

func (r *BoardRepository) exists(ctx context.Context, what string, query string, args ...any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Board{}).Where(query, args...).Count(&count).Error
	if err != nil {
		return false, translate(what, err)
	}
	return count > 0, nil
}
