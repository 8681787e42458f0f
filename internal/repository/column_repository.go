package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskboard/internal/model"
)

type ColumnRepository struct {
	db *gorm.DB
}

func NewColumnRepository(db *gorm.DB) *ColumnRepository {
	return &ColumnRepository{db: db}
}

func (r *ColumnRepository) Save(ctx context.Context, column *model.Column) (*model.Column, error) {
	db := r.db.WithContext(ctx).Omit(clause.Associations)
	var err error
	if column.ID == 0 {
		err = db.Create(column).Error
	} else {
		err = db.Save(column).Error
	}
	if err != nil {
		return nil, translate(fmt.Sprintf("save %s column of board %d", column.Type, column.BoardID), err)
	}
	return column, nil
}

// FindByID returns the column with its board loaded.
func (r *ColumnRepository) FindByID(ctx context.Context, id int64) (*model.Column, error) {
	var column model.Column
	if err := r.db.WithContext(ctx).Preload("Board").Where("id = ?", id).First(&column).Error; err != nil {
		return nil, translate(fmt.Sprintf("column %d", id), err)
	}
	return &column, nil
}

func (r *ColumnRepository) ListByBoardID(ctx context.Context, boardID int64) ([]model.Column, error) {
	columns := []model.Column{}
	err := r.db.WithContext(ctx).Preload("Board").Where("board_id = ?", boardID).Order("id").Find(&columns).Error
	if err != nil {
		return nil, translate(fmt.Sprintf("columns of board %d", boardID), err)
	}
	return columns, nil
}
