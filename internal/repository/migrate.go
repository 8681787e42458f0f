package repository

import (
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// Migrate creates or updates the boards, columns and tasks tables in parent
// before child order.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Board{}, &model.Column{}, &model.Task{}); err != nil {
		return fmt.Errorf("%w: migrate: %w", model.ErrStorage, err)
	}
	return nil
}
