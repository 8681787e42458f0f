package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"taskboard/internal/model"
)

// translate maps gorm failures onto the domain errors. what names the record,
// for example "board 7".
func translate(what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", what, model.ErrNotFound)
	}
	return fmt.Errorf("%w: %s: %w", model.ErrStorage, what, err)
}
