package model

import (
	"fmt"
	"strings"
	"time"
)

type Board struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Title     string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// NewBoard returns an unsaved board stamped with the current time.
func NewBoard(title string) (*Board, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	return &Board{
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// SameTitle reports whether two titles collide under the case-insensitive uniqueness rule.
func SameTitle(a, b string) bool {
	return strings.EqualFold(a, b)
}

func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: got %q", ErrInvalidTitle, title)
	}
	return nil
}
