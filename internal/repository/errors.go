package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Common repository errors
var (
	// ErrTaskNotFound is returned when a task is not found
	ErrTaskNotFound = errors.New("task not found")

	// ErrCategoryNotFound is returned when a category is not found
	ErrCategoryNotFound = errors.New("category not found")

	// ErrTagNotFound is returned when a tag is not found
	ErrTagNotFound = errors.New("tag not found")

	// ErrDuplicateName is returned when a category or tag name is already taken
	ErrDuplicateName = errors.New("name already exists")

	// ErrInvalidReference is returned when a row references a missing category,
	// or a category still referenced by tasks is deleted
	ErrInvalidReference = errors.New("foreign key violation")
)

// translate maps gorm errors onto the package sentinels. notFound replaces
// gorm.ErrRecordNotFound when non-nil; any other error is returned unchanged.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateName
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	}
	return err
}
