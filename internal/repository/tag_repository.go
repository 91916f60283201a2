package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"todoapi/internal/model"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

// GetOrCreate returns the tag with the given name, creating it if needed
func (r *TagRepository) GetOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	var tag model.Tag
	err := r.db.WithContext(ctx).Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error
	if err != nil {
		return nil, fmt.Errorf("get or create tag %q: %w", name, translate(err, ErrTagNotFound))
	}
	return &tag, nil
}

// GetByID retrieves a tag by its ID
func (r *TagRepository) GetByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err, ErrTagNotFound)
	}
	return &tag, nil
}

func (r *TagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

// ListByTask retrieves all tags attached to a specific task
func (r *TagRepository) ListByTask(ctx context.Context, taskID uint) ([]model.Tag, error) {
	var tags []model.Tag
	result := r.db.WithContext(ctx).
		Joins("JOIN task_tags ON task_tags.tag_id = tags.id").
		Where("task_tags.task_id = ?", taskID).
		Order("tags.name").
		Find(&tags)

	if result.Error != nil {
		return nil, result.Error
	}
	return tags, nil
}

// Delete removes a tag together with its task associations
func (r *TagRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", id).Delete(&model.TaskTag{}).Error; err != nil {
			return fmt.Errorf("delete task tags: %w", err)
		}
		result := tx.Delete(&model.Tag{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTagNotFound
		}
		return nil
	})
}
