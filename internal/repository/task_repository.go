package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"todoapi/internal/model"
)

// ErrMissingCategory is returned by List when a task's category row cannot be
// joined. The foreign key makes this unreachable unless the schema was altered.
var ErrMissingCategory = errors.New("task references a missing category")

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task, tagNames []string) error
	GetByID(ctx context.Context, id uint) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}, tagNames []string) error
	Toggle(ctx context.Context, id uint, now time.Time) (*model.Task, error)
	Delete(ctx context.Context, id uint) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create inserts the task and attaches the named tags, creating missing tags
func (r *TaskRepository) Create(ctx context.Context, task *model.Task, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category", "Tags").Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", translate(err, nil))
		}
		if len(tagNames) == 0 {
			return nil
		}
		return replaceTags(ctx, tx, task.ID, tagNames)
	})
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, id)
	if result.Error != nil {
		return nil, translate(result.Error, ErrTaskNotFound)
	}
	return &task, nil
}

// List retrieves every task with its category and tags, ordered by ID
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Joins("Category").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.name")
		}).
		Order("tasks.id").
		Find(&tasks)

	if result.Error != nil {
		return nil, fmt.Errorf("list tasks: %w", result.Error)
	}

	for _, task := range tasks {
		if task.Category.ID == 0 {
			return nil, fmt.Errorf("task %d, category %d: %w", task.ID, task.CategoryID, ErrMissingCategory)
		}
	}
	return tasks, nil
}

// Update writes the given columns. A nil tagNames keeps the current tags,
// a non-nil one (even empty) replaces them.
func (r *TaskRepository) Update(ctx context.Context, id uint, fields map[string]interface{}, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task model.Task
		if err := tx.Select("id").First(&task, id).Error; err != nil {
			return translate(err, ErrTaskNotFound)
		}

		if len(fields) > 0 {
			if err := tx.Model(&task).Updates(fields).Error; err != nil {
				return translate(err, ErrTaskNotFound)
			}
		}

		if tagNames == nil {
			return nil
		}
		return replaceTags(ctx, tx, id, tagNames)
	})
}

// Toggle flips the completed flag. completed_at is stamped with now when the
// task becomes completed and cleared when it is reopened.
func (r *TaskRepository) Toggle(ctx context.Context, id uint, now time.Time) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, id).Error; err != nil {
			return translate(err, ErrTaskNotFound)
		}

		task.Completed = !task.Completed
		if task.Completed {
			task.CompletedAt = &now
		} else {
			task.CompletedAt = nil
		}

		return tx.Model(&task).Select("completed", "completed_at").Updates(map[string]interface{}{
			"completed":    task.Completed,
			"completed_at": task.CompletedAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete removes a task by its ID, together with its tag associations
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskTag{}).Error; err != nil {
			return fmt.Errorf("delete task tags: %w", err)
		}

		result := tx.Delete(&model.Task{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
}

// replaceTags swaps the task's junction rows for the named tags
func replaceTags(ctx context.Context, tx *gorm.DB, taskID uint, tagNames []string) error {
	if err := tx.Where("task_id = ?", taskID).Delete(&model.TaskTag{}).Error; err != nil {
		return fmt.Errorf("clear task tags: %w", err)
	}
	if len(tagNames) == 0 {
		return nil
	}

	tags := NewTagRepository(tx)
	links := make([]model.TaskTag, 0, len(tagNames))
	for _, name := range tagNames {
		tag, err := tags.GetOrCreate(ctx, name)
		if err != nil {
			return err
		}
		links = append(links, model.TaskTag{TaskID: taskID, TagID: tag.ID})
	}

	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("attach tags: %w", err)
	}
	return nil
}
