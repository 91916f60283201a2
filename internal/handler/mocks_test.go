package handler_test

import (
	"context"
	"time"

	"todoapi/internal/model"

	"github.com/stretchr/testify/mock"
)

// MockTaskRepository is a testify double for the task repository
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, task *model.Task, tagNames []string) error {
	args := m.Called(ctx, task, tagNames)
	return args.Error(0)
}

func (m *MockTaskRepository) GetByID(ctx context.Context, id uint) (*model.Task, error) {
	args := m.Called(ctx, id)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context) ([]model.Task, error) {
	args := m.Called(ctx)
	tasks := args.Get(0)
	if tasks == nil {
		return nil, args.Error(1)
	}
	return tasks.([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) Update(ctx context.Context, id uint, fields map[string]interface{}, tagNames []string) error {
	args := m.Called(ctx, id, fields, tagNames)
	return args.Error(0)
}

func (m *MockTaskRepository) Toggle(ctx context.Context, id uint, now time.Time) (*model.Task, error) {
	args := m.Called(ctx, id, now)
	task := args.Get(0)
	if task == nil {
		return nil, args.Error(1)
	}
	return task.(*model.Task), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockCategoryRepository is a testify double for the category repository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id uint) (*model.Category, error) {
	args := m.Called(ctx, id)
	category := args.Get(0)
	if category == nil {
		return nil, args.Error(1)
	}
	return category.(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	categories := args.Get(0)
	if categories == nil {
		return nil, args.Error(1)
	}
	return categories.([]model.Category), args.Error(1)
}

// MockCategoryCache is a testify double for the category cache
type MockCategoryCache struct {
	mock.Mock
}

func (m *MockCategoryCache) Get(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	categories := args.Get(0)
	if categories == nil {
		return nil, args.Error(1)
	}
	return categories.([]model.Category), args.Error(1)
}

func (m *MockCategoryCache) Set(ctx context.Context, categories []model.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *MockCategoryCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
