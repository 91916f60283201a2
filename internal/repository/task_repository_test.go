package repository_test

import (
	"context"
	"testing"
	"time"

	"todoapi/internal/model"
	"todoapi/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	assert.NoError(t, err)

	return gormDB, mock
}

var taskColumns = []string{"id", "text", "completed", "created_at", "due_date", "completed_at", "category_id", "priority"}

func TestTaskRepository_Create(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	task := &model.Task{
		Text:       "Buy milk",
		CategoryID: 1,
		Priority:   model.PriorityMedium,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "tasks"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Create(context.Background(), task, nil)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, uint(7), task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	createdAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE "tasks"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(3, "Write report", false, createdAt, nil, nil, 2, "low"))

	// Act
	task, err := taskRepo.GetByID(context.Background(), 3)

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, task)
	assert.Equal(t, uint(3), task.ID)
	assert.Equal(t, "Write report", task.Text)
	assert.Equal(t, uint(2), task.CategoryID)
	assert.Equal(t, "low", task.Priority)
	assert.Nil(t, task.DueDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE "tasks"."id" = \$1`).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	// Act
	task, err := taskRepo.GetByID(context.Background(), 42)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_Error(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "tasks"`).WillReturnError(assert.AnError)

	// Act
	task, err := taskRepo.GetByID(context.Background(), 1)

	// Assert
	assert.ErrorIs(t, err, assert.AnError)
	assert.Nil(t, task)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "task_tags" WHERE task_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "tasks" WHERE "tasks"."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := taskRepo.Delete(context.Background(), 5)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_Delete_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	taskRepo := repository.NewTaskRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "task_tags"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "tasks"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	// Act
	err := taskRepo.Delete(context.Background(), 99)

	// Assert
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_List(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	categoryRepo := repository.NewCategoryRepository(gormDB)

	now := time.Now()
	mock.ExpectQuery(`SELECT \* FROM "categories" ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(1, "Personal", now).
			AddRow(2, "Work", now))

	// Act
	categories, err := categoryRepo.List(context.Background())

	// Assert
	assert.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, "Personal", categories[0].Name)
	assert.Equal(t, "Work", categories[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
