package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskRowColumns = []string{
	"task_id", "title", "description", "status", "due_date", "priority",
	"tags", "owner_id", "assigned_by", "created_at", "updated_at",
}

func newTestTaskRepo(t *testing.T) (*taskRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	l := logger.Nop()
	return &taskRepository{DB: &DB{DB: db, logger: l}, logger: l}, mock, db
}

func TestTaskRepository_CreateTask(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	task := models.Task{
		Title:    "write tests",
		Status:   models.TaskPending,
		DueDate:  due,
		Priority: models.PriorityHigh,
		Tags:     []string{"go"},
		OwnerID:  3,
	}

	mock.ExpectQuery("INSERT INTO tasks").
		WithArgs("write tests", "", "pending", due, "high", `["go"]`, int64(3), nil).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(10, "write tests", "", "pending", due, "high", []byte(`["go"]`), 3, nil, now, now))

	created, err := repo.CreateTask(context.Background(), task)
	require.NoError(t, err)

	assert.Equal(t, int64(10), created.TaskID)
	assert.Equal(t, []string{"go"}, created.Tags)
	assert.Nil(t, created.AssignedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CreateTask_UnknownOwner(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO tasks").
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	_, err := repo.CreateTask(context.Background(), models.Task{OwnerID: 99})
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestTaskRepository_GetTask(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT task_id").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(10, "t", "d", "completed", now, "low", "[]", 3, 1, now, now))

	task, err := repo.GetTask(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, models.TaskCompleted, task.Status)
	assert.Equal(t, []string{}, task.Tags)
	require.NotNil(t, task.AssignedBy)
	assert.Equal(t, int64(1), *task.AssignedBy)
}

func TestTaskRepository_GetTask_NotFound(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT task_id").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	_, err := repo.GetTask(context.Background(), 10)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskRepository_ListTasks(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	owner := int64(3)
	now := time.Now()
	mock.ExpectQuery("SELECT task_id").
		WithArgs(owner, models.TaskPending).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(1, "a", "", "pending", now, "high", `["x"]`, 3, nil, now, now).
			AddRow(2, "b", "", "pending", now, "low", `[]`, 3, nil, now, now))

	tasks, err := repo.ListTasks(context.Background(), models.TaskFilter{OwnerID: &owner, Status: models.TaskPending})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, int64(1), tasks[0].TaskID)
	assert.Equal(t, []string{"x"}, tasks[0].Tags)
}

func TestTaskRepository_UpdateTask(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	title := "renamed"
	now := time.Now()
	mock.ExpectQuery("UPDATE tasks SET title").
		WithArgs(title, int64(4)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(4, title, "", "pending", now, "medium", `[]`, 3, nil, now, now))

	task, err := repo.UpdateTask(context.Background(), 4, models.TaskUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, task.Title)
}

func TestTaskRepository_UpdateTask_NotFound(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	title := "renamed"
	mock.ExpectQuery("UPDATE tasks SET title").
		WithArgs(title, int64(4)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	_, err := repo.UpdateTask(context.Background(), 4, models.TaskUpdate{Title: &title})
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskRepository_ReassignTask(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("UPDATE tasks").
		WithArgs(int64(4), int64(8), int64(2)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(4, "t", "", "pending", now, "medium", `[]`, 8, 2, now, now))

	task, err := repo.ReassignTask(context.Background(), 4, 8, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(8), task.OwnerID)
	require.NotNil(t, task.AssignedBy)
	assert.Equal(t, int64(2), *task.AssignedBy)
}

func TestTaskRepository_ReassignTask_UnknownUser(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	mock.ExpectQuery("UPDATE tasks").
		WithArgs(int64(4), int64(8), int64(2)).
		WillReturnError(pgError(pgerrcode.ForeignKeyViolation))

	_, err := repo.ReassignTask(context.Background(), 4, 8, 2)
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}

func TestTaskRepository_DeleteTask(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM tasks").
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM tasks").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.DeleteTask(context.Background(), 4))
	assert.ErrorIs(t, repo.DeleteTask(context.Background(), 5), ErrTaskNotFound)
}

func TestTaskRepository_TaskStats(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT status, COUNT").
		WithArgs(now, models.TaskCompleted).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "overdue"}).
			AddRow("pending", 3, 1).
			AddRow("completed", 2, 0).
			AddRow("in-progress", 1, 1))

	stats, err := repo.TaskStats(context.Background(), nil, now)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Total)
	assert.Equal(t, 2, stats.Overdue)
	assert.Equal(t, 3, stats.ByStatus[models.TaskPending])
	assert.Equal(t, 1, stats.ByStatus[models.TaskInProgress])
}

func TestTaskRepository_TaskStats_QueryError(t *testing.T) {
	repo, mock, db := newTestTaskRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT status").WillReturnError(errors.New("boom"))

	_, err := repo.TaskStats(context.Background(), nil, time.Now())
	assert.ErrorIs(t, err, ErrExecutingQuery)
}
