package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/models"
)

// taskRepository is the PostgreSQL-backed implementation of [TaskRepository].
type taskRepository struct {
	*DB
	logger *logger.Logger
}

// NewTaskRepository constructs a [TaskRepository] backed by db.
func NewTaskRepository(db *DB, logger *logger.Logger) TaskRepository {
	logger.Debug().Msg("creating task repository")
	return &taskRepository{
		DB:     db,
		logger: logger,
	}
}

// CreateTask inserts task and returns it with id and timestamps set.
// A missing owner yields [ErrNoUserWasFound].
func (t *taskRepository) CreateTask(ctx context.Context, task models.Task) (models.Task, error) {
	log := logger.FromContext(ctx)

	row := t.DB.QueryRowContext(ctx, createTask,
		task.Title,
		task.Description,
		string(task.Status),
		task.DueDate,
		string(task.Priority),
		jsonTags(task.Tags),
		task.OwnerID,
		task.AssignedBy,
	)
	if err := row.Err(); err != nil {
		log.Err(err).
			Str("func", "taskRepository.CreateTask").
			Int64("owner_id", task.OwnerID).
			Msg("error inserting task")
		if isForeignKeyViolation(err) {
			return models.Task{}, ErrNoUserWasFound
		}
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	created, err := scanTask(row)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.CreateTask").Msg("error: scanning error")
		return models.Task{}, err
	}

	return created, nil
}

// GetTask returns the task with the given id or [ErrTaskNotFound].
func (t *taskRepository) GetTask(ctx context.Context, taskID int64) (models.Task, error) {
	log := logger.FromContext(ctx)

	var task models.Task
	err := t.withRetry(ctx, func() error {
		row := t.DB.QueryRowContext(ctx, getTask, taskID)
		if err := row.Err(); err != nil {
			return err
		}

		found, err := scanTask(row)
		if err != nil {
			return err
		}
		task = found
		return nil
	})

	switch {
	case err == nil:
		return task, nil
	case errors.Is(err, ErrTaskNotFound):
		return models.Task{}, ErrTaskNotFound
	default:
		log.Err(err).Str("func", "taskRepository.GetTask").Int64("task_id", taskID).Msg("error getting task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
}

// ListTasks returns the tasks matching filter in the requested order.
func (t *taskRepository) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListTasksQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.ListTasks").Msg("failed to create query")
		return nil, err
	}

	rows, err := t.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.ListTasks").Msg("failed to execute query for listing tasks")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	tasks := make([]models.Task, 0, 50)
	for rows.Next() {
		task, scanErr := scanTask(rows)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "taskRepository.ListTasks").Msg("failed to scan task row")
			return nil, scanErr
		}
		tasks = append(tasks, task)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "taskRepository.ListTasks").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return tasks, nil
}

// UpdateTask applies the non-nil fields of update and returns the stored
// task. An empty update returns the task unchanged.
func (t *taskRepository) UpdateTask(ctx context.Context, taskID int64, update models.TaskUpdate) (models.Task, error) {
	if update.IsEmpty() {
		return t.GetTask(ctx, taskID)
	}

	log := logger.FromContext(ctx)

	query, args, err := buildUpdateTaskQuery(taskID, update)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.UpdateTask").Msg("failed to create query")
		return models.Task{}, err
	}

	row := t.DB.QueryRowContext(ctx, query, args...)
	if err = row.Err(); err != nil {
		log.Err(err).Str("func", "taskRepository.UpdateTask").Int64("task_id", taskID).Msg("error updating task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	updated, err := scanTask(row)
	if err != nil {
		if !errors.Is(err, ErrTaskNotFound) {
			log.Err(err).Str("func", "taskRepository.UpdateTask").Msg("error: scanning error")
		}
		return models.Task{}, err
	}

	return updated, nil
}

// ReassignTask moves the task to ownerID and records assignedBy.
func (t *taskRepository) ReassignTask(ctx context.Context, taskID, ownerID, assignedBy int64) (models.Task, error) {
	log := logger.FromContext(ctx).With().
		Int64("task_id", taskID).
		Int64("owner_id", ownerID).
		Int64("assigned_by", assignedBy).
		Logger()

	var task models.Task
	err := t.withRetry(ctx, func() error {
		row := t.DB.QueryRowContext(ctx, reassignTask, taskID, ownerID, assignedBy)
		if err := row.Err(); err != nil {
			return err
		}

		updated, err := scanTask(row)
		if err != nil {
			return err
		}
		task = updated
		return nil
	})

	switch {
	case err == nil:
		return task, nil
	case errors.Is(err, ErrTaskNotFound):
		return models.Task{}, ErrTaskNotFound
	case isForeignKeyViolation(err):
		return models.Task{}, ErrNoUserWasFound
	default:
		log.Err(err).Str("func", "taskRepository.ReassignTask").Msg("error reassigning task")
		return models.Task{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
}

// DeleteTask removes the task or reports [ErrTaskNotFound].
func (t *taskRepository) DeleteTask(ctx context.Context, taskID int64) error {
	log := logger.FromContext(ctx)

	var affected int64
	err := t.withRetry(ctx, func() error {
		result, err := t.DB.ExecContext(ctx, deleteTask, taskID)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	if err != nil {
		log.Err(err).Str("func", "taskRepository.DeleteTask").Int64("task_id", taskID).Msg("failed to delete task")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// TaskStats aggregates tasks of ownerID, or of every user when ownerID is nil.
func (t *taskRepository) TaskStats(ctx context.Context, ownerID *int64, now time.Time) (models.TaskStats, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildTaskStatsQuery(ownerID, now)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.TaskStats").Msg("failed to create query")
		return models.TaskStats{}, err
	}

	rows, err := t.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "taskRepository.TaskStats").Msg("failed to execute stats query")
		return models.TaskStats{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	stats := models.TaskStats{ByStatus: make(map[models.TaskStatus]int, 3)}
	for rows.Next() {
		var (
			status         models.TaskStatus
			count, overdue int
		)
		if scanErr := rows.Scan(&status, &count, &overdue); scanErr != nil {
			log.Err(scanErr).Str("func", "taskRepository.TaskStats").Msg("failed to scan stats row")
			return models.TaskStats{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		stats.ByStatus[status] = count
		stats.Total += count
		stats.Overdue += overdue
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "taskRepository.TaskStats").Msg("error occurred during rows iteration")
		return models.TaskStats{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return stats, nil
}

func scanTask(row rowScanner) (models.Task, error) {
	var (
		task       models.Task
		tags       jsonTags
		assignedBy sql.NullInt64
	)

	err := row.Scan(
		&task.TaskID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.DueDate,
		&task.Priority,
		&tags,
		&task.OwnerID,
		&assignedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, ErrTaskNotFound
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	task.Tags = tags
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if assignedBy.Valid {
		id := assignedBy.Int64
		task.AssignedBy = &id
	}

	return task, nil
}
