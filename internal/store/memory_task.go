package store

import (
	"context"
	"slices"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
)

type memoryTaskRepository struct {
	db *memoryDB
}

func (r *memoryTaskRepository) CreateTask(_ context.Context, task models.Task) (models.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.users[task.OwnerID]; !ok {
		return models.Task{}, ErrNoUserWasFound
	}

	r.db.lastTaskID++
	now := r.db.now()
	task = cloneTask(task)
	task.TaskID = r.db.lastTaskID
	task.CreatedAt = now
	task.UpdatedAt = now
	r.db.tasks[task.TaskID] = task

	return cloneTask(task), nil
}

func (r *memoryTaskRepository) GetTask(_ context.Context, taskID int64) (models.Task, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	task, ok := r.db.tasks[taskID]
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *memoryTaskRepository) ListTasks(_ context.Context, filter models.TaskFilter) ([]models.Task, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	tasks := make([]models.Task, 0, len(r.db.tasks))
	for _, task := range r.db.tasks {
		if filter.OwnerID != nil && task.OwnerID != *filter.OwnerID {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		tasks = append(tasks, cloneTask(task))
	}

	slices.SortFunc(tasks, taskOrder(filter.Sort))
	return tasks, nil
}

// taskOrder mirrors the ORDER BY clauses of buildListTasksQuery.
func taskOrder(sort models.TaskSort) func(a, b models.Task) int {
	switch sort {
	case models.SortByDueDate:
		return func(a, b models.Task) int {
			if c := a.DueDate.Compare(b.DueDate); c != 0 {
				return c
			}
			return compareInt64(a.TaskID, b.TaskID)
		}
	case models.SortByPriority:
		return func(a, b models.Task) int {
			if c := a.Priority.Rank() - b.Priority.Rank(); c != 0 {
				return c
			}
			if c := a.DueDate.Compare(b.DueDate); c != 0 {
				return c
			}
			return compareInt64(a.TaskID, b.TaskID)
		}
	default:
		return func(a, b models.Task) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return compareInt64(b.TaskID, a.TaskID)
		}
	}
}

func (r *memoryTaskRepository) UpdateTask(_ context.Context, taskID int64, update models.TaskUpdate) (models.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	task, ok := r.db.tasks[taskID]
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	if update.IsEmpty() {
		return cloneTask(task), nil
	}

	update.Apply(&task)
	task.UpdatedAt = r.db.now()
	r.db.tasks[taskID] = task

	return cloneTask(task), nil
}

func (r *memoryTaskRepository) ReassignTask(_ context.Context, taskID, ownerID, assignedBy int64) (models.Task, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	task, ok := r.db.tasks[taskID]
	if !ok {
		return models.Task{}, ErrTaskNotFound
	}
	if _, ok = r.db.users[ownerID]; !ok {
		return models.Task{}, ErrNoUserWasFound
	}
	if _, ok = r.db.users[assignedBy]; !ok {
		return models.Task{}, ErrNoUserWasFound
	}

	task.OwnerID = ownerID
	task.AssignedBy = &assignedBy
	task.UpdatedAt = r.db.now()
	r.db.tasks[taskID] = task

	return cloneTask(task), nil
}

func (r *memoryTaskRepository) DeleteTask(_ context.Context, taskID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.tasks[taskID]; !ok {
		return ErrTaskNotFound
	}
	delete(r.db.tasks, taskID)
	return nil
}

func (r *memoryTaskRepository) TaskStats(_ context.Context, ownerID *int64, now time.Time) (models.TaskStats, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	stats := models.TaskStats{ByStatus: make(map[models.TaskStatus]int, 3)}
	for _, task := range r.db.tasks {
		if ownerID != nil && task.OwnerID != *ownerID {
			continue
		}
		stats.Total++
		stats.ByStatus[task.Status]++
		if task.IsOverdue(now) {
			stats.Overdue++
		}
	}

	return stats, nil
}
