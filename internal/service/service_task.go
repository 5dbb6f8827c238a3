// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/authz"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/notify"
	"github.com/MKhiriev/go-task-keeper/internal/store"
	"github.com/MKhiriev/go-task-keeper/models"
)

// Task field limits.
const (
	MaxTaskTitleLength       = 100
	MaxTaskDescriptionLength = 500
)

// taskService gates every task operation through the authz package before
// touching the repository.
type taskService struct {
	taskRepository store.TaskRepository
	userRepository store.UserRepository

	// notifier announces reassignments to the new owner.
	notifier notify.Notifier

	now    func() time.Time
	logger *logger.Logger
}

func NewTaskService(taskRepository store.TaskRepository, userRepository store.UserRepository, notifier notify.Notifier, logger *logger.Logger) TaskService {
	return &taskService{
		taskRepository: taskRepository,
		userRepository: userRepository,
		notifier:       notifier,
		now:            time.Now,
		logger:         logger,
	}
}

// Create stores task as owned by the actor. Missing status and priority
// default to pending and medium.
func (s *taskService) Create(ctx context.Context, actor models.Identity, task models.Task) (models.Task, error) {
	task.TaskID = 0
	task.OwnerID = actor.UserID
	task.AssignedBy = nil
	task.Title = strings.TrimSpace(task.Title)
	if task.Status == "" {
		task.Status = models.TaskPending
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}

	if err := validateTask(task); err != nil {
		return models.Task{}, err
	}

	created, err := s.taskRepository.CreateTask(ctx, task)
	if err != nil {
		return models.Task{}, taskError(ctx, err, "task creation failed")
	}

	return created, nil
}

// List returns the actor's own tasks, or every task for moderators and
// admins, narrowed by filter.
func (s *taskService) List(ctx context.Context, actor models.Identity, filter models.TaskFilter) ([]models.Task, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidDataProvided, filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.IsValid() {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidDataProvided, filter.Priority)
	}
	switch filter.Sort {
	case models.SortByCreatedAt, models.SortByDueDate, models.SortByPriority:
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidDataProvided, filter.Sort)
	}

	if !authz.CanSeeAllTasks(actor) {
		ownerID := actor.UserID
		filter.OwnerID = &ownerID
	}

	tasks, err := s.taskRepository.ListTasks(ctx, filter)
	if err != nil {
		return nil, taskError(ctx, err, "task listing failed")
	}

	return tasks, nil
}

func (s *taskService) Get(ctx context.Context, actor models.Identity, taskID int64) (models.Task, error) {
	return s.authorized(ctx, actor, taskID, authz.TaskRead)
}

// Update applies a partial update to a task the actor may update.
func (s *taskService) Update(ctx context.Context, actor models.Identity, taskID int64, update models.TaskUpdate) (models.Task, error) {
	task, err := s.authorized(ctx, actor, taskID, authz.TaskUpdate)
	if err != nil {
		return models.Task{}, err
	}

	if update.Title != nil {
		title := strings.TrimSpace(*update.Title)
		update.Title = &title
	}
	update.Apply(&task)
	if err = validateTask(task); err != nil {
		return models.Task{}, err
	}

	updated, err := s.taskRepository.UpdateTask(ctx, taskID, update)
	if err != nil {
		return models.Task{}, taskError(ctx, err, "task update failed")
	}

	return updated, nil
}

func (s *taskService) Delete(ctx context.Context, actor models.Identity, taskID int64) error {
	if _, err := s.authorized(ctx, actor, taskID, authz.TaskDelete); err != nil {
		return err
	}

	if err := s.taskRepository.DeleteTask(ctx, taskID); err != nil {
		return taskError(ctx, err, "task deletion failed")
	}
	return nil
}

// Reassign moves a task to newOwnerID and records the actor as assigner.
// Moderators and admins only. The new owner is notified on success.
func (s *taskService) Reassign(ctx context.Context, actor models.Identity, taskID, newOwnerID int64) (models.Task, error) {
	if _, err := s.authorized(ctx, actor, taskID, authz.TaskReassign); err != nil {
		return models.Task{}, err
	}

	task, err := s.taskRepository.ReassignTask(ctx, taskID, newOwnerID, actor.UserID)
	if err != nil {
		return models.Task{}, taskError(ctx, err, "task reassignment failed")
	}

	s.notifyAssignment(ctx, task, actor.UserID)

	return task, nil
}

// Stats aggregates the tasks visible to the actor.
func (s *taskService) Stats(ctx context.Context, actor models.Identity) (models.TaskStats, error) {
	var ownerID *int64
	if !authz.CanSeeAllTasks(actor) {
		id := actor.UserID
		ownerID = &id
	}

	stats, err := s.taskRepository.TaskStats(ctx, ownerID, s.now())
	if err != nil {
		return models.TaskStats{}, taskError(ctx, err, "task stats failed")
	}

	return stats, nil
}

// authorized loads the task and checks that actor may perform op on it.
func (s *taskService) authorized(ctx context.Context, actor models.Identity, taskID int64, op authz.Operation) (models.Task, error) {
	task, err := s.taskRepository.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, taskError(ctx, err, "task lookup failed")
	}

	if !authz.CanAccessTask(actor, task, op) {
		logger.FromContext(ctx).Warn().
			Int64("user_id", actor.UserID).
			Int64("task_id", taskID).
			Str("op", string(op)).
			Msg("task access denied")
		return models.Task{}, ErrForbidden
	}

	return task, nil
}

func (s *taskService) notifyAssignment(ctx context.Context, task models.Task, assignerID int64) {
	log := logger.FromContext(ctx)

	assignee, err := s.userRepository.FindUserByID(ctx, task.OwnerID)
	if err != nil {
		log.Warn().Err(err).Int64("task_id", task.TaskID).Msg("assignment email skipped: assignee lookup failed")
		return
	}
	assigner, err := s.userRepository.FindUserByID(ctx, assignerID)
	if err != nil {
		log.Warn().Err(err).Int64("task_id", task.TaskID).Msg("assignment email skipped: assigner lookup failed")
		return
	}

	if err = s.notifier.SendTaskAssignmentEmail(ctx, assignee, task, assigner); err != nil {
		log.Warn().Err(err).Int64("task_id", task.TaskID).Msg("assignment email was not sent")
	}
}

func validateTask(task models.Task) error {
	switch {
	case task.Title == "" || len(task.Title) > MaxTaskTitleLength:
		return fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidDataProvided, MaxTaskTitleLength)
	case len(task.Description) > MaxTaskDescriptionLength:
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidDataProvided, MaxTaskDescriptionLength)
	case !task.Status.IsValid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidDataProvided, task.Status)
	case !task.Priority.IsValid():
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidDataProvided, task.Priority)
	case task.DueDate.IsZero():
		return fmt.Errorf("%w: due date is required", ErrInvalidDataProvided)
	}
	return nil
}

// taskError translates repository errors into service errors.
func taskError(ctx context.Context, err error, msg string) error {
	switch {
	case errors.Is(err, store.ErrTaskNotFound), errors.Is(err, store.ErrNoUserWasFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		logger.FromContext(ctx).Err(err).Msg(msg)
		return fmt.Errorf("%s: %w", msg, err)
	}
}
