// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// TaskStatus is the progress state of a task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// IsValid reports whether s is a known status.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// TaskPriority is the urgency of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// IsValid reports whether p is a known priority.
func (p TaskPriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank orders priorities from most to least urgent: high=1, medium=2, low=3.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// Task is a unit of work owned by exactly one user.
type Task struct {
	TaskID      int64        `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	DueDate     time.Time    `json:"due_date"`
	Priority    TaskPriority `json:"priority"`
	Tags        []string     `json:"tags"`

	// OwnerID references the user that currently owns the task.
	OwnerID int64 `json:"owner_id"`

	// AssignedBy references the moderator or admin that last reassigned
	// the task. Nil when the task was never reassigned or the assigner
	// has been deleted.
	AssignedBy *int64 `json:"assigned_by,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the Task model.
func (t Task) TableName() string {
	return "tasks"
}

// IsOverdue reports whether the task is past its due date and not completed.
func (t Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskCompleted && t.DueDate.Before(now)
}

// TaskSort selects the ordering of a task listing.
type TaskSort string

const (
	// SortByCreatedAt orders newest first. This is the default.
	SortByCreatedAt TaskSort = ""
	// SortByDueDate orders by due date, earliest first.
	SortByDueDate TaskSort = "dueDate"
	// SortByPriority orders high, medium, low.
	SortByPriority TaskSort = "priority"
)

// TaskFilter narrows a task listing. Zero fields do not filter.
type TaskFilter struct {
	// OwnerID restricts the listing to one owner when non-nil.
	OwnerID  *int64
	Status   TaskStatus
	Priority TaskPriority
	Sort     TaskSort
}

// TaskUpdate is a partial update of a task. Only non-nil fields are applied.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	DueDate     *time.Time
	Priority    *TaskPriority
	Tags        *[]string
}

// IsEmpty reports whether the update changes nothing.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil &&
		u.DueDate == nil && u.Priority == nil && u.Tags == nil
}

// Apply copies the non-nil fields of u onto t.
func (u TaskUpdate) Apply(t *Task) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.DueDate != nil {
		t.DueDate = *u.DueDate
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Tags != nil {
		t.Tags = append([]string(nil), (*u.Tags)...)
	}
}

// TaskStats is a simple aggregation over a set of tasks.
type TaskStats struct {
	Total    int                `json:"total"`
	Overdue  int                `json:"overdue"`
	ByStatus map[TaskStatus]int `json:"by_status"`
}
