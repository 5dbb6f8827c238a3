package models

import "time"

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// VerifyEmailRequest is the body of POST /api/auth/verify-email.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// UpdateProfileRequest is the body of PUT /api/users/profile.
// At least one field must be set.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=30"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// ChangeRoleRequest is the body of PUT /api/users/{userID}/role.
type ChangeRoleRequest struct {
	Role Role `json:"role" validate:"required,role"`
}

// CreateTaskRequest is the body of POST /api/tasks.
type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"required,max=100"`
	Description string       `json:"description" validate:"max=500"`
	Status      TaskStatus   `json:"status" validate:"omitempty,task_status"`
	DueDate     time.Time    `json:"due_date" validate:"required"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,task_priority"`
	Tags        []string     `json:"tags" validate:"omitempty,dive,required,max=50"`
}

// ToTask converts the request into a new task owned by ownerID, filling in
// the default status and priority.
func (r CreateTaskRequest) ToTask(ownerID int64) Task {
	task := Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Tags:        r.Tags,
		OwnerID:     ownerID,
	}
	if task.Status == "" {
		task.Status = TaskPending
	}
	if task.Priority == "" {
		task.Priority = PriorityMedium
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	return task
}

// UpdateTaskRequest is the body of PUT /api/tasks/{taskID}.
type UpdateTaskRequest struct {
	Title       *string       `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string       `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *TaskStatus   `json:"status,omitempty" validate:"omitempty,task_status"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty" validate:"omitempty,task_priority"`
	Tags        *[]string     `json:"tags,omitempty" validate:"omitempty,dive,required,max=50"`
}

// ToUpdate converts the request into a partial task update.
func (r UpdateTaskRequest) ToUpdate() TaskUpdate {
	return TaskUpdate{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		DueDate:     r.DueDate,
		Priority:    r.Priority,
		Tags:        r.Tags,
	}
}

// AssignTaskRequest is the body of POST /api/tasks/{taskID}/assign.
type AssignTaskRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}
