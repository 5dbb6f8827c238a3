// Package authz is the authorization engine: every role and ownership
// decision for task and user operations is made here.
//
// All functions are pure. Callers supply every fact the decision needs
// (actor role, ownership, operation) and nothing is read from storage.
package authz

import "github.com/MKhiriev/go-task-keeper/models"

// Operation names an action an actor wants to perform.
type Operation string

// Task operations.
const (
	TaskRead     Operation = "read"
	TaskUpdate   Operation = "update"
	TaskDelete   Operation = "delete"
	TaskReassign Operation = "reassign"
)

// User-management operations.
const (
	UsersList       Operation = "list"
	UsersChangeRole Operation = "changeRole"
	UsersDelete     Operation = "delete"
)

// Decide is the task decision table.
//
//	read, update, delete: owner, or moderator/admin
//	reassign:             moderator/admin only
//
// A privileged role is granted regardless of ownership. Ownership never
// grants reassign. Unknown roles and operations are denied.
func Decide(role models.Role, isOwner bool, op Operation) bool {
	if !role.IsValid() {
		return false
	}

	switch op {
	case TaskRead, TaskUpdate, TaskDelete:
		return isOwner || role.IsPrivileged()
	case TaskReassign:
		return role.IsPrivileged()
	default:
		return false
	}
}

// CanAccessTask reports whether actor may perform op on task.
func CanAccessTask(actor models.Identity, task models.Task, op Operation) bool {
	if actor.IsZero() {
		return false
	}
	return Decide(actor.Role, actor.UserID == task.OwnerID, op)
}

// CanManageUsers reports whether actor may perform the user-management op.
// list is open to moderators and admins; changeRole and delete to admins.
func CanManageUsers(actor models.Identity, op Operation) bool {
	switch op {
	case UsersList:
		return actor.Role.IsPrivileged()
	case UsersChangeRole, UsersDelete:
		return actor.Role == models.RoleAdmin
	default:
		return false
	}
}

// CanSeeAllTasks reports whether actor's listings span every owner rather
// than only the actor's own tasks.
func CanSeeAllTasks(actor models.Identity) bool {
	return actor.Role.IsPrivileged()
}
