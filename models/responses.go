package models

// AuthResponse is returned by register and login. The same token is also
// set in the Authorization response header.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}

// MessageResponse carries a human-readable outcome or error message.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Message string `json:"message,omitempty"`
	Task    Task   `json:"task"`
}

// TaskListResponse wraps a task listing.
type TaskListResponse struct {
	// Count is the number of entries in Tasks.
	Count int    `json:"count"`
	Tasks []Task `json:"tasks"`
}

// UserListResponse wraps a user listing.
type UserListResponse struct {
	Count int    `json:"count"`
	Users []User `json:"users"`
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"build_date"`
	Commit  string `json:"build_commit"`
}
