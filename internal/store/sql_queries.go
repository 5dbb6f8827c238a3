package store

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

const userColumns = `user_id, username, email, password_hash, role, email_verified, created_at`

const (
	createUser = `INSERT INTO users (username, email, password_hash, role, email_verified)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING ` + userColumns + `;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE email = $1;`

	listUsers = `SELECT ` + userColumns + `
    FROM users
    ORDER BY user_id;`

	updateUserRole = `UPDATE users
    SET role = $2
    WHERE user_id = $1
    RETURNING ` + userColumns + `;`

	updateUserPassword = `UPDATE users
    SET password_hash = $2
    WHERE user_id = $1;`

	markUserEmailVerified = `UPDATE users
    SET email_verified = TRUE
    WHERE user_id = $1;`

	deleteUser = `DELETE FROM users
    WHERE user_id = $1;`
)

const taskColumns = `task_id, title, description, status, due_date, priority, tags, owner_id, assigned_by, created_at, updated_at`

const (
	createTask = `INSERT INTO tasks (title, description, status, due_date, priority, tags, owner_id, assigned_by)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    RETURNING ` + taskColumns + `;`

	getTask = `SELECT ` + taskColumns + `
    FROM tasks
    WHERE task_id = $1;`

	reassignTask = `UPDATE tasks
    SET owner_id = $2, assigned_by = $3, updated_at = NOW()
    WHERE task_id = $1
    RETURNING ` + taskColumns + `;`

	deleteTask = `DELETE FROM tasks
    WHERE task_id = $1;`
)

const actionTokenColumns = `id, user_id, purpose, token_hash, expires_at, consumed_at, created_at`

const (
	// saveActionToken overwrites the (user_id, purpose) slot so that only the
	// newest token of a purpose can be redeemed.
	saveActionToken = `INSERT INTO action_tokens (user_id, purpose, token_hash, expires_at)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (user_id, purpose) DO UPDATE
    SET token_hash  = EXCLUDED.token_hash,
        expires_at  = EXCLUDED.expires_at,
        consumed_at = NULL,
        created_at  = NOW();`

	// consumeActionToken is the compare-and-set on consumed_at: of several
	// concurrent executions for the same row only one matches the WHERE
	// clause once the row lock is released.
	consumeActionToken = `UPDATE action_tokens
    SET consumed_at = $3
    WHERE token_hash = $1
      AND purpose = $2
      AND consumed_at IS NULL
      AND expires_at > $3
    RETURNING ` + actionTokenColumns + `;`

	findActionToken = `SELECT ` + actionTokenColumns + `
    FROM action_tokens
    WHERE token_hash = $1 AND purpose = $2;`

	// Consumed tokens stay until they expire so that a repeated redemption
	// keeps failing as already used.
	deleteExpiredActionTokens = `DELETE FROM action_tokens
    WHERE expires_at <= $1;`
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildListTasksQuery builds the task listing query for filter.
// Default ordering is newest first.
func buildListTasksQuery(filter models.TaskFilter) (string, []any, error) {
	query := psql.Select(strings.Split(taskColumns, ", ")...).From("tasks")

	if filter.OwnerID != nil {
		query = query.Where(sq.Eq{"owner_id": *filter.OwnerID})
	}
	if filter.Status != "" {
		query = query.Where(sq.Eq{"status": filter.Status})
	}
	if filter.Priority != "" {
		query = query.Where(sq.Eq{"priority": filter.Priority})
	}

	switch filter.Sort {
	case models.SortByDueDate:
		query = query.OrderBy("due_date ASC", "task_id ASC")
	case models.SortByPriority:
		query = query.OrderBy("CASE priority WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END", "due_date ASC", "task_id ASC")
	default:
		query = query.OrderBy("created_at DESC", "task_id DESC")
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlQuery, args, nil
}

// buildUpdateTaskQuery builds a partial UPDATE touching only the fields set
// in update.
func buildUpdateTaskQuery(taskID int64, update models.TaskUpdate) (string, []any, error) {
	query := psql.Update("tasks")

	if update.Title != nil {
		query = query.Set("title", *update.Title)
	}
	if update.Description != nil {
		query = query.Set("description", *update.Description)
	}
	if update.Status != nil {
		query = query.Set("status", *update.Status)
	}
	if update.DueDate != nil {
		query = query.Set("due_date", *update.DueDate)
	}
	if update.Priority != nil {
		query = query.Set("priority", *update.Priority)
	}
	if update.Tags != nil {
		query = query.Set("tags", jsonTags(*update.Tags))
	}

	sqlQuery, args, err := query.
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"task_id": taskID}).
		Suffix("RETURNING " + taskColumns).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlQuery, args, nil
}

// buildTaskStatsQuery counts tasks per status together with the number of
// overdue tasks (due before now and not completed) in each group.
func buildTaskStatsQuery(ownerID *int64, now time.Time) (string, []any, error) {
	query := psql.
		Select("status", "COUNT(*)").
		Column(sq.Expr("COUNT(*) FILTER (WHERE due_date < ? AND status <> ?)", now, models.TaskCompleted)).
		From("tasks").
		GroupBy("status")

	if ownerID != nil {
		query = query.Where(sq.Eq{"owner_id": *ownerID})
	}

	sqlQuery, args, err := query.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlQuery, args, nil
}

// buildUpdateProfileQuery builds the UPDATE for the non-nil profile fields.
func buildUpdateProfileQuery(userID int64, username, email *string) (string, []any, error) {
	query := psql.Update("users")

	if username != nil {
		query = query.Set("username", *username)
	}
	if email != nil {
		query = query.Set("email", *email)
	}

	sqlQuery, args, err := query.
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	return sqlQuery, args, nil
}

// jsonTags stores a tag list in a JSONB column.
type jsonTags []string

// Value implements [driver.Valuer].
func (t jsonTags) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(t))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements [sql.Scanner].
func (t *jsonTags) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = jsonTags{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tags type %T", src)
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return fmt.Errorf("error decoding tags: %w", err)
	}
	if tags == nil {
		tags = []string{}
	}
	*t = tags
	return nil
}
