// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_buildListTasksQuery(t *testing.T) {
	owner := int64(42)

	tests := []struct {
		name         string
		filter       models.TaskFilter
		wantArgs     []any
		wantContains []string
		wantMissing  []string
	}{
		{
			name:         "no filter orders newest first",
			filter:       models.TaskFilter{},
			wantContains: []string{"from tasks", "order by created_at desc"},
			wantMissing:  []string{"where"},
		},
		{
			name:         "owner only",
			filter:       models.TaskFilter{OwnerID: &owner},
			wantArgs:     []any{owner},
			wantContains: []string{"where owner_id = $1"},
		},
		{
			name: "owner status priority",
			filter: models.TaskFilter{
				OwnerID:  &owner,
				Status:   models.TaskPending,
				Priority: models.PriorityHigh,
			},
			wantArgs:     []any{owner, models.TaskPending, models.PriorityHigh},
			wantContains: []string{"owner_id = $1", "status = $2", "priority = $3"},
		},
		{
			name:         "sort by due date",
			filter:       models.TaskFilter{Sort: models.SortByDueDate},
			wantContains: []string{"order by due_date asc"},
		},
		{
			name:         "sort by priority",
			filter:       models.TaskFilter{Sort: models.SortByPriority},
			wantContains: []string{"case priority when 'high' then 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := buildListTasksQuery(tt.filter)
			require.NoError(t, err)

			q := strings.ToLower(query)
			for _, part := range tt.wantContains {
				assert.Contains(t, q, part)
			}
			for _, part := range tt.wantMissing {
				assert.NotContains(t, q, part)
			}
			if tt.wantArgs == nil {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func Test_buildUpdateTaskQuery(t *testing.T) {
	title := "new title"
	status := models.TaskCompleted
	tags := []string{"a", "b"}

	query, args, err := buildUpdateTaskQuery(7, models.TaskUpdate{
		Title:  &title,
		Status: &status,
		Tags:   &tags,
	})
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.True(t, strings.HasPrefix(q, "update tasks set title = $1"))
	assert.Contains(t, q, "status = $2")
	assert.Contains(t, q, "tags = $3")
	assert.Contains(t, q, "updated_at = now()")
	assert.Contains(t, q, "where task_id = $4")
	assert.Contains(t, q, "returning task_id")
	assert.NotContains(t, q, "description")

	require.Len(t, args, 4)
	assert.Equal(t, title, args[0])
	assert.Equal(t, status, args[1])
	assert.Equal(t, jsonTags(tags), args[2])
	assert.Equal(t, int64(7), args[3])
}

func Test_buildTaskStatsQuery(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all tasks", func(t *testing.T) {
		query, args, err := buildTaskStatsQuery(nil, now)
		require.NoError(t, err)

		q := strings.ToLower(query)
		assert.Contains(t, q, "group by status")
		assert.Contains(t, q, "filter (where due_date < $1 and status <> $2)")
		assert.NotContains(t, q, "owner_id")
		assert.Equal(t, []any{now, models.TaskCompleted}, args)
	})

	t.Run("single owner", func(t *testing.T) {
		owner := int64(3)
		query, args, err := buildTaskStatsQuery(&owner, now)
		require.NoError(t, err)

		assert.Contains(t, strings.ToLower(query), "where owner_id = $3")
		assert.Equal(t, []any{now, models.TaskCompleted, owner}, args)
	})
}

func Test_buildUpdateProfileQuery(t *testing.T) {
	username := "neo"

	query, args, err := buildUpdateProfileQuery(1, &username, nil)
	require.NoError(t, err)

	q := strings.ToLower(query)
	assert.Contains(t, q, "update users set username = $1 where user_id = $2")
	assert.NotContains(t, q, "email =")
	assert.Equal(t, []any{username, int64(1)}, args)
}

func TestJSONTags(t *testing.T) {
	t.Run("nil encodes as empty array", func(t *testing.T) {
		v, err := jsonTags(nil).Value()
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	})

	t.Run("scan bytes", func(t *testing.T) {
		var tags jsonTags
		require.NoError(t, tags.Scan([]byte(`["go","api"]`)))
		assert.Equal(t, jsonTags{"go", "api"}, tags)
	})

	t.Run("scan null json", func(t *testing.T) {
		var tags jsonTags
		require.NoError(t, tags.Scan("null"))
		assert.Equal(t, jsonTags{}, tags)
	})

	t.Run("scan unsupported type", func(t *testing.T) {
		var tags jsonTags
		assert.Error(t, tags.Scan(42))
	})
}
