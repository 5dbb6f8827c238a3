// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.createTask")
		return
	}

	var req models.CreateTaskRequest
	if err = h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.createTask")
		return
	}

	task, err := h.services.TaskService.Create(r.Context(), identity, req.ToTask(identity.UserID))
	if err != nil {
		writeError(w, r, err, "*Handler.createTask")
		return
	}

	utils.WriteJSON(w, models.TaskResponse{Message: app.MsgTaskCreated, Task: task}, http.StatusCreated)
}

// listTasks accepts the optional query parameters status, priority,
// sort (dueDate|priority) and owner. owner only narrows listings of
// moderators and admins.
func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.listTasks")
		return
	}

	filter, err := taskFilterFromQuery(r)
	if err != nil {
		writeError(w, r, err, "*Handler.listTasks")
		return
	}

	tasks, err := h.services.TaskService.List(r.Context(), identity, filter)
	if err != nil {
		writeError(w, r, err, "*Handler.listTasks")
		return
	}

	utils.WriteJSON(w, models.TaskListResponse{Count: len(tasks), Tasks: tasks}, http.StatusOK)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	identity, taskID, err := taskRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.getTask")
		return
	}

	task, err := h.services.TaskService.Get(r.Context(), identity, taskID)
	if err != nil {
		writeError(w, r, err, "*Handler.getTask")
		return
	}

	utils.WriteJSON(w, models.TaskResponse{Task: task}, http.StatusOK)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	identity, taskID, err := taskRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.updateTask")
		return
	}

	var req models.UpdateTaskRequest
	if err = h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.updateTask")
		return
	}

	task, err := h.services.TaskService.Update(r.Context(), identity, taskID, req.ToUpdate())
	if err != nil {
		writeError(w, r, err, "*Handler.updateTask")
		return
	}

	utils.WriteJSON(w, models.TaskResponse{Message: app.MsgTaskUpdated, Task: task}, http.StatusOK)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	identity, taskID, err := taskRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.deleteTask")
		return
	}

	if err = h.services.TaskService.Delete(r.Context(), identity, taskID); err != nil {
		writeError(w, r, err, "*Handler.deleteTask")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgTaskDeleted}, http.StatusOK)
}

func (h *Handler) assignTask(w http.ResponseWriter, r *http.Request) {
	identity, taskID, err := taskRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.assignTask")
		return
	}

	var req models.AssignTaskRequest
	if err = h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.assignTask")
		return
	}

	task, err := h.services.TaskService.Reassign(r.Context(), identity, taskID, req.UserID)
	if err != nil {
		writeError(w, r, err, "*Handler.assignTask")
		return
	}

	utils.WriteJSON(w, models.TaskResponse{Message: app.MsgTaskAssigned, Task: task}, http.StatusOK)
}

func (h *Handler) taskStats(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.taskStats")
		return
	}

	stats, err := h.services.TaskService.Stats(r.Context(), identity)
	if err != nil {
		writeError(w, r, err, "*Handler.taskStats")
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}

func taskRequest(r *http.Request) (models.Identity, int64, error) {
	identity, err := identityFromRequest(r)
	if err != nil {
		return models.Identity{}, 0, err
	}

	taskID, err := idParam(r, "taskID")
	if err != nil {
		return models.Identity{}, 0, err
	}

	return identity, taskID, nil
}

func taskFilterFromQuery(r *http.Request) (models.TaskFilter, error) {
	query := r.URL.Query()

	filter := models.TaskFilter{
		Status:   models.TaskStatus(query.Get("status")),
		Priority: models.TaskPriority(query.Get("priority")),
		Sort:     models.TaskSort(query.Get("sort")),
	}

	if raw := query.Get("owner"); raw != "" {
		ownerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || ownerID <= 0 {
			return models.TaskFilter{}, fmt.Errorf("%w: owner=%q", ErrInvalidPathParam, raw)
		}
		filter.OwnerID = &ownerID
	}

	return filter, nil
}
