package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.getProfile")
		return
	}

	user, err := h.services.UserService.Profile(r.Context(), identity)
	if err != nil {
		writeError(w, r, err, "*Handler.getProfile")
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.updateProfile")
		return
	}

	var req models.UpdateProfileRequest
	if err = h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.updateProfile")
		return
	}

	user, err := h.services.UserService.UpdateProfile(r.Context(), identity, req.Username, req.Email)
	if err != nil {
		writeError(w, r, err, "*Handler.updateProfile")
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.listUsers")
		return
	}

	users, err := h.services.UserService.List(r.Context(), identity)
	if err != nil {
		writeError(w, r, err, "*Handler.listUsers")
		return
	}

	utils.WriteJSON(w, models.UserListResponse{Count: len(users), Users: users}, http.StatusOK)
}

func (h *Handler) changeRole(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.changeRole")
		return
	}

	userID, err := idParam(r, "userID")
	if err != nil {
		writeError(w, r, err, "*Handler.changeRole")
		return
	}

	var req models.ChangeRoleRequest
	if err = h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.changeRole")
		return
	}

	user, err := h.services.UserService.ChangeRole(r.Context(), identity, userID, req.Role)
	if err != nil {
		writeError(w, r, err, "*Handler.changeRole")
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.deleteUser")
		return
	}

	userID, err := idParam(r, "userID")
	if err != nil {
		writeError(w, r, err, "*Handler.deleteUser")
		return
	}

	if err = h.services.UserService.Delete(r.Context(), identity, userID); err != nil {
		writeError(w, r, err, "*Handler.deleteUser")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgUserDeleted}, http.StatusOK)
}
