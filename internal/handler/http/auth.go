package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.register")
		return
	}

	user, token, err := h.services.AuthService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "*Handler.register")
		return
	}

	logger.FromRequest(r).Info().Int64("user_id", user.UserID).Msg("user registered")

	w.Header().Set("Authorization", "Bearer "+token.String())
	utils.WriteJSON(w, models.AuthResponse{
		Message: app.MsgRegistered,
		User:    user,
		Token:   token.String(),
	}, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.login")
		return
	}

	user, token, err := h.services.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err, "*Handler.login")
		return
	}

	logger.FromRequest(r).Debug().Int64("id", user.UserID).Msg("user successfully logged in")

	w.Header().Set("Authorization", "Bearer "+token.String())
	utils.WriteJSON(w, models.AuthResponse{
		Message: app.MsgLoggedIn,
		User:    user,
		Token:   token.String(),
	}, http.StatusOK)
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyEmailRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.verifyEmail")
		return
	}

	if err := h.services.AuthService.VerifyEmail(r.Context(), req.Token); err != nil {
		writeError(w, r, err, "*Handler.verifyEmail")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgEmailVerified}, http.StatusOK)
}

// forgotPassword answers the same way whether or not the email is known.
func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.forgotPassword")
		return
	}

	if err := h.services.AuthService.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err, "*Handler.forgotPassword")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{
		Message: app.MsgResetRequested,
	}, http.StatusOK)
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "*Handler.resetPassword")
		return
	}

	if err := h.services.AuthService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		writeError(w, r, err, "*Handler.resetPassword")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgPasswordReset}, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.logout")
		return
	}

	if err = h.services.AuthService.Logout(r.Context(), identity); err != nil {
		writeError(w, r, err, "*Handler.logout")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgLoggedOut}, http.StatusOK)
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	identity, err := identityFromRequest(r)
	if err != nil {
		writeError(w, r, err, "*Handler.resendVerification")
		return
	}

	if err = h.services.AuthService.ResendVerification(r.Context(), identity); err != nil {
		writeError(w, r, err, "*Handler.resendVerification")
		return
	}

	utils.WriteJSON(w, models.MessageResponse{Message: app.MsgVerificationSent}, http.StatusOK)
}
