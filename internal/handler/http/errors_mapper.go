package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/internal/validators"
)

// errorStatusMap is the error→status table. Every key is distinct from the
// others, so at most one matches a given error chain.
var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrDuplicateIdentity:   http.StatusConflict,
	service.ErrInvalidCredentials:  http.StatusUnauthorized,
	service.ErrTokenInvalid:        http.StatusUnauthorized,
	service.ErrTokenCreationFailed: http.StatusInternalServerError,

	// Action tokens arrive in request bodies: a bad one is a bad request.
	service.ErrTokenExpired:     http.StatusBadRequest,
	service.ErrTokenNotFound:    http.StatusBadRequest,
	service.ErrTokenAlreadyUsed: http.StatusConflict,

	service.ErrForbidden:       http.StatusForbidden,
	service.ErrNotFound:        http.StatusNotFound,
	service.ErrAlreadyVerified: http.StatusConflict,

	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrInvalidJSON:                http.StatusBadRequest,
	ErrInvalidPathParam:           http.StatusBadRequest,
	ErrNoIdentity:                 http.StatusUnauthorized,
}

func statusFromError(err error) int {
	status, _ := errorResponse(err)
	return status
}

// errorResponse picks the status code and client-facing message for err.
// Validation failures keep their field messages; mapped errors expose only
// the sentinel text; anything else becomes an opaque 500.
func errorResponse(err error) (int, string) {
	if errors.Is(err, validators.ErrInvalidRequest) {
		return http.StatusBadRequest, err.Error()
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status, target.Error()
		}
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

// writeError logs err and writes the mapped JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, err error, funcName string) {
	status, message := errorResponse(err)

	log := logger.FromRequest(r)
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).Str("func", funcName).Int("status", status).Msg("request failed")

	utils.WriteError(w, message, status)
}
