package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces session-token authentication.
//
// It reads the bearer token from the "Authorization" header, verifies it via
// [service.TokenService.Verify] and stores the resulting identity in the
// request context. The request-scoped logger is enriched with the caller's
// user id and role.
//
// Requests are rejected with 401 when the header is absent or malformed and
// when the token is expired, revoked or otherwise invalid. A failure to
// consult the revocation store yields 500.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, r, ErrEmptyAuthorizationHeader, "*Handler.auth")
			return
		}

		tokenString, err := utils.ParseBearerToken(authHeader)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidAuthorizationHeader, err), "*Handler.auth")
			return
		}

		ctx := r.Context()
		identity, err := h.services.TokenService.Verify(ctx, tokenString)
		if err != nil {
			log := logger.FromRequest(r)
			switch {
			case errors.Is(err, service.ErrTokenExpired):
				log.Warn().Err(err).Str("func", "*Handler.auth").Msg("token expired")
				utils.WriteError(w, service.ErrTokenExpired.Error(), http.StatusUnauthorized)
			case errors.Is(err, service.ErrTokenInvalid):
				log.Warn().Err(err).Str("func", "*Handler.auth").Msg("token rejected")
				utils.WriteError(w, service.ErrTokenInvalid.Error(), http.StatusUnauthorized)
			default:
				log.Error().Err(err).Str("func", "*Handler.auth").Msg("error occurred during token verification")
				utils.WriteError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
			return
		}

		log := logger.FromRequest(r).WithIdentity(identity.UserID, identity.Role.String())
		ctx = log.WithContext(utils.WithIdentity(ctx, identity))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
