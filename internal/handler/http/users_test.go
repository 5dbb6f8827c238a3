package http

import (
	"net/http"
	"testing"

	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)
	env.as(userIdentity)
	env.users.EXPECT().Profile(gomock.Any(), userIdentity).
		Return(models.User{UserID: 1, Username: "alice", Email: "alice@example.com", Role: models.RoleUser}, nil)

	rr := env.do(http.MethodGet, "/api/users/profile", "", true)

	assert.Equal(t, http.StatusOK, rr.Code)
	user := decodeBody[models.User](t, rr)
	assert.Equal(t, int64(1), user.UserID)
	assert.Equal(t, "alice", user.Username)
}

func TestUpdateProfile(t *testing.T) {
	t.Run("username only", func(t *testing.T) {
		env := newTestEnv(t)
		env.as(userIdentity)
		env.users.EXPECT().
			UpdateProfile(gomock.Any(), userIdentity, gomock.Any(), gomock.Nil()).
			DoAndReturn(func(_ any, _ models.Identity, username, _ *string) (models.User, error) {
				return models.User{UserID: 1, Username: *username}, nil
			})

		rr := env.do(http.MethodPut, "/api/users/profile", `{"username":"alice2"}`, true)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "alice2", decodeBody[models.User](t, rr).Username)
	})

	t.Run("empty body", func(t *testing.T) {
		env := newTestEnv(t)
		env.as(userIdentity)

		rr := env.do(http.MethodPut, "/api/users/profile", `{}`, true)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("email taken", func(t *testing.T) {
		env := newTestEnv(t)
		env.as(userIdentity)
		env.users.EXPECT().UpdateProfile(gomock.Any(), userIdentity, gomock.Any(), gomock.Any()).
			Return(models.User{}, service.ErrDuplicateIdentity)

		rr := env.do(http.MethodPut, "/api/users/profile", `{"email":"bob@example.com"}`, true)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestListUsers(t *testing.T) {
	t.Run("moderator", func(t *testing.T) {
		env := newTestEnv(t)
		env.as(moderatorIdentity)
		env.users.EXPECT().List(gomock.Any(), moderatorIdentity).
			Return([]models.User{{UserID: 1}, {UserID: 5}}, nil)

		rr := env.do(http.MethodGet, "/api/users", "", true)

		assert.Equal(t, http.StatusOK, rr.Code)
		resp := decodeBody[models.UserListResponse](t, rr)
		assert.Equal(t, 2, resp.Count)
		assert.Len(t, resp.Users, 2)
	})

	t.Run("user is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		env.as(userIdentity)
		env.users.EXPECT().List(gomock.Any(), userIdentity).Return(nil, service.ErrForbidden)

		rr := env.do(http.MethodGet, "/api/users", "", true)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, service.ErrForbidden.Error(), messageOf(t, rr))
	})
}

func TestChangeRole(t *testing.T) {
	tests := []struct {
		name       string
		identity   models.Identity
		path       string
		body       string
		setup      func(env *testEnv)
		wantStatus int
	}{
		{
			name:     "admin promotes",
			identity: adminIdentity,
			path:     "/api/users/2/role",
			body:     `{"role":"moderator"}`,
			setup: func(env *testEnv) {
				env.users.EXPECT().ChangeRole(gomock.Any(), adminIdentity, int64(2), models.RoleModerator).
					Return(models.User{UserID: 2, Role: models.RoleModerator}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:     "moderator is forbidden",
			identity: moderatorIdentity,
			path:     "/api/users/2/role",
			body:     `{"role":"admin"}`,
			setup: func(env *testEnv) {
				env.users.EXPECT().ChangeRole(gomock.Any(), moderatorIdentity, int64(2), models.RoleAdmin).
					Return(models.User{}, service.ErrForbidden)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown role",
			identity:   adminIdentity,
			path:       "/api/users/2/role",
			body:       `{"role":"superuser"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non-numeric id",
			identity:   adminIdentity,
			path:       "/api/users/abc/role",
			body:       `{"role":"user"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:     "missing user",
			identity: adminIdentity,
			path:     "/api/users/42/role",
			body:     `{"role":"user"}`,
			setup: func(env *testEnv) {
				env.users.EXPECT().ChangeRole(gomock.Any(), adminIdentity, int64(42), models.RoleUser).
					Return(models.User{}, service.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.as(tt.identity)
			if tt.setup != nil {
				tt.setup(env)
			}

			rr := env.do(http.MethodPut, tt.path, tt.body, true)

			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestDeleteUser(t *testing.T) {
	t.Run("admin deletes", func(t *testing.T) {
		env := newTestEnv(t)
		env.as(adminIdentity)
		env.users.EXPECT().Delete(gomock.Any(), adminIdentity, int64(2)).Return(nil)

		rr := env.do(http.MethodDelete, "/api/users/2", "", true)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user deleted", messageOf(t, rr))
	})

	t.Run("user is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		env.as(userIdentity)
		env.users.EXPECT().Delete(gomock.Any(), userIdentity, int64(2)).Return(service.ErrForbidden)

		rr := env.do(http.MethodDelete, "/api/users/2", "", true)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}
