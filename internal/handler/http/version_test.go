package http

import (
	"net/http"
	"testing"

	"github.com/MKhiriev/go-task-keeper/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestGetServerVersion(t *testing.T) {
	env := newTestEnv(t)
	env.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return("1.4.0")
	env.appInfo.EXPECT().GetBuildInfo(gomock.Any()).Return(models.NewAppBuildInfo("1.4.0", "2026-10-01", ""))

	rr := env.do(http.MethodGet, "/api/version", "", false)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, models.VersionResponse{
		Version: "1.4.0",
		Date:    "2026-10-01",
		Commit:  "N/A",
	}, decodeBody[models.VersionResponse](t, rr))
}
