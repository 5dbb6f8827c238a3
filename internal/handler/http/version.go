package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/utils"
	"github.com/MKhiriev/go-task-keeper/models"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	appInfo := h.services.AppInfoService
	buildInfo := appInfo.GetBuildInfo(r.Context())

	utils.WriteJSON(w, models.VersionResponse{
		Version: appInfo.GetAppVersion(r.Context()),
		Date:    buildInfo.BuildDate(),
		Commit:  buildInfo.BuildCommit(),
	}, http.StatusOK)
}
