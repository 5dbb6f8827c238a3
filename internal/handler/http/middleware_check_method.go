// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-task-keeper/internal/app"
	"github.com/MKhiriev/go-task-keeper/internal/utils"
)

// routeNotFound answers unknown routes with a JSON 404.
//
// It is registered both as the router's NotFound and MethodNotAllowed
// handler, so a known path requested with an unsupported method is
// indistinguishable from an unknown path. It must be registered before
// any sub-router is mounted: chi copies both handlers into sub-routers at
// mount time.
func routeNotFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, app.MsgRouteNotFound, http.StatusNotFound)
}
