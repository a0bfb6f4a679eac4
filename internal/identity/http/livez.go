package http

import (
	"net/http"
	"time"

	"github.com/dayplanr/identity/pkg/httpx"
	"github.com/dayplanr/identity/pkg/identitysdk"
)

// LivezHandler is the liveness probe; it answers 200 whenever the process is
// serving.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response := identitysdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		httpx.WriteJSON(w, http.StatusOK, response)
	}
}
