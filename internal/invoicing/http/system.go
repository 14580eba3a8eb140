package http

import (
	"net/http"
	"time"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
	"github.com/sendinvoices/sendinvoices/pkg/httpx"
	"github.com/sendinvoices/sendinvoices/pkg/invoicesdk"
)

// StatusHandler godoc
//
//	@Summary		Liveness check
//	@Description	Returns service status, uptime, and version. Always 200 while the process is up.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	invoicesdk.StatusResponse	"status, uptime, version"
//	@Router			/status [get].
func StatusHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, invoicesdk.StatusResponse{
			Status:  "online",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness check
//	@Description	Verifies the datastore answers a ping before reporting ready.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	invoicesdk.StatusResponse
//	@Failure		503	{object}	invoicesdk.StatusResponse
//	@Router			/readyz [get].
func ReadyzHandler(st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := st.Ping(r.Context()); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, invoicesdk.StatusResponse{Status: "degraded"})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, invoicesdk.StatusResponse{Status: "online"})
	}
}
