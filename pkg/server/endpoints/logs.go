package endpoints

import (
	"net/http"

	"github.com/uemf/forms-api/pkg/server"
)

// RegisterLogsEndpoints registers the warning readback endpoint. Clients
// poll it after a submit to show the soft warnings the save produced.
func RegisterLogsEndpoints(srv *server.Server) {
	srv.Router.HandleFunc("/logs/warnings", handleWarnings(srv)).Methods("GET")
}

func handleWarnings(srv *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		warnings, err := srv.LogReader.Warnings()
		if err != nil {
			srv.Log.WithError(err).Error("Failed to read log warnings")
			respondWithFailure(w, http.StatusInternalServerError, "Failed to read warnings")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success":  true,
			"warnings": warnings,
		})
	}
}
