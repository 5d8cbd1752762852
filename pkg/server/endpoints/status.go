package endpoints

import (
	"net/http"

	"github.com/uemf/forms-api/pkg/server"
)

const apiVersion = "2.0.0"

// RegisterStatusEndpoints registers the unauthenticated status endpoint.
func RegisterStatusEndpoints(srv *server.Server) {
	srv.Router.HandleFunc("/", handleStatus).Methods("GET")
}

func handleStatus(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"name":    "UEMF Forms API",
		"version": apiVersion,
	})
}
