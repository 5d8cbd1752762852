package endpoints

import (
	"github.com/uemf/forms-api/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterAuthEndpoints(srv)
	RegisterGrantEndpoints(srv)
	RegisterDocsEndpoints(srv)
	RegisterLogsEndpoints(srv)
}
