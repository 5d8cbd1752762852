package endpoints

import (
	"bytes"
	"embed"
	"net/http"

	"github.com/yuin/goldmark"

	"github.com/uemf/forms-api/pkg/server"
)

//go:embed docs/*.md
var docFiles embed.FS

// RegisterDocsEndpoints registers the rendered API documentation.
func RegisterDocsEndpoints(srv *server.Server) {
	srv.Router.HandleFunc("/docs", handleDoc(srv, "docs/api.md")).Methods("GET")
	srv.Router.HandleFunc("/docs/routes", handleDoc(srv, "docs/routes.md")).Methods("GET")
}

func handleDoc(srv *server.Server, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		src, err := docFiles.ReadFile(name)
		if err != nil {
			http.NotFound(w, r)
			return
		}

		var buf bytes.Buffer
		buf.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>UEMF Forms API</title></head><body>\n")
		if err := goldmark.Convert(src, &buf); err != nil {
			srv.Log.WithError(err).Error("Failed to render documentation")
			respondWithFailure(w, http.StatusInternalServerError, "Failed to render documentation")
			return
		}
		buf.WriteString("\n</body></html>\n")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	}
}
