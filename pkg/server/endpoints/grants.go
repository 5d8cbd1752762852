package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/uemf/forms-api/pkg/grant"
	"github.com/uemf/forms-api/pkg/grant/store"
	"github.com/uemf/forms-api/pkg/server"
)

// grantRequestType tags grant requests in the app_email recipient table.
const grantRequestType = "1"

// RegisterGrantEndpoints registers the grant request routes.
func RegisterGrantEndpoints(srv *server.Server) {
	sub := srv.Router.PathPrefix("/gr").Subrouter()
	sub.HandleFunc("/submit", handleSubmit(srv)).Methods("POST")
	sub.HandleFunc("/get/{id:[0-9]+}", handleGet(srv)).Methods("GET")
	sub.HandleFunc("/send/{id:[0-9]+}", handleSend(srv)).Methods("GET")
}

func handleSubmit(srv *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var m grant.Model
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			respondWithFailure(w, http.StatusBadRequest, "Malformed request body")
			return
		}

		result, err := srv.Grants.Save(&m)
		if err != nil {
			var validationErr *grant.ValidationError
			if errors.As(err, &validationErr) {
				respondWithJSON(w, http.StatusBadRequest, result)
				return
			}
			respondWithJSON(w, http.StatusInternalServerError, result)
			return
		}
		respondWithJSON(w, http.StatusOK, result)
	}
}

func handleGet(srv *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)

		m, err := srv.Grants.Fetch(id)
		if err != nil {
			if errors.Is(err, store.ErrDetailsNotFound) {
				respondWithFailure(w, http.StatusNotFound, "Request not found")
				return
			}
			respondWithFailure(w, http.StatusInternalServerError, "Failed to load request")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := srv.Renderer.RenderRequest(w, id, m); err != nil {
			srv.Log.WithError(err).Error("Failed to render request")
		}
	}
}

func handleSend(srv *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if id == 0 {
			respondWithFailure(w, http.StatusBadRequest, "Invalid request id")
			return
		}

		m, err := srv.Grants.Fetch(id)
		if err != nil {
			if errors.Is(err, store.ErrDetailsNotFound) {
				respondWithFailure(w, http.StatusNotFound, "Request not found")
				return
			}
			respondWithFailure(w, http.StatusInternalServerError, "Failed to load request")
			return
		}

		var doc bytes.Buffer
		if err := srv.Renderer.RenderRequest(&doc, id, m); err != nil {
			srv.Log.WithError(err).Error("Failed to render request")
			respondWithFailure(w, http.StatusInternalServerError, "Failed to render request")
			return
		}

		subject := "Grants Request: " + m.Proposal.ShortTitle
		if err := srv.Mailer.Send(grantRequestType, subject, doc.String()); err != nil {
			srv.Log.WithError(err).Error("Failed to send notification")
			respondWithFailure(w, http.StatusInternalServerError, "Failed to send notification")
			return
		}

		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"message": "Message sent",
		})
	}
}
