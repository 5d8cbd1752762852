package endpoints

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/uemf/forms-api/pkg/server"
)

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	JWT     string `json:"jwt"`
}

// RegisterAuthEndpoints registers /register and the authenticated
// no-op probe /authenticate.
func RegisterAuthEndpoints(srv *server.Server) {
	srv.Router.HandleFunc("/register", handleRegister(srv)).Methods("POST")
	srv.Router.HandleFunc("/authenticate", handleAuthenticate).Methods("POST")
}

func handleRegister(srv *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithFailure(w, http.StatusBadRequest, "Malformed request body")
			return
		}
		if req.Name == "" || req.Email == "" {
			respondWithFailure(w, http.StatusBadRequest, "Name and email are required")
			return
		}

		token, err := srv.Auth.Register(req.Name, req.Email, clientIP(r))
		if err != nil {
			srv.Log.WithError(err).Error("Failed to register requester")
			respondWithFailure(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}

		respondWithJSON(w, http.StatusOK, registerResponse{Success: true, JWT: token})
	}
}

// handleAuthenticate only ever runs behind the auth middleware, so
// reaching it means the token checked out.
func handleAuthenticate(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Authenticated",
	})
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
