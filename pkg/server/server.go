package server

import (
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/uemf/forms-api/pkg/auth"
	"github.com/uemf/forms-api/pkg/config"
	"github.com/uemf/forms-api/pkg/grant"
	"github.com/uemf/forms-api/pkg/logging"
	"github.com/uemf/forms-api/pkg/mailer"
	"github.com/uemf/forms-api/pkg/render"
	"github.com/uemf/forms-api/pkg/requester"
)

type Server struct {
	Router     *mux.Router
	DB         *gorm.DB
	Config     *config.Config
	Log        *logrus.Logger
	Grants     *grant.Service
	Auth       *auth.Service
	Requesters *requester.Repository
	Mailer     *mailer.Mailer
	Renderer   *render.Renderer
	LogReader  *logging.Reader
	srv        *http.Server
}

func NewServer(
	cfg *config.Config,
	db *gorm.DB,
	log *logrus.Logger,
	grants *grant.Service,
	authService *auth.Service,
	requesters *requester.Repository,
	m *mailer.Mailer,
	renderer *render.Renderer,
	logReader *logging.Reader,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    cfg.Addr(),
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:     router,
		DB:         db,
		Config:     cfg,
		Log:        log,
		Grants:     grants,
		Auth:       authService,
		Requesters: requesters,
		Mailer:     m,
		Renderer:   renderer,
		LogReader:  logReader,
		srv:        srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}
