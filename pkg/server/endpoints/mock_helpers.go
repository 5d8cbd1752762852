package endpoints

import (
	"database/sql"
	"io"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/uemf/forms-api/pkg/auth"
	"github.com/uemf/forms-api/pkg/config"
	"github.com/uemf/forms-api/pkg/grant"
	gormstore "github.com/uemf/forms-api/pkg/grant/store/gorm"
	"github.com/uemf/forms-api/pkg/logging"
	"github.com/uemf/forms-api/pkg/mailer"
	"github.com/uemf/forms-api/pkg/render"
	"github.com/uemf/forms-api/pkg/requester"
	"github.com/uemf/forms-api/pkg/server"
)

// NewMockTestServer creates a server instance with a mocked database for
// unit testing. Returns the server, sqlmock instance, and any error.
func NewMockTestServer(jwtSecret []byte) (*server.Server, sqlmock.Sqlmock, error) {
	mock, err := NewMockDB()
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	log.SetOutput(io.Discard)

	cfg := &config.Config{
		BindAddress: "127.0.0.1",
		Port:        0,
		TokenTTL:    610,
	}

	requesters := requester.NewRepository(mock.GormDB)
	grants := grant.NewService(
		gormstore.NewRequestsStore(mock.GormDB, requesters),
		gormstore.NewPeopleStore(mock.GormDB),
		gormstore.NewLinksStore(mock.GormDB),
		log,
	)
	authService := auth.NewService(jwtSecret, 610*time.Second, requesters, log)
	m := mailer.New(mock.GormDB, &mailer.SMTPSender{Addr: "localhost:25"}, cfg.MailFrom, cfg.MailReplyTo, log)

	renderer, err := render.New("", log)
	if err != nil {
		mock.Close()
		return nil, nil, err
	}

	s := server.NewServer(cfg, mock.GormDB, log, grants, authService, requesters, m, renderer, logging.NewReader(""))
	return s, mock.Mock, nil
}

// MockDB wraps sqlmock for easier test setup
type MockDB struct {
	DB     *sql.DB
	Mock   sqlmock.Sqlmock
	GormDB *gorm.DB
}

// NewMockDB creates a new mock database connection
func NewMockDB() (*MockDB, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 db,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &MockDB{
		DB:     db,
		Mock:   mock,
		GormDB: gormDB,
	}, nil
}

// Close closes the mock database
func (m *MockDB) Close() error {
	return m.DB.Close()
}

// ExpectRequesterByEmail sets up expectation for a requester lookup by email
func (m *MockDB) ExpectRequesterByEmail(id int64, name, email string) {
	rows := sqlmock.NewRows([]string{"requester_id", "name", "email_address", "ip_address", "token"}).
		AddRow(id, name, email, "", "")
	m.Mock.ExpectQuery(`SELECT .* FROM "requester"`).
		WillReturnRows(rows)
}

// ExpectRequesterNotFound sets up expectation for a missing requester
func (m *MockDB) ExpectRequesterNotFound() {
	m.Mock.ExpectQuery(`SELECT .* FROM "requester"`).
		WillReturnRows(sqlmock.NewRows([]string{"requester_id"}))
}

// ExpectRequesterInsert sets up expectation for a requester insert
func (m *MockDB) ExpectRequesterInsert(id int64) {
	rows := sqlmock.NewRows([]string{"requester_id"}).AddRow(id)
	m.Mock.ExpectQuery(`INSERT INTO "requester"`).
		WillReturnRows(rows)
}

// ExpectTokenSave sets up expectation for the token column update
func (m *MockDB) ExpectTokenSave() {
	m.Mock.ExpectExec(`UPDATE "requester" SET "token"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

// ExpectDetailsNotFound sets up expectation for a missing gr_details row
func (m *MockDB) ExpectDetailsNotFound() {
	m.Mock.ExpectQuery(`SELECT .* FROM "gr_details"`).
		WillReturnRows(sqlmock.NewRows([]string{"request_id"}))
}

// ExpectRecipientsQuery sets up expectation for the app_email recipient lookup
func (m *MockDB) ExpectRecipientsQuery(addresses ...string) {
	rows := sqlmock.NewRows([]string{"id", "request_type", "email_address", "is_active"})
	for i, addr := range addresses {
		rows.AddRow(int64(i+1), "1", addr, "1")
	}
	m.Mock.ExpectQuery(`SELECT .* FROM "app_email"`).
		WillReturnRows(rows)
}

// ExpectBeginCommit sets up expectation for transaction begin and commit
func (m *MockDB) ExpectBeginCommit() {
	m.Mock.ExpectBegin()
	m.Mock.ExpectCommit()
}

// ExpectBeginRollback sets up expectation for transaction begin and rollback
func (m *MockDB) ExpectBeginRollback() {
	m.Mock.ExpectBegin()
	m.Mock.ExpectRollback()
}

// VerifyExpectations checks that all expectations were met
func (m *MockDB) VerifyExpectations() error {
	return m.Mock.ExpectationsWereMet()
}
