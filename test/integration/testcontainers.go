package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
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
	"github.com/uemf/forms-api/pkg/server/endpoints"
	"github.com/uemf/forms-api/pkg/server/middleware"
)

var jwtSecret = []byte("integration-test-secret-32-bytes")

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB         *gorm.DB
	RawDB      *sql.DB
	Container  testcontainers.Container
	ServerURL  string
	LogDir     string
	Server     *server.Server
	HTTPClient *http.Client
}

// NewTestContext starts a PostgreSQL testcontainer, runs the schema
// migrations against it and boots the API server in-process.
func NewTestContext(ctx context.Context) (*TestContext, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}
	migrationsDir := filepath.Join(projectRoot, "db", "migrations")

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("forms_test"),
		tcpostgres.WithUsername("forms"),
		tcpostgres.WithPassword("forms"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	connStr := fmt.Sprintf("postgres://forms:forms@%s:%s/forms_test?sslmode=disable", host, port.Port())

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rawDB, err := db.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	if err := runMigrations(rawDB, migrationsDir); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logDir, err := os.MkdirTemp("", "forms-integration-logs")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	serverPort := 18080
	serverURL := fmt.Sprintf("http://127.0.0.1:%d", serverPort)

	s, err := startInlineServer(db, logDir, serverPort)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start inline server: %w", err)
	}

	if err := waitForServer(serverURL, 30*time.Second); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return &TestContext{
		DB:         db,
		RawDB:      rawDB,
		Container:  pgContainer,
		ServerURL:  serverURL,
		LogDir:     logDir,
		Server:     s,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// startInlineServer wires the full service in-process, the same way the
// server command does.
func startInlineServer(db *gorm.DB, logDir string, port int) (*server.Server, error) {
	logr, err := logging.New(logDir)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		BindAddress: "127.0.0.1",
		Port:        port,
		TokenTTL:    610,
		LogDir:      logDir,
		MailFrom:    "UEMF Forms <Forms@uemf.org>",
		MailReplyTo: "UEMF-IT Support <support@uemf.org>",
	}

	requesters := requester.NewRepository(db)
	grants := grant.NewService(
		gormstore.NewRequestsStore(db, requesters),
		gormstore.NewPeopleStore(db),
		gormstore.NewLinksStore(db),
		logr,
	)
	authService := auth.NewService(jwtSecret, cfg.TokenTTLDuration(), requesters, logr)
	m := mailer.New(db, &mailer.SMTPSender{Addr: "127.0.0.1:2525"}, cfg.MailFrom, cfg.MailReplyTo, logr)

	renderer, err := render.New("", logr)
	if err != nil {
		return nil, err
	}

	s := server.NewServer(cfg, db, logr, grants, authService, requesters, m, renderer, logging.NewReader(logDir))
	s.Router.Use(middleware.NewTokenAuthenticator(authService).Middleware)
	endpoints.RegisterAll(s)

	go func() {
		_ = s.Start()
	}()

	return s, nil
}

// waitForServer polls the server until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
	if tc.LogDir != "" {
		_ = os.RemoveAll(tc.LogDir)
	}
}

// findProjectRoot locates the project root directory
func findProjectRoot() (string, error) {
	paths := []string{
		"../..",
		"..",
		".",
	}

	for _, p := range paths {
		goMod := filepath.Join(p, "go.mod")
		if _, err := os.Stat(goMod); err == nil {
			return filepath.Abs(p)
		}
	}

	return "", fmt.Errorf("project root not found (looking for go.mod)")
}

// runMigrations executes SQL migration files
func runMigrations(db *sql.DB, migrationsDir string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.up.sql"))
	if err != nil {
		return err
	}

	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			log.Printf("Migration %s: %v (may be expected)", filepath.Base(file), err)
		}
	}

	return nil
}
