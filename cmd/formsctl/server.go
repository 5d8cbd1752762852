package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

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

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the forms API server",
	Long: `Run the forms API server

To run the server requires the environment variables DATABASE_URL and FORMS_JWT_SECRET.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Validate required environment variables first (fail fast)
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		secret, err := auth.SecretFromEnv()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
			os.Exit(1)
		}
		if host, _ := cmd.Flags().GetString("bind-address"); host != "" {
			cfg.BindAddress = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		// Run migrations unless --no-migrate is set
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
		}

		logger, err := logging.New(cfg.LogDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to open log:", err)
			os.Exit(1)
		}

		db, err := gorm.Open(
			postgres.New(
				postgres.Config{
					DSN:                  os.Getenv("DATABASE_URL"),
					PreferSimpleProtocol: true, // disables implicit prepared statement usage
				},
			),
			&gorm.Config{},
		)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		requesters := requester.NewRepository(db)
		grants := grant.NewService(
			gormstore.NewRequestsStore(db, requesters),
			gormstore.NewPeopleStore(db),
			gormstore.NewLinksStore(db),
			logger,
		)
		authService := auth.NewService(secret, cfg.TokenTTLDuration(), requesters, logger)

		smtpAddr := fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort)
		m := mailer.New(db, &mailer.SMTPSender{Addr: smtpAddr}, cfg.MailFrom, cfg.MailReplyTo, logger)

		renderer, err := render.New(cfg.TemplateDir, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to load templates:", err)
			os.Exit(1)
		}
		defer renderer.Close()

		s := server.NewServer(cfg, db, logger, grants, authService, requesters, m, renderer, logging.NewReader(cfg.LogDir))

		s.Router.Use(middleware.NewTokenAuthenticator(authService).Middleware)
		endpoints.RegisterAll(s)

		log.Printf("Running server at http://%s...\n", cfg.Addr())
		log.Fatal(s.Start())
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 0, "server listen port (overrides configuration)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (overrides configuration)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
