// Package main provides formsctl, the CLI for the UEMF forms API.
//
// The forms API is the HTTP backend for the UEMF internal request
// forms, starting with the grants request form. It persists submitted
// form documents across normalized tables, issues short-lived bearer
// tokens to requesters, renders stored requests back as HTML and mails
// them to configured recipients.
//
// # Architecture
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/middleware: bearer token authentication
//   - pkg/grant: grants request save and fetch semantics
//   - pkg/grant/store: persistence interfaces and person matching
//   - pkg/grant/store/gorm: PostgreSQL-backed stores
//   - pkg/requester: requester directory and token storage
//   - pkg/auth: JWT issuing and validation
//   - pkg/mailer: notification mail
//   - pkg/render: HTML rendering of stored requests
//   - pkg/logging: structured per-day logs and the warnings reader
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	formsctl db migrate
//
//	# Start the server
//	formsctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - FORMS_JWT_SECRET: Base64-encoded HMAC key for bearer tokens
//   - FORMS_CONFIG_PATH: Directory holding forms.yml (default /etc/forms)
//   - FORMS_PORT, FORMS_BIND_ADDRESS, FORMS_LOG_DIR, ...: per-setting
//     overrides, see formsctl configuration
package main
