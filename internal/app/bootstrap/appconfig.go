// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries everything specific to the incubator hub: the Mongo
// connection, sessions, the analytics pipeline, the assistant provider,
// invitation mail and the bootstrap admin account.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: incubahub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Analytics
	AnalyticsTimestampPolicy string // "warn" or "exclude"
	AnalyticsChartConfig     string // optional YAML file with palette and radar multipliers

	// Assistant (chatbot) provider
	AssistantProvider string // openrouter | ollama | off
	AssistantBaseURL  string
	AssistantAPIKey   string
	AssistantModel    string
	AssistantTimeout  time.Duration
	AssistantPerUser  int // messages per user per minute

	// Invitations
	InvitationExpiry        time.Duration
	InvitationSweepInterval time.Duration

	// Email/SMTP configuration (blank host logs mail instead of sending it)
	MailSMTPHost string
	MailSMTPPort int
	MailSMTPUser string
	MailSMTPPass string
	MailFrom     string

	// Base URL for links in emails (invitation acceptance)
	BaseURL string // e.g., "https://hub.example.com" or "http://localhost:3000"

	// Admin bootstrap (created or promoted on startup when set)
	AdminLoginID  string
	AdminPassword string
}
