// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/app/system/assistant"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for incubahub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: INCUBAHUB_MONGO_URI, INCUBAHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "incubahub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "incubahub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie lifetime"},

	// Analytics
	{Name: "analytics_timestamp_policy", Default: string(analytics.DefaultPolicy), Desc: "Rows with unreadable dates: 'warn' (report them) or 'exclude' (drop silently)"},
	{Name: "analytics_chart_config", Default: "", Desc: "Path to a YAML file overriding chart palette and radar multipliers"},

	// Assistant
	{Name: "assistant_provider", Default: assistant.ProviderOff, Desc: "Assistant provider: 'openrouter', 'ollama' or 'off'"},
	{Name: "assistant_base_url", Default: "", Desc: "Provider base URL (blank uses the provider default)"},
	{Name: "assistant_api_key", Default: "", Desc: "Provider API key (OpenRouter)"},
	{Name: "assistant_model", Default: "", Desc: "Model name sent to the provider"},
	{Name: "assistant_timeout", Default: "60s", Desc: "HTTP timeout for one provider call"},
	{Name: "assistant_per_user", Default: 20, Desc: "Assistant messages allowed per user per minute"},

	// Invitations
	{Name: "invitation_expiry", Default: "168h", Desc: "How long an invitation link stays valid"},
	{Name: "invitation_sweep_interval", Default: "15m", Desc: "How often overdue invitations are marked expired"},

	// Email/SMTP
	{Name: "mail_smtp_host", Default: "", Desc: "SMTP server host (blank logs mail instead of sending)"},
	{Name: "mail_smtp_port", Default: 587, Desc: "SMTP server port"},
	{Name: "mail_smtp_user", Default: "", Desc: "SMTP username"},
	{Name: "mail_smtp_pass", Default: "", Desc: "SMTP password"},
	{Name: "mail_from", Default: "noreply@incubahub.local", Desc: "From email address"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Base URL for links in emails"},

	// Admin bootstrap
	{Name: "admin_login_id", Default: "", Desc: "Login of the admin account to create or promote on startup"},
	{Name: "admin_password", Default: "", Desc: "Password for a newly created admin account"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, INCUBAHUB_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "INCUBAHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 24*time.Hour),

		AnalyticsTimestampPolicy: appValues.String("analytics_timestamp_policy"),
		AnalyticsChartConfig:     appValues.String("analytics_chart_config"),

		AssistantProvider: strings.ToLower(strings.TrimSpace(appValues.String("assistant_provider"))),
		AssistantBaseURL:  appValues.String("assistant_base_url"),
		AssistantAPIKey:   appValues.String("assistant_api_key"),
		AssistantModel:    appValues.String("assistant_model"),
		AssistantTimeout:  appValues.Duration("assistant_timeout", 60*time.Second),
		AssistantPerUser:  appValues.Int("assistant_per_user"),

		InvitationExpiry:        appValues.Duration("invitation_expiry", 7*24*time.Hour),
		InvitationSweepInterval: appValues.Duration("invitation_sweep_interval", 15*time.Minute),

		MailSMTPHost: appValues.String("mail_smtp_host"),
		MailSMTPPort: appValues.Int("mail_smtp_port"),
		MailSMTPUser: appValues.String("mail_smtp_user"),
		MailSMTPPass: appValues.String("mail_smtp_pass"),
		MailFrom:     appValues.String("mail_from"),

		BaseURL: appValues.String("base_url"),

		AdminLoginID:  appValues.String("admin_login_id"),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Bad values abort startup here rather than surfacing on the first request:
// the Mongo URI, the timestamp policy, the chart file and the assistant
// provider settings are all checked.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if _, err := analytics.ParsePolicy(appCfg.AnalyticsTimestampPolicy); err != nil {
		return fmt.Errorf("analytics_timestamp_policy: %w", err)
	}
	if _, err := analytics.LoadChartConfig(appCfg.AnalyticsChartConfig); err != nil {
		return fmt.Errorf("analytics_chart_config: %w", err)
	}

	if _, err := assistant.New(assistantConfig(appCfg)); err != nil && !errors.Is(err, assistant.ErrDisabled) {
		return fmt.Errorf("assistant: %w", err)
	}

	if appCfg.InvitationExpiry <= 0 {
		return fmt.Errorf("invitation_expiry must be positive")
	}
	if appCfg.AdminLoginID != "" && appCfg.AdminPassword == "" {
		logger.Warn("admin_login_id is set without admin_password; an existing account can be promoted but none will be created")
	}

	return nil
}

func assistantConfig(appCfg AppConfig) assistant.Config {
	return assistant.Config{
		Provider: appCfg.AssistantProvider,
		BaseURL:  appCfg.AssistantBaseURL,
		APIKey:   appCfg.AssistantAPIKey,
		Model:    appCfg.AssistantModel,
		Timeout:  appCfg.AssistantTimeout,
		Referer:  appCfg.BaseURL,
	}
}
