// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"
	"time"

	chatfeature "github.com/dalemusser/incubahub/internal/app/features/chat"
	dashboardfeature "github.com/dalemusser/incubahub/internal/app/features/dashboard"
	_ "github.com/dalemusser/incubahub/internal/app/features/dashboard/views"
	errorsfeature "github.com/dalemusser/incubahub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/incubahub/internal/app/features/health"
	homefeature "github.com/dalemusser/incubahub/internal/app/features/home"
	invitationsfeature "github.com/dalemusser/incubahub/internal/app/features/invitations"
	loginfeature "github.com/dalemusser/incubahub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/incubahub/internal/app/features/logout"
	mentorsfeature "github.com/dalemusser/incubahub/internal/app/features/mentors"
	_ "github.com/dalemusser/incubahub/internal/app/features/shared/views"
	"github.com/dalemusser/incubahub/internal/app/system/analytics"
	"github.com/dalemusser/incubahub/internal/app/system/assistant"
	"github.com/dalemusser/incubahub/internal/app/system/auth"
	"github.com/dalemusser/incubahub/internal/app/system/mailer"
	"github.com/dalemusser/incubahub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It boots the template engine, applies
// session middleware, and mounts the feature routers: health, login/logout,
// the analytics dashboard, invitations, mentors and the assistant.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	// Both were checked in ValidateConfig.
	policy, err := analytics.ParsePolicy(appCfg.AnalyticsTimestampPolicy)
	if err != nil {
		return nil, err
	}
	charts, err := analytics.LoadChartConfig(appCfg.AnalyticsChartConfig)
	if err != nil {
		return nil, err
	}

	var completer assistant.Completer
	client, err := assistant.New(assistantConfig(appCfg))
	switch {
	case errors.Is(err, assistant.ErrDisabled):
		logger.Info("assistant disabled")
	case err != nil:
		return nil, err
	default:
		completer = client
		logger.Info("assistant enabled", zap.String("provider", client.Provider()))
	}

	mail := mailer.New(mailer.Config{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     appCfg.MailFrom,
	}, logger)

	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	homeHandler := homefeature.NewHandler(logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(deps.MongoDatabase, sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Analytics dashboard, API and exports
	dashboardHandler := dashboardfeature.NewHandler(deps.MongoDatabase, charts, policy, errLog, logger)
	r.Mount("/analytics", dashboardfeature.Routes(dashboardHandler, sessionMgr))

	invitationsHandler := invitationsfeature.NewHandler(deps.MongoDatabase, appCfg.InvitationExpiry, mail, appCfg.BaseURL, errLog, logger)
	r.Mount("/invitations", invitationsfeature.Routes(invitationsHandler, sessionMgr))

	mentorsHandler := mentorsfeature.NewHandler(deps.MongoDatabase, errLog, logger)
	r.Mount("/mentors", mentorsfeature.Routes(mentorsHandler, sessionMgr))

	perUser := appCfg.AssistantPerUser
	if perUser <= 0 {
		perUser = 20
	}
	chatHandler := chatfeature.NewHandler(deps.MongoDatabase, completer, policy, ratelimit.New(perUser, time.Minute), errLog, logger)
	r.Mount("/assistant", chatfeature.Routes(chatHandler, sessionMgr))

	return r, nil
}
