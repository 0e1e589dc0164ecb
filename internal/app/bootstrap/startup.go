// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	invitationstore "github.com/dalemusser/incubahub/internal/app/store/invitations"
	userstore "github.com/dalemusser/incubahub/internal/app/store/users"
	"github.com/dalemusser/incubahub/internal/app/system/timeouts"
	"github.com/dalemusser/incubahub/internal/app/system/workers"
	"github.com/dalemusser/incubahub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// invitationSweep is started in Startup and stopped in Shutdown.
var invitationSweep *workers.InvitationSweep

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}

	if appCfg.AdminLoginID != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminLoginID, appCfg.AdminPassword, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}

	invitationSweep = workers.NewInvitationSweep(
		invitationstore.New(deps.MongoDatabase, appCfg.InvitationExpiry),
		logger,
		appCfg.InvitationSweepInterval,
		timeouts.Medium(),
	)
	invitationSweep.Start()
	return nil
}

// ensureAdmin makes sure loginID exists and holds the admin role. A missing
// account is created when a password is available; an existing one is
// promoted in place.
func ensureAdmin(ctx context.Context, deps DBDeps, loginID, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	u, err := users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		if password == "" {
			logger.Warn("admin account missing and no admin_password configured",
				zap.String("login_id", loginID))
			return nil
		}
		created, err := users.Create(ctx, models.User{
			FullName: "Administrateur",
			LoginID:  loginID,
			Role:     models.RoleAdmin,
		}, password)
		if err != nil {
			return err
		}
		logger.Info("created admin account",
			zap.String("login_id", created.LoginID),
			zap.String("user_id", created.ID.Hex()))
		return nil
	case err != nil:
		return err
	}

	if u.Role == models.RoleAdmin {
		return nil
	}
	if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
		return err
	}
	logger.Info("promoted account to admin",
		zap.String("login_id", u.LoginID),
		zap.String("previous_role", u.Role))
	return nil
}
