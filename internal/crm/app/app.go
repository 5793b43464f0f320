package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/telecrm/telecrm/internal/crm/http"
	"github.com/telecrm/telecrm/internal/crm/service"
	"github.com/telecrm/telecrm/internal/crm/store"
	"github.com/telecrm/telecrm/internal/crm/store/drivers/sqlite"
	"github.com/telecrm/telecrm/pkg/cryptox"
	"github.com/telecrm/telecrm/pkg/oauthx"
	"github.com/telecrm/telecrm/pkg/sessionx"
	"github.com/telecrm/telecrm/pkg/slogx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application encapsulates the CRM backend with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *sessionx.Codec

	authService        *service.AuthService
	inviteService      *service.InviteService
	userService        *service.UserService
	leadService        *service.LeadService
	callLogService     *service.CallLogService
	appointmentService *service.AppointmentService
	listService        *service.ListService
	campaignService    *service.CampaignService
	dashboardService   *service.DashboardService
	activityService    *service.ActivityService

	oauthProvider *oauthx.Provider // nil when OAuth is not configured

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "telecrm",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.SessionSecret == "" {
		return nil, errors.New("CRM_SESSION_SECRET is required")
	}
	app.codec = &sessionx.Codec{
		Secret: []byte(cfg.SessionSecret),
		Issuer: cfg.Issuer,
	}

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initOAuth(); err != nil {
		return nil, err
	}
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("telecrm starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully stops the HTTP server and closes the database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down telecrm...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("telecrm stopped")
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initOAuth() error {
	if app.cfg.OAuthClientID == "" {
		app.logger.Info("oauth not configured, local login only")
		return nil
	}

	provider, err := oauthx.NewProvider(oauthx.Config{
		ProviderName: app.cfg.OAuthProviderName,
		ClientID:     app.cfg.OAuthClientID,
		ClientSecret: app.cfg.OAuthClientSecret,
		AuthURL:      app.cfg.OAuthAuthURL,
		TokenURL:     app.cfg.OAuthTokenURL,
		UserInfoURL:  app.cfg.OAuthUserInfoURL,
		RedirectURL:  app.cfg.OAuthRedirectURL,
		Scopes:       app.cfg.OAuthScopes,
	})
	if err != nil {
		return fmt.Errorf("failed to configure oauth provider: %w", err)
	}
	app.oauthProvider = provider
	return nil
}

func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:       app.db,
		OwnerOpenID: app.cfg.OwnerOpenID,
	}
	app.inviteService = &service.InviteService{Store: app.db}
	app.userService = &service.UserService{Store: app.db}
	app.leadService = &service.LeadService{Store: app.db}
	app.callLogService = &service.CallLogService{Store: app.db}
	app.appointmentService = &service.AppointmentService{Store: app.db}
	app.listService = &service.ListService{Store: app.db}
	app.campaignService = &service.CampaignService{Store: app.db}
	app.dashboardService = &service.DashboardService{Store: app.db}
	app.activityService = &service.ActivityService{Store: app.db}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		app.cfg.CookieName,
		app.cfg.SessionTTL,
		BuildVersion,
		app.cfg.PublicDir,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.InviteService = app.inviteService
	router.UserService = app.userService
	router.LeadService = app.leadService
	router.CallLogService = app.callLogService
	router.AppointmentService = app.appointmentService
	router.ListService = app.listService
	router.CampaignService = app.campaignService
	router.DashboardService = app.dashboardService
	router.ActivityService = app.activityService
	router.OAuthProvider = app.oauthProvider
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
