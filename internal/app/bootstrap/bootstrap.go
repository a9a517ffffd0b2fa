package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	agendaservice "rutanagenda/contexts/agenda-scheduling/agenda-service"
	agendapostgres "rutanagenda/contexts/agenda-scheduling/agenda-service/adapters/postgres"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/adapters/storage"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/adapters/whatsapp"
	agendaports "rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
	userservice "rutanagenda/contexts/identity-access/user-service"
	userpostgres "rutanagenda/contexts/identity-access/user-service/adapters/postgres"
	"rutanagenda/contexts/identity-access/user-service/application/commands"
	"rutanagenda/internal/app/directory"
	"rutanagenda/internal/platform/config"
	"rutanagenda/internal/platform/db"
	"rutanagenda/internal/platform/httpserver"
	"rutanagenda/internal/platform/session"

	"golang.org/x/sync/errgroup"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const shutdownTimeout = 10 * time.Second

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

// AdminApp backs the admin CLI: schema, seed and account maintenance
// without the HTTP stack.
type AdminApp struct {
	Config   config.Config
	Users    userservice.Module
	postgres *db.Postgres
	logger   *slog.Logger
}

// NewLogger builds the process logger from LOG_FORMAT and LOG_LEVEL.
func NewLogger(cfg config.Config, process string) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", cfg.ServiceName, "process", process)
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireServer(); err != nil {
		return nil, err
	}

	logger := NewLogger(cfg, "api")
	slog.SetDefault(logger)

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	if cfg.AutoMigrate {
		if err := migrate(pg); err != nil {
			_ = pg.Close()
			return nil, err
		}
	}

	userRepo := userpostgres.NewRepository(pg.DB, logger)
	users := userservice.NewModule(userservice.Dependencies{
		Repository:  userRepo,
		Clock:       userpostgres.SystemClock{},
		IDGenerator: userpostgres.UUIDGenerator{},
		Logger:      logger,
	})
	if err := seedAdmin(context.Background(), cfg, users, logger); err != nil {
		_ = pg.Close()
		return nil, err
	}

	attachments, err := storage.NewLocal(cfg.UploadDir, cfg.PublicBaseURL+storage.DefaultURLPrefix)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	agendas := agendaservice.NewModule(agendaservice.Dependencies{
		Repository:  agendapostgres.NewRepository(pg.DB, logger),
		Directory:   directory.New(userRepo),
		Notifier:    newNotifier(cfg, logger),
		Storage:     attachments,
		Clock:       agendapostgres.SystemClock{},
		IDGenerator: agendapostgres.UUIDGenerator{},
		Location:    cfg.NotifyTimezone,
		Logger:      logger,
	})

	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.CookieSecure)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	server, err := httpserver.New(users, agendas, httpserver.Options{
		Addr:         normalizeAddr(cfg.HTTPPort),
		Sessions:     sessions,
		CSRFKey:      cfg.CSRFKey,
		CookieSecure: cfg.CookieSecure,
		UploadDir:    cfg.UploadDir,
		Ready:        pg.Ping,
	}, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

// BuildAdmin connects to the database only; no session secret is needed.
func BuildAdmin() (*AdminApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	logger := NewLogger(cfg, "admin")
	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}
	users := userservice.NewModule(userservice.Dependencies{
		Repository:  userpostgres.NewRepository(pg.DB, logger),
		Clock:       userpostgres.SystemClock{},
		IDGenerator: userpostgres.UUIDGenerator{},
		Logger:      logger,
	})
	return &AdminApp{
		Config:   cfg,
		Users:    users,
		postgres: pg,
		logger:   logger,
	}, nil
}

func (a *AdminApp) Migrate() error {
	if err := migrate(a.postgres); err != nil {
		return err
	}
	a.logger.Info("schema migrated",
		"event", "bootstrap_schema_migrated",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	return nil
}

// Seed creates the first facility head from SEED_ADMIN_* unless one exists.
func (a *AdminApp) Seed(ctx context.Context) (commands.SeedFacilityHeadResult, error) {
	admin := a.Config.SeedAdmin
	if admin.Email == "" {
		return commands.SeedFacilityHeadResult{}, errors.New("SEED_ADMIN_EMAIL is required")
	}
	return a.Users.Seed.Execute(ctx, commands.SeedFacilityHeadCommand{
		Name:        admin.Name,
		Email:       admin.Email,
		Password:    admin.Password,
		PhoneNumber: admin.PhoneNumber,
	})
}

func (a *AdminApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *APIApp) Run(ctx context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(a.server.Start)
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

// migrate creates users before agendas; agendas reference users.
func migrate(pg *db.Postgres) error {
	if err := userpostgres.Migrate(pg.DB); err != nil {
		return fmt.Errorf("migrate users: %w", err)
	}
	if err := agendapostgres.Migrate(pg.DB); err != nil {
		return fmt.Errorf("migrate agendas: %w", err)
	}
	return nil
}

func seedAdmin(ctx context.Context, cfg config.Config, users userservice.Module, logger *slog.Logger) error {
	if cfg.SeedAdmin.Email == "" {
		return nil
	}
	result, err := users.Seed.Execute(ctx, commands.SeedFacilityHeadCommand{
		Name:        cfg.SeedAdmin.Name,
		Email:       cfg.SeedAdmin.Email,
		Password:    cfg.SeedAdmin.Password,
		PhoneNumber: cfg.SeedAdmin.PhoneNumber,
	})
	if err != nil {
		return fmt.Errorf("seed facility head: %w", err)
	}
	if !result.Created {
		logger.Debug("facility head already present",
			"event", "bootstrap_seed_skipped",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return nil
}

func newNotifier(cfg config.Config, logger *slog.Logger) agendaports.Notifier {
	if cfg.FonnteToken == "" {
		logger.Warn("whatsapp notifications disabled",
			"event", "bootstrap_notifier_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		return whatsapp.Disabled{Logger: logger}
	}
	return whatsapp.NewClient(cfg.FonnteBaseURL, cfg.FonnteToken, logger)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
