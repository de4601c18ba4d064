package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/mikelady/voicegit/internal/clients"
	"github.com/mikelady/voicegit/internal/config"
	"github.com/mikelady/voicegit/internal/database"
	"github.com/mikelady/voicegit/internal/logging"
	"github.com/mikelady/voicegit/internal/models"
	"github.com/mikelady/voicegit/internal/secrets"
	"github.com/mikelady/voicegit/internal/services"
	"github.com/mikelady/voicegit/internal/web"
)

// app holds everything a subcommand may need, built from one Config
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	gateway *services.AIGateway
	store   services.CommitStore
	service *services.VoiceCommitService

	secretStore func() (*secrets.Store, error)
	closers     []func()
}

// loadApp reads configuration and builds the logger and secrets lookup
func loadApp(ctx context.Context, configPath string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logOut, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		secretStore: sync.OnceValues(func() (*secrets.Store, error) {
			return secrets.NewDefaultStore(ctx)
		}),
	}, nil
}

// Close releases the store and any pools
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// initGateway builds the chat client and the lossy gateway on top of it
func (a *app) initGateway(ctx context.Context) error {
	credential := clients.EnvCredential(a.cfg.AI.APIKeyEnv)
	if a.cfg.AI.APIKeySecret != "" {
		store, err := a.secretStore()
		if err != nil {
			return err
		}
		key, err := store.GetString(ctx, a.cfg.AI.APIKeySecret)
		if err != nil {
			return fmt.Errorf("failed to load AI key: %w", err)
		}
		credential = clients.StaticCredential(key)
	}

	client := clients.NewChatClient(clients.ChatConfig{
		BaseURL:     a.cfg.AI.BaseURL,
		Model:       a.cfg.AI.Model,
		MaxTokens:   a.cfg.AI.MaxTokens,
		Temperature: a.cfg.AI.Temperature,
		Credential:  credential,
	})
	a.gateway = services.NewAIGateway(client, a.logger)
	return nil
}

// initStore opens the configured commit store, seeding it when enabled
func (a *app) initStore(ctx context.Context) error {
	switch a.cfg.Store.Driver {
	case config.StoreSQLite:
		store, err := database.OpenSQLiteCommitStore(ctx, a.cfg.Store.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { store.Close() })
		if a.cfg.Store.Seed {
			n, err := store.SeedIfEmpty(ctx, services.SeedRecords())
			if err != nil {
				return err
			}
			a.logger.Debug("seeded sqlite store", slog.Int("records", n))
		}
		a.store = store

	case config.StorePostgres:
		pool, err := a.openPool(ctx)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pool.Close)
		if err := database.RunMigrations(pool); err != nil {
			return err
		}
		store := database.NewPostgresCommitStore(pool)
		if a.cfg.Store.Seed {
			n, err := store.SeedIfEmpty(ctx, services.SeedRecords())
			if err != nil {
				return err
			}
			a.logger.Debug("seeded postgres store", slog.Int("records", n))
		}
		a.store = store

	default:
		var records []models.CommitRecord
		if a.cfg.Store.Seed {
			records = services.SeedRecords()
		}
		a.store = services.NewInMemoryCommitStore(records)
	}

	a.logger.Info("commit store ready", slog.String("driver", a.cfg.Store.Driver))
	return nil
}

// postgresConfig resolves connection settings from DATABASE_URL or a Secrets Manager secret.
// Exactly one of the return values is set.
func (a *app) postgresConfig(ctx context.Context) (string, *database.Config, error) {
	if a.cfg.Store.DatabaseURL != "" {
		return a.cfg.Store.DatabaseURL, nil, nil
	}
	if a.cfg.Store.DBSecretName == "" {
		return "", nil, fmt.Errorf("postgres store needs database_url or db_secret_name")
	}

	store, err := a.secretStore()
	if err != nil {
		return "", nil, err
	}
	a.logger.Info("loading database credentials from Secrets Manager", slog.String("secret", a.cfg.Store.DBSecretName))
	dbConfig, err := database.LoadConfigFromSecret(ctx, store, a.cfg.Store.DBSecretName)
	if err != nil {
		return "", nil, err
	}
	return "", dbConfig, nil
}

func (a *app) openPool(ctx context.Context) (*database.Pool, error) {
	url, dbConfig, err := a.postgresConfig(ctx)
	if err != nil {
		return nil, err
	}
	if dbConfig != nil {
		return database.NewPoolFromConfig(ctx, dbConfig)
	}
	return database.NewPool(ctx, url)
}

// initService wires store, gateway and capturer into the controller
func (a *app) initService(ctx context.Context) error {
	if err := a.initGateway(ctx); err != nil {
		return err
	}
	if err := a.initStore(ctx); err != nil {
		return err
	}

	duration, err := a.cfg.CaptureDuration()
	if err != nil {
		return err
	}
	a.service = services.NewVoiceCommitService(a.store, a.gateway, services.NewCannedTranscriptCapturer(duration), a.logger)
	return nil
}

// router returns the HTTP handler for the dashboard and API
func (a *app) router() *web.Router {
	return web.NewRouter(a.service, a.gateway, a.logger)
}
