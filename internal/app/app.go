package app

import (
	"context"
	"fmt"
	"time"

	"fenix-certificates/internal/certificates"
	"fenix-certificates/internal/codegen"
	"fenix-certificates/internal/config"
	"fenix-certificates/internal/crm"
	"fenix-certificates/internal/health"
	"fenix-certificates/internal/infrastructure/database"
	"fenix-certificates/internal/keycrm"
	"fenix-certificates/internal/managers"
	"fenix-certificates/internal/storage"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps is everything the HTTP server and the operator CLI share.
type Deps struct {
	Config       *config.Config
	DB           *gorm.DB      // nil unless the store is sqlite or postgres
	Rdb          *redis.Client // nil unless REDIS_URL is set
	Store        *certificates.Store
	Certificates *certificates.Service
	KeyCRM       *keycrm.Client
	Gateway      *crm.Gateway
	Directory    *managers.Directory
	Location     *time.Location
}

// Build opens the configured backends and loads the certificate history.
func Build(ctx context.Context, cfg *config.Config) (*Deps, error) {
	d := &Deps{Config: cfg}

	loc, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.DisplayTimezone).Msg("Unknown display timezone, using UTC")
		loc = time.UTC
	}
	d.Location = loc

	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis url: %w", err)
		}
		d.Rdb = redis.NewClient(opt)
	}

	backend, err := d.openBackend(cfg)
	if err != nil {
		return nil, err
	}
	d.Store = certificates.NewStore(backend, cfg.StoreKey)
	d.Store.Load(ctx)

	d.KeyCRM = &keycrm.Client{
		BaseURL: cfg.KeyCRMBaseURL,
		APIKey:  cfg.KeyCRMAPIKey,
		Timeout: cfg.KeyCRMTimeout,
	}
	if cfg.KeyCRMAPIKey == "" {
		log.Warn().Msg("KEYCRM_API_KEY is not set; CRM endpoints will fail")
	}
	d.Gateway = crm.NewGateway(d.KeyCRM, cfg.KeyCRMSourceID)
	d.Directory = &managers.Directory{Client: d.KeyCRM}
	d.Certificates = &certificates.Service{
		Store:    d.Store,
		Codes:    &codegen.Generator{},
		CRM:      d.Gateway,
		Location: loc,
	}
	return d, nil
}

func (d *Deps) openBackend(cfg *config.Config) (storage.Backend, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return storage.NewMemoryBackend(), nil
	case config.StoreRedis:
		if d.Rdb == nil {
			return nil, fmt.Errorf("STORE_DRIVER=redis needs REDIS_URL")
		}
		return &storage.RedisBackend{Rdb: d.Rdb}, nil
	case config.StorePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("STORE_DRIVER=postgres needs DATABASE_URL")
		}
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return d.gorm(db)
	default:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return d.gorm(db)
	}
}

func (d *Deps) gorm(db *gorm.DB) (storage.Backend, error) {
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	d.DB = db
	return &storage.GormBackend{DB: db}, nil
}

// Checker builds the health checker over whatever backends are open.
func (d *Deps) Checker() *health.Checker {
	h := &health.Checker{Rdb: d.Rdb, StoreDriver: d.Config.StoreDriver, CRMTimeout: 3 * time.Second}
	if d.DB != nil {
		h.DB = &gormPinger{db: d.DB}
	}
	if d.Config.KeyCRMAPIKey != "" {
		h.CRM = d.KeyCRM
	}
	return h
}

// Close releases database and redis connections.
func (d *Deps) Close() {
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if d.Rdb != nil {
		_ = d.Rdb.Close()
	}
}

type gormPinger struct {
	db *gorm.DB
}

func (g *gormPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
