package cmd

import (
	"context"
	"geodrive-insight/config"
	"geodrive-insight/internal/extractor"
	"geodrive-insight/internal/model"
	"geodrive-insight/pkg/cache"
	"geodrive-insight/pkg/database"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/metrics"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AppDependency struct {
	db        *database.DB
	cfg       *config.Config
	log       *logger.Logger
	validator *goValidator.Validate
	echo      *echo.Echo
	cache     cache.Cache
	metrics   *metrics.Metrics
	brands    *extractor.BrandStore
}

func NewAppDependency(ctx context.Context) (*AppDependency, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	if err != nil {
		return nil, err
	}

	db, err := database.NewDB(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	if db.Driver() == database.DriverSQLite {
		if err := db.WithContext(ctx).AutoMigrate(model.All()...); err != nil {
			log.Error("Failed to migrate sqlite schema", zap.Error(err))
			_ = db.Close()
			return nil, err
		}
	}

	m, err := metrics.New(nil)
	if err != nil {
		log.Error("Failed to register metrics", zap.Error(err))
		_ = db.Close()
		return nil, err
	}

	return &AppDependency{
		cfg:       cfg,
		log:       log,
		validator: goValidator.New(),
		db:        db,
		echo:      echo.New(),
		cache:     cache.NewCache(cfg.Cache.DefaultExpiration, cfg.Cache.CleanupInterval),
		metrics:   m,
		brands:    extractor.NewBrandStore(),
	}, nil
}

func (d *AppDependency) Close() error {
	d.log.Info("Closing app dependency")
	defer func() { _ = d.log.Sync() }()
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}
