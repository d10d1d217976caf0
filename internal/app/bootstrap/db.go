// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/cleansite/internal/app/system/cms"
	"github.com/dalemusser/cleansite/internal/app/system/indexes"
	"github.com/dalemusser/cleansite/internal/app/system/mongoconn"
	"github.com/dalemusser/cleansite/internal/app/system/seeding"
	"github.com/dalemusser/cleansite/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// ConnectDB builds the backends the handlers share.
//
// The MongoDB connector is lazy: nothing is dialed here. The first Acquire
// (normally EnsureSchema) opens the pool, and a failed attempt is retried by
// the next caller rather than remembered. The CMS client is stateless.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	conn := mongoconn.New(mongoConfig(appCfg), logger)

	var src cms.Source = cms.Disabled{}
	if appCfg.CMSURL != "" {
		client, err := cms.New(cms.Config{
			BaseURL: appCfg.CMSURL,
			Token:   appCfg.CMSToken,
			Timeout: appCfg.CMSTimeout,
			Version: appCfg.CMSVersion,
		}, logger)
		if err != nil {
			return DBDeps{}, fmt.Errorf("cms client: %w", err)
		}
		src = client
	}

	logger.Info("backends configured",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize),
		zap.Uint64("min_pool_size", appCfg.MongoMinPoolSize),
		zap.Bool("cms_enabled", src.Enabled()),
	)

	return DBDeps{Mongo: conn, CMS: src}, nil
}

func mongoConfig(appCfg AppConfig) mongoconn.Config {
	cfg := mongoconn.DefaultConfig()
	cfg.URI = appCfg.MongoURI
	cfg.Database = appCfg.MongoDatabase
	if appCfg.MongoMaxPoolSize > 0 {
		cfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		cfg.MinPoolSize = appCfg.MongoMinPoolSize
	}
	if appCfg.MongoConnectTimeout > 0 {
		cfg.ConnectTimeout = appCfg.MongoConnectTimeout
	}
	if appCfg.MongoIdleTimeout > 0 {
		cfg.SocketIdleTimeout = appCfg.MongoIdleTimeout
	}
	if appCfg.MongoServerSelectionTimeout > 0 {
		cfg.ServerSelectionTimeout = appCfg.MongoServerSelectionTimeout
	}
	return cfg
}

// EnsureSchema creates collections, validators and indexes, then seeds the
// local locations/services fallback set.
//
// If MongoDB cannot be reached the schema step is skipped with a warning.
// Content backed by the CMS keeps working and the connector retries on the
// next request that needs the store.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db, err := deps.Mongo.Acquire(ctx)
	if err != nil {
		logger.Warn("MongoDB unavailable; skipping schema setup", zap.Error(err))
		return nil
	}

	// Validators first so indexes are created on existing collections.
	logger.Info("ensuring collections and validators")
	if err := validators.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure validators", zap.Error(err))
		return err
	}

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	if appCfg.SeedFallback {
		logger.Info("seeding local fallback content")
		if err := seeding.SeedAll(ctx, deps.Mongo, logger); err != nil {
			logger.Error("failed to seed fallback content", zap.Error(err))
			return err
		}
	}

	logger.Info("database schema ensured successfully")
	return nil
}
