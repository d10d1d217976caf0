// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/cleansite/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete, but
// before the HTTP handler is built and requests are served. Returning a
// non-nil error aborts startup.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Read:  appCfg.ReadTimeout,
		Write: appCfg.WriteTimeout,
		Batch: appCfg.BatchTimeout,
	})
	cur := timeouts.Current()
	logger.Info("store timeouts configured",
		zap.Duration("read", cur.Read),
		zap.Duration("write", cur.Write),
		zap.Duration("batch", cur.Batch))

	if deps.CMS != nil && deps.CMS.Enabled() {
		logger.Info("content source: CMS with local fallback", zap.String("cms_url", appCfg.CMSURL))
	} else {
		logger.Info("content source: local store only (no CMS configured)")
	}
	return nil
}
