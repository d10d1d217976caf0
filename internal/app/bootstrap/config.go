// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/cleansite/internal/app/system/normalize"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "CLEANSITE"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, cms_url, etc.
//   - Environment variables: CLEANSITE_MONGO_URI, CLEANSITE_CMS_URL, etc.
//   - Command-line flags: --mongo_uri, --cms_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "cleansite", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 10, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 2, Desc: "MongoDB min connection pool size"},
	{Name: "mongo_connect_timeout", Default: "10s", Desc: "MongoDB connect timeout"},
	{Name: "mongo_idle_timeout", Default: "45s", Desc: "Close pooled MongoDB connections idle this long"},
	{Name: "mongo_server_selection_timeout", Default: "10s", Desc: "MongoDB server selection timeout"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "cleansite-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "24h", Desc: "Session cookie max age (e.g., 24h, 720h, 30m)"},

	// Session tokens from the identity provider
	{Name: "token_secret", Default: "", Desc: "HS256 secret for externally issued session tokens (blank disables)"},
	{Name: "token_issuer", Default: "", Desc: "Required token issuer (blank accepts any)"},

	{Name: "csrf_key", Default: "dev-only-csrf-key-please-change-0123456789", Desc: "CSRF token signing key (32+ chars in production)"},

	// Headless CMS
	{Name: "cms_url", Default: "", Desc: "CMS base URL (blank serves local content only)"},
	{Name: "cms_token", Default: "", Desc: "CMS API token"},
	{Name: "cms_timeout", Default: "8s", Desc: "CMS request timeout"},
	{Name: "cms_version", Default: 4, Desc: "CMS (Strapi) major version: 4 or 5"},

	// Preview / draft mode
	{Name: "preview_secrets", Default: "", Desc: "Comma-separated preview secrets"},
	{Name: "draft_key", Default: "dev-only-draft-key-please-change-0123456789", Desc: "Draft cookie signing key (32+ chars in production)"},
	{Name: "draft_max_age", Default: "1h", Desc: "Draft cookie lifetime"},

	// Site-wide SEO defaults
	{Name: "site_name", Default: "Sparkle Home Cleaning", Desc: "Site name used in page titles"},
	{Name: "base_url", Default: "http://localhost:8080", Desc: "Public site URL for canonical links"},
	{Name: "site_description", Default: "", Desc: "Default meta description"},
	{Name: "default_og_image", Default: "", Desc: "Default Open Graph image URL or path"},
	{Name: "twitter_handle", Default: "", Desc: "Site Twitter/X handle"},
	{Name: "allow_custom_scripts", Default: false, Desc: "Pass page-level custom scripts through to metadata"},

	// Store operation timeouts
	{Name: "read_timeout", Default: "5s", Desc: "Store read timeout"},
	{Name: "write_timeout", Default: "10s", Desc: "Store write timeout"},
	{Name: "batch_timeout", Default: "60s", Desc: "Timeout for batch operations such as FAQ dedupe"},

	{Name: "seed_fallback", Default: true, Desc: "Seed the local locations/services fallback set on startup"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (CLEANSITE_* for the app) and flags with
// precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:                    appValues.String("mongo_uri"),
		MongoDatabase:               appValues.String("mongo_database"),
		MongoMaxPoolSize:            uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize:            uint64(appValues.Int("mongo_min_pool_size")),
		MongoConnectTimeout:         appValues.Duration("mongo_connect_timeout", 10*time.Second),
		MongoIdleTimeout:            appValues.Duration("mongo_idle_timeout", 45*time.Second),
		MongoServerSelectionTimeout: appValues.Duration("mongo_server_selection_timeout", 10*time.Second),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 24*time.Hour),

		TokenSecret: appValues.String("token_secret"),
		TokenIssuer: appValues.String("token_issuer"),

		CSRFKey: appValues.String("csrf_key"),

		CMSURL:     strings.TrimSpace(appValues.String("cms_url")),
		CMSToken:   appValues.String("cms_token"),
		CMSTimeout: appValues.Duration("cms_timeout", 8*time.Second),
		CMSVersion: appValues.Int("cms_version"),

		PreviewSecrets: appValues.String("preview_secrets"),
		DraftKey:       appValues.String("draft_key"),
		DraftMaxAge:    appValues.Duration("draft_max_age", time.Hour),

		SiteName:           appValues.String("site_name"),
		BaseURL:            appValues.String("base_url"),
		SiteDescription:    appValues.String("site_description"),
		DefaultOGImage:     appValues.String("default_og_image"),
		TwitterHandle:      appValues.String("twitter_handle"),
		AllowCustomScripts: appValues.Bool("allow_custom_scripts"),

		ReadTimeout:  appValues.Duration("read_timeout", 5*time.Second),
		WriteTimeout: appValues.Duration("write_timeout", 10*time.Second),
		BatchTimeout: appValues.Duration("batch_timeout", time.Minute),

		SeedFallback: appValues.Bool("seed_fallback"),
	}

	return coreCfg, appCfg, nil
}

// PreviewSecretList returns the configured preview secrets.
func (c AppConfig) PreviewSecretList() []string {
	return normalize.List(c.PreviewSecrets)
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if err := validatePreviewSecrets(appCfg.PreviewSecrets); err != nil {
		logger.Error("invalid preview secrets", zap.Error(err))
		return err
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.CMSVersion != 4 && appCfg.CMSVersion != 5 {
		return fmt.Errorf("cms_version must be 4 or 5, got %d", appCfg.CMSVersion)
	}
	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.DraftKey) < 32 {
		return errors.New("draft_key must be at least 32 characters in production")
	}
	if len(appCfg.PreviewSecretList()) == 0 {
		logger.Warn("no preview secrets configured; draft mode cannot be enabled")
	}
	return nil
}

// validatePreviewSecrets rejects a list with an empty entry such as "a,,b".
func validatePreviewSecrets(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	for i, s := range strings.Split(raw, ",") {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("preview_secrets entry %d is empty", i+1)
		}
	}
	return nil
}
