package bootstrap

import (
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "cleansite",
		MongoMinPoolSize: 2,
		MongoMaxPoolSize: 10,
		CMSVersion:       4,
		PreviewSecrets:   "alpha,beta",
		DraftKey:         strings.Repeat("d", 32),
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr string
	}{
		{name: "valid", core: dev, mutate: func(*AppConfig) {}},
		{name: "no preview secrets", core: dev, mutate: func(c *AppConfig) { c.PreviewSecrets = "" }},
		{name: "empty secret entry", core: dev, mutate: func(c *AppConfig) { c.PreviewSecrets = "a,,b" }, wantErr: "entry 2 is empty"},
		{name: "trailing comma", core: dev, mutate: func(c *AppConfig) { c.PreviewSecrets = "a," }, wantErr: "entry 2 is empty"},
		{name: "pool inverted", core: dev, mutate: func(c *AppConfig) { c.MongoMinPoolSize = 20 }, wantErr: "exceeds"},
		{name: "cms version", core: dev, mutate: func(c *AppConfig) { c.CMSVersion = 3 }, wantErr: "cms_version"},
		{name: "short draft key dev", core: dev, mutate: func(c *AppConfig) { c.DraftKey = "short" }},
		{name: "short draft key prod", core: prod, mutate: func(c *AppConfig) { c.DraftKey = "short" }, wantErr: "draft_key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, zap.NewNop())
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPreviewSecretList(t *testing.T) {
	cfg := AppConfig{PreviewSecrets: " alpha , beta "}
	assert.Equal(t, []string{"alpha", "beta"}, cfg.PreviewSecretList())
	assert.Empty(t, AppConfig{}.PreviewSecretList())
}

func TestMongoConfig(t *testing.T) {
	cfg := mongoConfig(AppConfig{
		MongoURI:         "mongodb://db:27017",
		MongoDatabase:    "site",
		MongoMaxPoolSize: 25,
		MongoIdleTimeout: time.Minute,
	})
	assert.Equal(t, "mongodb://db:27017", cfg.URI)
	assert.Equal(t, "site", cfg.Database)
	assert.Equal(t, uint64(25), cfg.MaxPoolSize)
	assert.Equal(t, uint64(2), cfg.MinPoolSize, "unset values keep the defaults")
	assert.Equal(t, time.Minute, cfg.SocketIdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
}
