// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	_ "embed"
	"fmt"

	sluggedstore "github.com/dalemusser/cleansite/internal/app/store/slugged"
	"github.com/dalemusser/cleansite/internal/app/system/mongoconn"
	"github.com/dalemusser/cleansite/internal/domain/models"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// FallbackSet is the closed set of local location and service pages.
type FallbackSet struct {
	Locations []models.Location `yaml:"locations"`
	Services  []models.Service  `yaml:"services"`
}

// LoadFallbackSet parses the embedded fallback pages.
func LoadFallbackSet() (FallbackSet, error) {
	return parseFallbackSet(fallbackYAML)
}

func parseFallbackSet(b []byte) (FallbackSet, error) {
	var set FallbackSet
	if err := yaml.Unmarshal(b, &set); err != nil {
		return FallbackSet{}, fmt.Errorf("seeding: parse fallback set: %w", err)
	}
	seen := map[string]bool{}
	for _, l := range set.Locations {
		if l.Slug == "" || seen["l:"+l.Slug] {
			return FallbackSet{}, fmt.Errorf("seeding: location with empty or repeated slug %q", l.Slug)
		}
		seen["l:"+l.Slug] = true
	}
	for _, s := range set.Services {
		if s.Slug == "" || seen["s:"+s.Slug] {
			return FallbackSet{}, fmt.Errorf("seeding: service with empty or repeated slug %q", s.Slug)
		}
		seen["s:"+s.Slug] = true
	}
	return set, nil
}

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, p mongoconn.Provider, logger *zap.Logger) error {
	set, err := LoadFallbackSet()
	if err != nil {
		return err
	}
	if err := seedSlugged(ctx, sluggedstore.New[models.Location](p, models.CollLocations), set.Locations, logger); err != nil {
		return err
	}
	if err := seedSlugged(ctx, sluggedstore.New[models.Service](p, models.CollServices), set.Services, logger); err != nil {
		return err
	}
	return nil
}

// seedSlugged inserts each record whose slug is not yet stored.
func seedSlugged[T any, PT sluggedstore.Sluggable[T]](ctx context.Context, store *sluggedstore.Store[T, PT], recs []T, logger *zap.Logger) error {
	for _, rec := range recs {
		slug := PT(&rec).SlugValue()
		written, err := store.Seed(ctx, rec)
		if err != nil {
			logger.Error("failed to seed fallback page",
				zap.String("collection", store.Collection()),
				zap.String("slug", slug),
				zap.Error(err))
			return err
		}
		if written {
			logger.Info("seeded fallback page",
				zap.String("collection", store.Collection()),
				zap.String("slug", slug))
		}
	}
	return nil
}
