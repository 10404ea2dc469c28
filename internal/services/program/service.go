package program

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"vendora/internal/repositories"
	"vendora/internal/repositories/cache"
)

const snapshotTTL = 5 * time.Minute

// Service loads program configuration snapshots, with a short-lived
// redis cache in front of the settings table.
type Service struct {
	store repositories.Store
	cache *cache.Service
}

// NewService creates the program configuration service. The cache is
// optional; without it every snapshot hits the settings table.
func NewService(store repositories.Store, cacheSvc *cache.Service) *Service {
	if store == nil {
		panic("store is required")
	}
	return &Service{store: store, cache: cacheSvc}
}

// Snapshot returns the current program configuration. A missing
// settings row yields a disabled program rather than an error, so a
// fresh install processes no commissions until configured.
func (s *Service) Snapshot(ctx context.Context) (*Config, error) {
	if s.cache != nil {
		var cached Config
		err := s.cache.GetJSON(ctx, cache.ProgramConfigKey, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("program config cache read failed: %v", err)
		}
	}

	settings, err := s.store.Settings().Get(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrSettingsNotFound) {
			return &Config{Enabled: false}, nil
		}
		return nil, fmt.Errorf("load program settings: %w", err)
	}

	cfg := &Config{
		Enabled:             settings.Enabled,
		DefaultRate:         settings.DefaultRate,
		ExcludeTax:          settings.ExcludeTax,
		ExcludeShipping:     settings.ExcludeShipping,
		AllowZeroCommission: settings.AllowZeroCommission,
		AllowSelfReferral:   settings.AllowSelfReferral,
		MinimumPayout:       settings.MinimumPayout,
		PayoutMethods:       settings.PayoutMethods,
		MLM: MLMConfig{
			Enabled:  settings.MLMEnabled,
			MaxDepth: settings.MLMMaxDepth,
		},
	}
	if settings.MLMEnabled {
		levels, err := s.store.Settings().ListMLMLevels(ctx)
		if err != nil {
			return nil, fmt.Errorf("load mlm levels: %w", err)
		}
		for _, lvl := range levels {
			cfg.MLM.LevelRates = append(cfg.MLM.LevelRates, lvl.Rate)
		}
	}

	if s.cache != nil {
		if err := s.cache.SetJSONWithTTL(ctx, cache.ProgramConfigKey, cfg, snapshotTTL); err != nil {
			log.Printf("program config cache write failed: %v", err)
		}
	}
	return cfg, nil
}

// Invalidate drops the cached snapshot; called after settings edits.
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cache.ProgramConfigKey); err != nil {
		log.Printf("program config cache invalidation failed: %v", err)
	}
}
