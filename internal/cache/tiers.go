package cache

import "time"

// TierConfig sizes one cache tier.
type TierConfig struct {
	MaxEntries int           `mapstructure:"max_entries"`
	TTL        time.Duration `mapstructure:"ttl"`
}

// TiersConfig sizes all four tiers.
type TiersConfig struct {
	Viewport  TierConfig `mapstructure:"viewport"`
	Search    TierConfig `mapstructure:"search"`
	Reference TierConfig `mapstructure:"reference"`
	Provider  TierConfig `mapstructure:"provider"`
}

// DefaultTiersConfig returns the standard tier sizing: short-lived viewport
// results, medium-lived searches and provider polygons, long-lived reference
// data.
func DefaultTiersConfig() TiersConfig {
	return TiersConfig{
		Viewport:  TierConfig{MaxEntries: 256, TTL: 30 * time.Second},
		Search:    TierConfig{MaxEntries: 512, TTL: 5 * time.Minute},
		Reference: TierConfig{MaxEntries: 64, TTL: time.Hour},
		Provider:  TierConfig{MaxEntries: 512, TTL: 10 * time.Minute},
	}
}

// Tiers groups the operation caches by volatility.
type Tiers struct {
	Viewport  *Cache
	Search    *Cache
	Reference *Cache
	Provider  *Cache
}

// NewTiers builds the tier set from config, falling back to defaults for any
// tier left unset.
func NewTiers(cfg TiersConfig) *Tiers {
	def := DefaultTiersConfig()
	fill := func(c, d TierConfig) TierConfig {
		if c.MaxEntries <= 0 {
			c.MaxEntries = d.MaxEntries
		}
		if c.TTL <= 0 {
			c.TTL = d.TTL
		}
		return c
	}

	v := fill(cfg.Viewport, def.Viewport)
	s := fill(cfg.Search, def.Search)
	r := fill(cfg.Reference, def.Reference)
	p := fill(cfg.Provider, def.Provider)

	return &Tiers{
		Viewport:  New(v.MaxEntries, v.TTL),
		Search:    New(s.MaxEntries, s.TTL),
		Reference: New(r.MaxEntries, r.TTL),
		Provider:  New(p.MaxEntries, p.TTL),
	}
}

// StatsByTier reports stats for every tier keyed by tier name.
func (t *Tiers) StatsByTier() map[string]Stats {
	return map[string]Stats{
		"viewport":  t.Viewport.Stats(),
		"search":    t.Search.Stats(),
		"reference": t.Reference.Stats(),
		"provider":  t.Provider.Stats(),
	}
}
