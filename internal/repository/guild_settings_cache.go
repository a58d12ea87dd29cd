package repository

import (
	"context"
	"sync"

	"slfo/internal/models"
)

// GuildSettingsCache provides a thread-safe read-through cache in front of a GuildSettings store
type GuildSettingsCache struct {
	next GuildSettings

	mu    sync.RWMutex
	cache map[string]*models.GuildRoleConfig // guild ID -> settings, nil when the guild has no row
}

// NewGuildSettingsCache wraps next with an in-memory cache
func NewGuildSettingsCache(next GuildSettings) *GuildSettingsCache {
	return &GuildSettingsCache{
		next:  next,
		cache: make(map[string]*models.GuildRoleConfig),
	}
}

// GetGuildSettings serves from cache, loading from the wrapped store on a miss
func (c *GuildSettingsCache) GetGuildSettings(ctx context.Context, guildID string) (*models.GuildRoleConfig, error) {
	c.mu.RLock()
	cfg, found := c.cache[guildID]
	c.mu.RUnlock()
	if found {
		return copySettings(cfg), nil
	}

	cfg, err := c.next.GetGuildSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[guildID] = copySettings(cfg)
	c.mu.Unlock()
	return cfg, nil
}

// SaveGuildSettings writes through and drops the cached entry
func (c *GuildSettingsCache) SaveGuildSettings(ctx context.Context, cfg models.GuildRoleConfig) error {
	if err := c.next.SaveGuildSettings(ctx, cfg); err != nil {
		return err
	}
	c.Delete(cfg.GuildID)
	return nil
}

// Delete removes a guild from cache
func (c *GuildSettingsCache) Delete(guildID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.cache, guildID)
}

// Clear removes all entries from cache
func (c *GuildSettingsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*models.GuildRoleConfig)
}

// Size returns the number of cached entries (for monitoring/debugging)
func (c *GuildSettingsCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func copySettings(cfg *models.GuildRoleConfig) *models.GuildRoleConfig {
	if cfg == nil {
		return nil
	}
	out := *cfg
	return &out
}
