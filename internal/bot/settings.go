package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"horse.fit/polly/internal/db"
)

const settingsCacheSize = 256

// Settings is the decoded per-guild configuration used on the event
// paths.
type Settings struct {
	GuildID         string
	ReactionEnabled bool
	TextEnabled     bool
	Allowlist       []db.AccessEntry
	Blocklist       []db.AccessEntry
}

// SettingsStore is the storage surface the bot needs for guild and
// global configuration. *db.Pool implements it.
type SettingsStore interface {
	EnsureGuildSettings(ctx context.Context, guildID string) (db.GuildSettings, error)
	ListGuildSettings(ctx context.Context) ([]db.GuildSettings, error)
	SetGuildReactionEnabled(ctx context.Context, guildID string, enabled bool) error
	SetGuildTextEnabled(ctx context.Context, guildID string, enabled bool) error
	AddGuildAccessEntries(ctx context.Context, guildID string, list db.AccessList, entries []db.AccessEntry) error
	RemoveGuildAccessEntries(ctx context.Context, guildID string, list db.AccessList, entries []db.AccessEntry) error
	ClearGuildAccessList(ctx context.Context, guildID string, list db.AccessList) error
	GetGlobalConfig(ctx context.Context) (db.GlobalConfig, error)
	SetGlobalCooldownTimeout(ctx context.Context, seconds int) error
	SetGlobalCooldownMultiple(ctx context.Context, multiple bool) error
}

// SettingsCache keeps decoded guild settings behind a small LRU plus a
// one-slot cooldown policy cache, so the per-event hot path does not pay
// a storage round trip. Writers must invalidate after changing rows.
type SettingsCache struct {
	store  SettingsStore
	guilds *lru.Cache[string, Settings]

	mu       sync.Mutex
	cooldown *CooldownPolicy
}

func NewSettingsCache(store SettingsStore) (*SettingsCache, error) {
	guilds, err := lru.New[string, Settings](settingsCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create settings cache: %w", err)
	}
	return &SettingsCache{store: store, guilds: guilds}, nil
}

// Guild returns the decoded settings for a guild, creating the default
// row on first contact.
func (c *SettingsCache) Guild(ctx context.Context, guildID string) (Settings, error) {
	if settings, ok := c.guilds.Get(guildID); ok {
		return settings, nil
	}

	row, err := c.store.EnsureGuildSettings(ctx, guildID)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings for guild %s: %w", guildID, err)
	}
	settings, err := decodeSettings(row)
	if err != nil {
		return Settings{}, err
	}
	c.guilds.Add(guildID, settings)
	return settings, nil
}

// CooldownPolicy returns the global trigger policy, cached until the
// next invalidation.
func (c *SettingsCache) CooldownPolicy(ctx context.Context) (CooldownPolicy, error) {
	c.mu.Lock()
	if c.cooldown != nil {
		policy := *c.cooldown
		c.mu.Unlock()
		return policy, nil
	}
	c.mu.Unlock()

	cfg, err := c.store.GetGlobalConfig(ctx)
	if err != nil {
		if db.IsNoRows(err) {
			cfg = db.GlobalConfig{}
		} else {
			return CooldownPolicy{}, fmt.Errorf("load global config: %w", err)
		}
	}
	policy := CooldownPolicy{
		Timeout:  time.Duration(cfg.CooldownTimeoutSeconds) * time.Second,
		Multiple: cfg.CooldownMultiple,
	}

	c.mu.Lock()
	c.cooldown = &policy
	c.mu.Unlock()
	return policy, nil
}

// Invalidate drops one guild's cached settings.
func (c *SettingsCache) Invalidate(guildID string) {
	c.guilds.Remove(guildID)
}

// InvalidateCooldown drops the cached global policy.
func (c *SettingsCache) InvalidateCooldown() {
	c.mu.Lock()
	c.cooldown = nil
	c.mu.Unlock()
}

func decodeSettings(row db.GuildSettings) (Settings, error) {
	allowlist, err := db.DecodeAccessList(row.Allowlist)
	if err != nil {
		return Settings{}, fmt.Errorf("decode allowlist for guild %s: %w", row.GuildID, err)
	}
	blocklist, err := db.DecodeAccessList(row.Blocklist)
	if err != nil {
		return Settings{}, fmt.Errorf("decode blocklist for guild %s: %w", row.GuildID, err)
	}
	return Settings{
		GuildID:         row.GuildID,
		ReactionEnabled: row.ReactionEnabled,
		TextEnabled:     row.TextEnabled,
		Allowlist:       allowlist,
		Blocklist:       blocklist,
	}, nil
}
