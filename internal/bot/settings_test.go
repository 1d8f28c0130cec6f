package bot

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"horse.fit/polly/internal/db"
)

func TestSettingsCacheAvoidsRepeatReads(t *testing.T) {
	t.Parallel()

	store := &stubSettingsStore{
		rows: map[string]db.GuildSettings{"g1": guildRow("g1", true, true)},
	}
	cache, err := NewSettingsCache(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		settings, err := cache.Guild(context.Background(), "g1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !settings.ReactionEnabled || !settings.TextEnabled {
			t.Fatalf("unexpected settings: %+v", settings)
		}
	}
	if store.ensureCalls != 1 {
		t.Fatalf("expected a single storage read, got %d", store.ensureCalls)
	}

	cache.Invalidate("g1")
	if _, err := cache.Guild(context.Background(), "g1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.ensureCalls != 2 {
		t.Fatalf("expected a reload after invalidation, got %d reads", store.ensureCalls)
	}
}

func TestCooldownPolicyCachedUntilInvalidated(t *testing.T) {
	t.Parallel()

	store := &stubSettingsStore{
		config: db.GlobalConfig{CooldownTimeoutSeconds: 30, CooldownMultiple: true},
	}
	cache, err := NewSettingsCache(store)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := 0; i < 3; i++ {
		policy, err := cache.CooldownPolicy(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if policy.Timeout != 30*time.Second || !policy.Multiple {
			t.Fatalf("unexpected policy: %+v", policy)
		}
	}
	if store.configReads != 1 {
		t.Fatalf("expected a single config read, got %d", store.configReads)
	}

	cache.InvalidateCooldown()
	if _, err := cache.CooldownPolicy(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.configReads != 2 {
		t.Fatalf("expected a reload after invalidation, got %d reads", store.configReads)
	}
}

func TestDecodeSettingsRejectsBadList(t *testing.T) {
	t.Parallel()

	row := guildRow("g1", true, false)
	row.Allowlist = json.RawMessage("{")
	if _, err := decodeSettings(row); err == nil {
		t.Fatal("expected a decode error")
	}
}
