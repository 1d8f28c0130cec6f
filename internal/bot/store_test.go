package bot

import (
	"context"
	"testing"
)

func TestCounterStoreReadsAbsentScopesAsZero(t *testing.T) {
	t.Parallel()

	store := NewCounterStore(stubCounterQueries{})

	global, err := store.GlobalCounters(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if global.Requests != 0 || global.Detections != 0 || global.Characters != 0 {
		t.Fatalf("unexpected counters: %+v", global)
	}

	guild, err := store.GuildCounters(context.Background(), "g1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if guild != global {
		t.Fatalf("unexpected counters: %+v", guild)
	}
}
