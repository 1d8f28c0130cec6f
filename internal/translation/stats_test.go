package translation

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

type stubCounterStore struct {
	global      Counters
	guilds      map[string]Counters
	savedGlobal []Counters
	savedGuilds map[string][]Counters
	failGuild   string
}

func newStubCounterStore() *stubCounterStore {
	return &stubCounterStore{
		guilds:      make(map[string]Counters),
		savedGuilds: make(map[string][]Counters),
	}
}

func (s *stubCounterStore) GlobalCounters(_ context.Context) (Counters, error) {
	return s.global, nil
}

func (s *stubCounterStore) GuildCounters(_ context.Context, guildID string) (Counters, error) {
	return s.guilds[guildID], nil
}

func (s *stubCounterStore) SaveGlobalCounters(_ context.Context, counters Counters) error {
	s.savedGlobal = append(s.savedGlobal, counters)
	s.global = counters
	return nil
}

func (s *stubCounterStore) SaveGuildCounters(_ context.Context, guildID string, counters Counters) error {
	if guildID == s.failGuild {
		return fmt.Errorf("guild %s is unwritable", guildID)
	}
	s.savedGuilds[guildID] = append(s.savedGuilds[guildID], counters)
	s.guilds[guildID] = counters
	return nil
}

func (s *stubCounterStore) ListGuildCounters(_ context.Context) (map[string]Counters, error) {
	out := make(map[string]Counters, len(s.guilds))
	for id, c := range s.guilds {
		out[id] = c
	}
	return out, nil
}

func TestStatsCounterFlushWritesTouchedScopesOnly(t *testing.T) {
	t.Parallel()

	store := newStubCounterStore()
	store.guilds["touched"] = Counters{}
	store.guilds["untouched"] = Counters{Requests: 7, Detections: 2, Characters: 40}
	stats := NewStatsCounter(store, zerolog.Nop())

	ctx := context.Background()
	stats.AddRequest(ctx, "touched", "0123456789")
	stats.AddRequest(ctx, "touched", "01234")

	if err := stats.Flush(ctx); err != nil {
		t.Fatalf("flush failed: %v", err)
	}

	saved, ok := store.savedGuilds["touched"]
	if !ok || len(saved) != 1 {
		t.Fatalf("expected one save for touched guild, got %+v", store.savedGuilds)
	}
	if saved[0].Characters != 15 || saved[0].Requests != 2 {
		t.Fatalf("unexpected flushed counters: %+v", saved[0])
	}
	if _, wrote := store.savedGuilds["untouched"]; wrote {
		t.Fatalf("untouched guild must not be flushed")
	}
	if store.guilds["untouched"].Requests != 7 {
		t.Fatalf("untouched guild counters changed: %+v", store.guilds["untouched"])
	}
}

func TestStatsCounterLazyLoadsStoredScope(t *testing.T) {
	t.Parallel()

	store := newStubCounterStore()
	store.guilds["g1"] = Counters{Requests: 5, Detections: 1, Characters: 100}
	stats := NewStatsCounter(store, zerolog.Nop())

	ctx := context.Background()
	stats.AddRequest(ctx, "g1", "abc")

	got, err := stats.Guild(ctx, "g1")
	if err != nil {
		t.Fatalf("guild read failed: %v", err)
	}
	want := Counters{Requests: 6, Detections: 1, Characters: 103}
	if got != want {
		t.Fatalf("lazy-loaded counters wrong: got %+v want %+v", got, want)
	}
}

func TestStatsCounterCountsCodePoints(t *testing.T) {
	t.Parallel()

	store := newStubCounterStore()
	stats := NewStatsCounter(store, zerolog.Nop())

	ctx := context.Background()
	stats.AddRequest(ctx, "", "héllo")

	global, err := stats.Global(ctx)
	if err != nil {
		t.Fatalf("global read failed: %v", err)
	}
	if global.Characters != 5 {
		t.Fatalf("expected 5 code points, got %d", global.Characters)
	}
}

func TestStatsCounterAddDetect(t *testing.T) {
	t.Parallel()

	store := newStubCounterStore()
	stats := NewStatsCounter(store, zerolog.Nop())

	ctx := context.Background()
	stats.AddDetect(ctx, "g1")
	stats.AddDetect(ctx, "")

	global, err := stats.Global(ctx)
	if err != nil {
		t.Fatalf("global read failed: %v", err)
	}
	if global.Detections != 2 {
		t.Fatalf("expected 2 global detections, got %d", global.Detections)
	}
	guild, err := stats.Guild(ctx, "g1")
	if err != nil {
		t.Fatalf("guild read failed: %v", err)
	}
	if guild.Detections != 1 {
		t.Fatalf("expected 1 guild detection, got %d", guild.Detections)
	}
}

func TestStatsCounterFlushToleratesPartialFailure(t *testing.T) {
	t.Parallel()

	store := newStubCounterStore()
	store.failGuild = "bad"
	stats := NewStatsCounter(store, zerolog.Nop())

	ctx := context.Background()
	stats.AddRequest(ctx, "good", "hello")
	stats.AddRequest(ctx, "bad", "world")

	err := stats.Flush(ctx)
	if err == nil {
		t.Fatalf("expected an aggregate error from the failed scope")
	}
	if !strings.Contains(err.Error(), "bad") {
		t.Fatalf("error should name the failed guild: %v", err)
	}
	if saved := store.savedGuilds["good"]; len(saved) != 1 || saved[0].Requests != 1 {
		t.Fatalf("good guild write must stand, got %+v", saved)
	}
}

func TestStatsCounterTextFallsBackToStore(t *testing.T) {
	t.Parallel()

	store := newStubCounterStore()
	store.global = Counters{Requests: 1, Detections: 2, Characters: 3}
	store.guilds["g1"] = Counters{Requests: 4, Detections: 5, Characters: 6}
	stats := NewStatsCounter(store, zerolog.Nop())

	text, err := stats.Text(context.Background(), "g1")
	if err != nil {
		t.Fatalf("text render failed: %v", err)
	}
	for _, want := range []string{
		"### **Global Usage**:",
		"- API Requests:  **1**",
		"- Language Detect calls:  **2**",
		"- Characters requested:  **3**",
		"### **Guild g1's Usage**:",
		"- API Requests:  **4**",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("summary missing %q:\n%s", want, text)
		}
	}
}
