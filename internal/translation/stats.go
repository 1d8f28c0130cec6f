package translation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

// Counters is one scope's API usage totals.
type Counters struct {
	Requests   int64 `json:"requests"`
	Detections int64 `json:"detections"`
	Characters int64 `json:"characters"`
}

// CounterStore persists usage counters per scope. The global scope and
// each guild scope are written independently.
type CounterStore interface {
	GlobalCounters(ctx context.Context) (Counters, error)
	GuildCounters(ctx context.Context, guildID string) (Counters, error)
	SaveGlobalCounters(ctx context.Context, counters Counters) error
	SaveGuildCounters(ctx context.Context, guildID string, counters Counters) error
	ListGuildCounters(ctx context.Context) (map[string]Counters, error)
}

// StatsCounter accumulates usage in memory and periodically flushes to the
// store. Between flushes the in-memory numbers are authoritative for every
// scope that has been touched; untouched scopes keep whatever the store
// holds.
type StatsCounter struct {
	mu     sync.Mutex
	store  CounterStore
	logger zerolog.Logger
	global *Counters
	guilds map[string]*Counters
}

func NewStatsCounter(store CounterStore, logger zerolog.Logger) *StatsCounter {
	return &StatsCounter{
		store:  store,
		logger: logger,
		guilds: make(map[string]*Counters),
	}
}

// Initialize pre-loads the global scope and every stored guild scope.
func (s *StatsCounter) Initialize(ctx context.Context) error {
	global, err := s.store.GlobalCounters(ctx)
	if err != nil {
		return fmt.Errorf("load global counters: %w", err)
	}
	guilds, err := s.store.ListGuildCounters(ctx)
	if err != nil {
		return fmt.Errorf("load guild counters: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = &global
	for guildID, counters := range guilds {
		c := counters
		s.guilds[guildID] = &c
	}
	return nil
}

// AddDetect counts one language detection call for the guild (when set)
// and for the global scope.
func (s *StatsCounter) AddDetect(ctx context.Context, guildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if guildID != "" {
		s.logger.Debug().Str("guild_id", guildID).Msg("+1 detect counter")
		s.guildLocked(ctx, guildID).Detections++
	}
	s.globalLocked(ctx).Detections++
}

// AddRequest counts one translation request plus the character volume of
// the translated text for the guild (when set) and for the global scope.
// Characters are Unicode code points, matching how the API bills.
func (s *StatsCounter) AddRequest(ctx context.Context, guildID, text string) {
	chars := int64(utf8.RuneCountInString(text))

	s.mu.Lock()
	defer s.mu.Unlock()

	if guildID != "" {
		s.logger.Debug().Str("guild_id", guildID).Msg("+1 requests counter")
		counters := s.guildLocked(ctx, guildID)
		counters.Requests++
		counters.Characters += chars
	}
	global := s.globalLocked(ctx)
	global.Requests++
	global.Characters += chars
}

// Flush overwrites the store with the in-memory totals, one scope at a
// time. A failed scope is skipped and reported; earlier writes stand.
func (s *StatsCounter) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	if s.global != nil {
		if err := s.store.SaveGlobalCounters(ctx, *s.global); err != nil {
			errs = append(errs, fmt.Errorf("flush global counters: %w", err))
		}
	}
	for guildID, counters := range s.guilds {
		if err := s.store.SaveGuildCounters(ctx, guildID, *counters); err != nil {
			errs = append(errs, fmt.Errorf("flush counters for guild %s: %w", guildID, err))
		}
	}
	return errors.Join(errs...)
}

// Global returns the global totals, falling back to the store when the
// scope has not been touched since startup.
func (s *StatsCounter) Global(ctx context.Context) (Counters, error) {
	s.mu.Lock()
	if s.global != nil {
		counters := *s.global
		s.mu.Unlock()
		return counters, nil
	}
	s.mu.Unlock()
	return s.store.GlobalCounters(ctx)
}

// Guild returns one guild's totals with the same fallback rule.
func (s *StatsCounter) Guild(ctx context.Context, guildID string) (Counters, error) {
	s.mu.Lock()
	if counters, ok := s.guilds[guildID]; ok {
		c := *counters
		s.mu.Unlock()
		return c, nil
	}
	s.mu.Unlock()
	return s.store.GuildCounters(ctx, guildID)
}

// Text renders a usage summary for the global scope, plus one guild when
// guildID is set.
func (s *StatsCounter) Text(ctx context.Context, guildID string) (string, error) {
	global, err := s.Global(ctx)
	if err != nil {
		return "", fmt.Errorf("read global counters: %w", err)
	}

	var b strings.Builder
	b.WriteString("### **Global Usage**:\n")
	writeCounterLines(&b, global)

	if guildID != "" {
		guild, err := s.Guild(ctx, guildID)
		if err != nil {
			return "", fmt.Errorf("read counters for guild %s: %w", guildID, err)
		}
		fmt.Fprintf(&b, "### **Guild %s's Usage**:\n", guildID)
		writeCounterLines(&b, guild)
	}
	return b.String(), nil
}

func writeCounterLines(b *strings.Builder, counters Counters) {
	fmt.Fprintf(b, "- API Requests:  **%d**\n", counters.Requests)
	fmt.Fprintf(b, "- Language Detect calls:  **%d**\n", counters.Detections)
	fmt.Fprintf(b, "- Characters requested:  **%d**\n", counters.Characters)
}

// guildLocked returns the in-memory counters for a guild, loading them
// from the store on first touch. Callers hold s.mu.
func (s *StatsCounter) guildLocked(ctx context.Context, guildID string) *Counters {
	if counters, ok := s.guilds[guildID]; ok {
		return counters
	}
	loaded, err := s.store.GuildCounters(ctx, guildID)
	if err != nil {
		s.logger.Warn().Err(err).Str("guild_id", guildID).Msg("loading stored counters failed, starting from zero")
		loaded = Counters{}
	}
	s.guilds[guildID] = &loaded
	return &loaded
}

func (s *StatsCounter) globalLocked(ctx context.Context) *Counters {
	if s.global != nil {
		return s.global
	}
	loaded, err := s.store.GlobalCounters(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("loading stored global counters failed, starting from zero")
		loaded = Counters{}
	}
	s.global = &loaded
	return s.global
}
